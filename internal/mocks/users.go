package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"conduit-backend/internal/domains/user"
)

// MockUserRepository is an in-memory user.Repository enforcing the same
// uniqueness rules as the users table.
type MockUserRepository struct {
	mu    sync.RWMutex
	Users map[uuid.UUID]*user.User

	// OnDelete chạy sau khi xóa user, mô phỏng FK cascade sang các bảng khác
	OnDelete []func(id uuid.UUID)

	FindError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[uuid.UUID]*user.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(u); err != nil {
		return err
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.ID == id })
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.Email == email })
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.Username == username })
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	if err := m.checkUnique(u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	if _, ok := m.Users[id]; !ok {
		m.mu.Unlock()
		return user.ErrUserNotFound
	}
	delete(m.Users, id)
	hooks := m.OnDelete
	m.mu.Unlock()

	for _, hook := range hooks {
		hook(id)
	}
	return nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

// Get trả về bản ghi hiện tại, nil nếu không có (dùng cho article join)
func (m *MockUserRepository) Get(id uuid.UUID) *user.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Users[id]
}

func (m *MockUserRepository) find(match func(*user.User) bool) (*user.User, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.Users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

// checkUnique: caller giữ lock
func (m *MockUserRepository) checkUnique(u *user.User) error {
	for id, existing := range m.Users {
		if id == u.ID {
			continue
		}
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return user.ErrUsernameTaken
		}
	}
	return nil
}
