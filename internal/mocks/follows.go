package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type followEdge struct {
	follower  uuid.UUID
	following uuid.UUID
}

// MockFollowRepository is an in-memory profile.Repository.
// Edges giữ thứ tự insert để FollowingIDs ổn định.
type MockFollowRepository struct {
	mu    sync.RWMutex
	edges []followEdge
}

func NewMockFollowRepository() *MockFollowRepository {
	return &MockFollowRepository{}
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOf(followerID, followingID) >= 0, nil
}

func (m *MockFollowRepository) Create(ctx context.Context, followerID, followingID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(followerID, followingID) < 0 {
		m.edges = append(m.edges, followEdge{follower: followerID, following: followingID})
	}
	return nil
}

func (m *MockFollowRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(followerID, followingID); i >= 0 {
		m.edges = append(m.edges[:i], m.edges[i+1:]...)
	}
	return nil
}

func (m *MockFollowRepository) FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []uuid.UUID
	for _, e := range m.edges {
		if e.follower == followerID {
			ids = append(ids, e.following)
		}
	}
	return ids, nil
}

func (m *MockFollowRepository) FollowerIDs(ctx context.Context, followingID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []uuid.UUID
	for _, e := range m.edges {
		if e.following == followingID {
			ids = append(ids, e.follower)
		}
	}
	return ids, nil
}

// Len là số edge hiện có
func (m *MockFollowRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.edges)
}

// RemoveUser xóa mọi edge liên quan tới id (FK ON DELETE CASCADE)
func (m *MockFollowRepository) RemoveUser(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.edges[:0]
	for _, e := range m.edges {
		if e.follower != id && e.following != id {
			kept = append(kept, e)
		}
	}
	m.edges = kept
}

func (m *MockFollowRepository) indexOf(followerID, followingID uuid.UUID) int {
	for i, e := range m.edges {
		if e.follower == followerID && e.following == followingID {
			return i
		}
	}
	return -1
}
