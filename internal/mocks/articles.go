package mocks

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"conduit-backend/internal/domains/article"
)

type favoriteKey struct {
	user    uuid.UUID
	article uuid.UUID
}

// MockArticleRepository is an in-memory article.Repository. List evaluates
// the Criteria predicates through their Match closures.
type MockArticleRepository struct {
	mu        sync.RWMutex
	articles  map[uuid.UUID]*article.Article
	favorites map[favoriteKey]struct{}
	users     *MockUserRepository

	// Now cấp created_at; mặc định tăng 1s mỗi lần để thứ tự xác định
	Now func() time.Time

	ListCalls int
	ListError error
}

func NewMockArticleRepository(users *MockUserRepository) *MockArticleRepository {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	m := &MockArticleRepository{
		articles:  make(map[uuid.UUID]*article.Article),
		favorites: make(map[favoriteKey]struct{}),
		users:     users,
	}
	m.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return m
}

func (m *MockArticleRepository) List(ctx context.Context, c article.Criteria, p article.Page) ([]*article.Article, int, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*article.Article, 0)
	for _, a := range m.articles {
		if c.Matches(a) {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) > 0
	})

	total := len(matched)
	start, end := p.Bounds(total)

	page := make([]*article.Article, 0, end-start)
	for _, a := range matched[start:end] {
		page = append(page, m.withAuthor(a))
	}
	return page, total, nil
}

func (m *MockArticleRepository) Create(ctx context.Context, a *article.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.articles {
		if existing.Slug == a.Slug {
			return article.ErrSlugTaken
		}
	}

	a.ID = uuid.New()
	a.CreatedAt = m.Now()
	a.UpdatedAt = a.CreatedAt
	a.FavoritesCount = 0
	if a.TagList == nil {
		a.TagList = []string{}
	}

	stored := *a
	stored.TagList = slices.Clone(a.TagList)
	m.articles[a.ID] = &stored

	*a = *m.withAuthor(&stored)
	return nil
}

func (m *MockArticleRepository) FindBySlug(ctx context.Context, slug string) (*article.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.articles {
		if a.Slug == slug {
			return m.withAuthor(a), nil
		}
	}
	return nil, article.ErrArticleNotFound
}

func (m *MockArticleRepository) Update(ctx context.Context, a *article.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.articles[a.ID]
	if !ok {
		return article.ErrArticleNotFound
	}
	stored.Title = a.Title
	stored.Description = a.Description
	stored.Body = a.Body
	stored.TagList = slices.Clone(a.TagList)
	stored.UpdatedAt = stored.UpdatedAt.Add(time.Second)
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.articles[id]; !ok {
		return article.ErrArticleNotFound
	}
	delete(m.articles, id)
	for key := range m.favorites {
		if key.article == id {
			delete(m.favorites, key)
		}
	}
	return nil
}

func (m *MockArticleRepository) FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []uuid.UUID
	for key := range m.favorites {
		if key.user == userID {
			ids = append(ids, key.article)
		}
	}
	return ids, nil
}

func (m *MockArticleRepository) AddFavorite(ctx context.Context, userID, articleID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.articles[articleID]
	if !ok {
		return 0, article.ErrArticleNotFound
	}
	key := favoriteKey{user: userID, article: articleID}
	if _, exists := m.favorites[key]; !exists {
		m.favorites[key] = struct{}{}
		a.FavoritesCount++
	}
	return a.FavoritesCount, nil
}

func (m *MockArticleRepository) RemoveFavorite(ctx context.Context, userID, articleID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.articles[articleID]
	if !ok {
		return 0, article.ErrArticleNotFound
	}
	key := favoriteKey{user: userID, article: articleID}
	if _, exists := m.favorites[key]; exists {
		delete(m.favorites, key)
		a.FavoritesCount--
	}
	return a.FavoritesCount, nil
}

func (m *MockArticleRepository) CountFavorites(ctx context.Context, articleID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for key := range m.favorites {
		if key.article == articleID {
			n++
		}
	}
	return n, nil
}

func (m *MockArticleRepository) Tags(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, a := range m.articles {
		for _, tag := range a.TagList {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// All trả về snapshot của mọi article (kèm favorites_count đã lưu)
func (m *MockArticleRepository) All() []*article.Article {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*article.Article, 0, len(m.articles))
	for _, a := range m.articles {
		out = append(out, m.withAuthor(a))
	}
	return out
}

// RemoveUser mô phỏng xóa user: trả lại favorites_count cho các bài user đã
// favorite rồi cascade xóa favorites và articles của user đó.
func (m *MockArticleRepository) RemoveUser(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.favorites {
		if key.user == userID {
			if a, ok := m.articles[key.article]; ok {
				a.FavoritesCount--
			}
			delete(m.favorites, key)
		}
	}
	for id, a := range m.articles {
		if a.AuthorID != userID {
			continue
		}
		delete(m.articles, id)
		for key := range m.favorites {
			if key.article == id {
				delete(m.favorites, key)
			}
		}
	}
}

// withAuthor trả về bản copy có Author được join từ users; caller giữ lock
func (m *MockArticleRepository) withAuthor(a *article.Article) *article.Article {
	cp := *a
	cp.TagList = slices.Clone(a.TagList)
	if m.users != nil {
		if u := m.users.Get(a.AuthorID); u != nil {
			cp.Author = article.Author{Username: u.Username, Bio: u.Bio, Image: u.Image}
		}
	}
	return &cp
}
