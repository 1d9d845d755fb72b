package article

import (
	"context"

	"github.com/google/uuid"

	"conduit-backend/internal/domains/user"
)

// UserFinder resolves usernames for the author/favorited filters.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

// SocialGraph is the part of profile.Service the article views need.
type SocialGraph interface {
	FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Service gom Query Engine, Feed Composer, Favorites Index và các mutation
type Service interface {
	// List: viewerID nil = anonymous. author/favorited không tồn tại -> kết quả rỗng, không lỗi
	List(ctx context.Context, viewerID *uuid.UUID, f ListFilter) (*ListResponse, error)

	// Feed: article của những người userID follow; không follow ai -> rỗng, không query store
	Feed(ctx context.Context, userID uuid.UUID, p Page) (*ListResponse, error)

	Create(ctx context.Context, authorID uuid.UUID, req CreateRequest) (*ArticleView, error)
	GetBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*ArticleView, error)

	// Update / Delete. Errors: ErrArticleNotFound, ErrNotAuthor
	Update(ctx context.Context, userID uuid.UUID, slug string, req UpdateRequest) (*ArticleView, error)
	Delete(ctx context.Context, userID uuid.UUID, slug string) error

	// AddFavorite / RemoveFavorite idempotent. Errors: ErrArticleNotFound
	AddFavorite(ctx context.Context, userID uuid.UUID, slug string) (*ArticleView, error)
	RemoveFavorite(ctx context.Context, userID uuid.UUID, slug string) (*ArticleView, error)

	Tags(ctx context.Context) ([]string, error)
}
