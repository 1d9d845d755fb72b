package profile

import (
	"context"

	"github.com/google/uuid"

	"conduit-backend/internal/domains/user"
)

// Repository quản lý follow edges (follower -> following)
type Repository interface {
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)

	// Create idempotent: edge đã tồn tại thì không làm gì
	Create(ctx context.Context, followerID, followingID uuid.UUID) error

	// Delete xóa đúng edge (followerID, followingID); không có edge thì no-op
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error

	FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
	FollowerIDs(ctx context.Context, followingID uuid.UUID) ([]uuid.UUID, error)
}

// UserFinder resolves usernames to users. Implemented by user.Repository.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}
