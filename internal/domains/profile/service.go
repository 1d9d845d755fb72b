package profile

import (
	"context"

	"github.com/google/uuid"
)

// Service là Social Graph: follow/unfollow và tra cứu quan hệ
type Service interface {
	// GetProfile: viewerID nil = anonymous, following luôn false
	GetProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*Profile, error)

	// Follow / Unfollow idempotent. Errors: ErrProfileNotFound, ErrSelfFollow
	Follow(ctx context.Context, followerID uuid.UUID, username string) (*Profile, error)
	Unfollow(ctx context.Context, followerID uuid.UUID, username string) (*Profile, error)

	IsFollowing(ctx context.Context, followerID, targetID uuid.UUID) (bool, error)
	FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
