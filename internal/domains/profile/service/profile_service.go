package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"conduit-backend/internal/domains/profile"
	"conduit-backend/internal/domains/user"
)

type profileService struct {
	follows profile.Repository
	users   profile.UserFinder
}

func NewProfileService(follows profile.Repository, users profile.UserFinder) profile.Service {
	return &profileService{follows: follows, users: users}
}

func (s *profileService) GetProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*profile.Profile, error) {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != nil && *viewerID != target.ID {
		following, err = s.follows.Exists(ctx, *viewerID, target.ID)
		if err != nil {
			return nil, err
		}
	}

	p := profile.FromUser(target, following)
	return &p, nil
}

func (s *profileService) Follow(ctx context.Context, followerID uuid.UUID, username string) (*profile.Profile, error) {
	target, err := s.resolveOther(ctx, followerID, username)
	if err != nil {
		return nil, err
	}

	if err := s.follows.Create(ctx, followerID, target.ID); err != nil {
		return nil, err
	}

	p := profile.FromUser(target, true)
	return &p, nil
}

func (s *profileService) Unfollow(ctx context.Context, followerID uuid.UUID, username string) (*profile.Profile, error) {
	target, err := s.resolveOther(ctx, followerID, username)
	if err != nil {
		return nil, err
	}

	if err := s.follows.Delete(ctx, followerID, target.ID); err != nil {
		return nil, err
	}

	p := profile.FromUser(target, false)
	return &p, nil
}

func (s *profileService) IsFollowing(ctx context.Context, followerID, targetID uuid.UUID) (bool, error) {
	return s.follows.Exists(ctx, followerID, targetID)
}

func (s *profileService) FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.follows.FollowingIDs(ctx, userID)
}

func (s *profileService) resolve(ctx context.Context, username string) (*user.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, err
	}
	return u, nil
}

// resolveOther = resolve + chặn self-follow
func (s *profileService) resolveOther(ctx context.Context, followerID uuid.UUID, username string) (*user.User, error) {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, profile.ErrSelfFollow
	}
	return target, nil
}
