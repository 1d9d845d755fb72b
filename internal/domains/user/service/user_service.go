package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"conduit-backend/internal/domains/user"
)

// DefaultBcryptCost cân bằng giữa security và latency của login
const DefaultBcryptCost = 12

// userService implement user.Service interface
type userService struct {
	repo       user.Repository
	tokens     user.TokenIssuer
	bcryptCost int
}

// NewUserService tạo service instance
// Inject repository và token issuer qua constructor (Dependency Injection)
func NewUserService(repo user.Repository, tokens user.TokenIssuer, bcryptCost int) user.Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = DefaultBcryptCost
	}
	return &userService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register tạo user mới, trả về user kèm token
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 1. BUSINESS RULE: email và username đều unique
	emailTaken, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, user.ErrEmailTaken
	}

	usernameTaken, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, user.ErrUsernameTaken
	}

	// 2. HASH PASSWORD
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. PERSIST - DB vẫn có unique constraint cho trường hợp race
	u := &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.withToken(u)
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	// constant-time comparison
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.withToken(u)
}

func (s *userService) Current(ctx context.Context, userID uuid.UUID) (*user.UserResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withToken(u)
}

// Update merge các field được gửi lên; field nil giữ nguyên
func (s *userService) Update(ctx context.Context, userID uuid.UUID, req user.UpdateRequest) (*user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != u.Email {
		taken, err := s.repo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, user.ErrEmailTaken
		}
		u.Email = *req.Email
	}
	if req.Username != nil && *req.Username != u.Username {
		taken, err := s.repo.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, user.ErrUsernameTaken
		}
		u.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Image != nil {
		u.Image = *req.Image
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.withToken(u)
}

func (s *userService) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Delete(ctx, userID)
}

func (s *userService) withToken(u *user.User) (*user.UserResponse, error) {
	token, err := s.tokens.GenerateToken(u.ID.String(), u.Username, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	resp := u.ToResponse(token)
	return &resp, nil
}
