package user

import (
	"context"

	"github.com/google/uuid"
)

// TokenIssuer ký token gắn vào user response. Implemented by *jwt.Manager.
type TokenIssuer interface {
	GenerateToken(id, username, email string) (string, error)
}

// Service định nghĩa business logic layer contract
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*UserResponse, error)
	Current(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*UserResponse, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}
