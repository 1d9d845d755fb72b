package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository định nghĩa data access contract cho users
type Repository interface {
	// Create insert user mới; ID và timestamps được DB sinh ra và gán lại vào u
	// Errors: ErrEmailTaken, ErrUsernameTaken
	Create(ctx context.Context, u *User) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Update ghi đè các field có thể sửa (username, email, password_hash, bio, image)
	Update(ctx context.Context, u *User) error

	// Delete xóa user; follows, articles và favorites bị cascade
	Delete(ctx context.Context, id uuid.UUID) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
