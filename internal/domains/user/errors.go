package user

import "conduit-backend/internal/shared/apperror"

var (
	ErrUserNotFound = apperror.NotFound("USER_NOT_FOUND", "user not found")

	// Conflict - unique constraint ở DB
	ErrEmailTaken    = apperror.Conflict("EMAIL_TAKEN", "email", "has already been taken")
	ErrUsernameTaken = apperror.Conflict("USERNAME_TAKEN", "username", "has already been taken")

	// Không tiết lộ email có tồn tại hay không
	ErrInvalidCredentials = apperror.Validation("INVALID_CREDENTIALS", "email or password", "is invalid")
)
