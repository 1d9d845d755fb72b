package profile

import "conduit-backend/internal/shared/apperror"

var (
	ErrProfileNotFound = apperror.NotFound("PROFILE_NOT_FOUND", "profile not found")
	ErrSelfFollow      = apperror.InvalidOperation("SELF_FOLLOW", "you cannot follow yourself")
)
