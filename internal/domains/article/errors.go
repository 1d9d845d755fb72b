package article

import "conduit-backend/internal/shared/apperror"

var (
	ErrArticleNotFound = apperror.NotFound("ARTICLE_NOT_FOUND", "article not found")
	ErrNotAuthor       = apperror.Forbidden("NOT_AUTHOR", "you are not the author of this article")
	ErrSlugTaken       = apperror.Conflict("SLUG_TAKEN", "slug", "has already been taken")
)

// ErrInvalidPagination: limit/offset không phải số nguyên
var ErrInvalidPagination = apperror.InvalidOperation("INVALID_PAGINATION", "limit and offset must be integers")
