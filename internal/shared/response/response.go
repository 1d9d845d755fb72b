package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"conduit-backend/internal/shared/apperror"
)

// ErrorBody là format lỗi chung: {"errors": {"body": ["..."]}}
type ErrorBody struct {
	Errors map[string][]string `json:"errors"`
}

// Success wraps data under a single top-level key, e.g. {"article": {...}}
func Success(c *gin.Context, statusCode int, key string, data interface{}) {
	c.JSON(statusCode, gin.H{key: data})
}

func Error(c *gin.Context, statusCode int, field, message string) {
	c.JSON(statusCode, ErrorBody{Errors: map[string][]string{field: {message}}})
}

// HandleError maps a service error to an HTTP status and error body.
func HandleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body := ErrorBody{Errors: make(map[string][]string, len(verrs))}
		for field, fieldErr := range verrs {
			body.Errors[field] = []string{fieldErr.Error()}
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, body)
		return
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			ErrorBody{Errors: map[string][]string{"body": {"internal server error"}}})
		return
	}

	field := appErr.Field
	if field == "" {
		field = "body"
	}
	c.AbortWithStatusJSON(StatusFor(appErr.Kind), ErrorBody{Errors: map[string][]string{field: {appErr.Message}}})
}

// StatusFor maps an error Kind to its HTTP status code.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindInvalidOperation:
		return http.StatusBadRequest
	case apperror.KindConflict, apperror.KindValidation:
		return http.StatusUnprocessableEntity
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Errors: map[string][]string{"body": {message}}})
}

// BadBody is used when the JSON envelope itself cannot be decoded.
func BadBody(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorBody{Errors: map[string][]string{"body": {err.Error()}}})
}
