package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"conduit-backend/internal/shared/response"
	"conduit-backend/pkg/jwt"
)

const userIDKey = "userID"

// TokenValidator is implemented by *jwt.Manager
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := extractToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			return
		}

		userID, err := resolveUserID(tokens, raw)
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("Token rejected")
			response.Unauthorized(c, "invalid token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuth resolves the current user when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := extractToken(c.GetHeader("Authorization")); ok {
			if userID, err := resolveUserID(tokens, raw); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user, if any.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CurrentUserIDPtr is CurrentUserID shaped for optional-user service calls.
func CurrentUserIDPtr(c *gin.Context) *uuid.UUID {
	id, ok := CurrentUserID(c)
	if !ok {
		return nil
	}
	return &id
}

// extractToken accepts both "Token <jwt>" and "Bearer <jwt>".
func extractToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "Token" && parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func resolveUserID(tokens TokenValidator, raw string) (uuid.UUID, error) {
	claims, err := tokens.ValidateToken(raw)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.ID)
}
