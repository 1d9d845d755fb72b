package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit-backend/pkg/jwt"
)

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), mw)
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour)
	userID := uuid.New()
	token, err := tokens.GenerateToken(userID.String(), "jake", "jake@jake.jake")
	require.NoError(t, err)

	r := newRouter(AuthMiddleware(tokens))

	w := do(r, "Token "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, token).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Token not-a-jwt").Code)
}

func TestAuthMiddleware_RejectsNonUUIDSubject(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour)
	token, err := tokens.GenerateToken("42", "jake", "jake@jake.jake")
	require.NoError(t, err)

	w := do(newRouter(AuthMiddleware(tokens)), "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour)
	userID := uuid.New()
	token, err := tokens.GenerateToken(userID.String(), "jake", "jake@jake.jake")
	require.NoError(t, err)

	r := newRouter(OptionalAuth(tokens))

	assert.Equal(t, "anonymous", do(r, "").Body.String())
	assert.Equal(t, "anonymous", do(r, "Token garbage").Body.String())
	assert.Equal(t, userID.String(), do(r, "Token "+token).Body.String())
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	r := newRouter(OptionalAuth(jwt.NewManager("s", 0)))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
