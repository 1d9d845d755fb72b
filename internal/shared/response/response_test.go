package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit-backend/internal/shared/apperror"
)

func run(t *testing.T, err error) (int, ErrorBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleError(c, err)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleError_Kinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		field  string
	}{
		{apperror.NotFound("A", "article not found"), http.StatusNotFound, "body"},
		{fmt.Errorf("wrapped: %w", apperror.Forbidden("F", "you are not the author")), http.StatusForbidden, "body"},
		{apperror.InvalidOperation("S", "cannot follow yourself"), http.StatusBadRequest, "body"},
		{apperror.Conflict("E", "email", "has already been taken"), http.StatusUnprocessableEntity, "email"},
		{apperror.Unauthorized("U", "missing token"), http.StatusUnauthorized, "body"},
		{errors.New("connection reset"), http.StatusInternalServerError, "body"},
	}
	for _, tc := range cases {
		status, body := run(t, tc.err)
		assert.Equal(t, tc.status, status, "%v", tc.err)
		assert.Len(t, body.Errors[tc.field], 1, "%v", tc.err)
	}
}

func TestHandleError_InternalDoesNotLeakCause(t *testing.T) {
	_, body := run(t, errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	assert.Equal(t, []string{"internal server error"}, body.Errors["body"])
}

func TestHandleError_ValidationErrors(t *testing.T) {
	verrs := validation.Errors{
		"title": errors.New("cannot be blank"),
		"body":  errors.New("cannot be blank"),
	}

	status, body := run(t, verrs)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{"cannot be blank"}, body.Errors["title"])
	assert.Equal(t, []string{"cannot be blank"}, body.Errors["body"])
}
