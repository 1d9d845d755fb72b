package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errThingNotFound = NotFound("THING_NOT_FOUND", "thing not found")

func TestError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", errThingNotFound.Wrap(errors.New("no rows")))

	assert.ErrorIs(t, wrapped, errThingNotFound)
	assert.NotErrorIs(t, wrapped, NotFound("OTHER", "other"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestError_WrapKeepsSentinelUntouched(t *testing.T) {
	cause := errors.New("cause")
	w := errThingNotFound.Wrap(cause)

	assert.Nil(t, errThingNotFound.Err)
	assert.ErrorIs(t, w, cause)
	assert.Contains(t, w.Error(), "cause")
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
	}{
		{Forbidden("F", "f"), KindForbidden},
		{InvalidOperation("I", "i"), KindInvalidOperation},
		{Conflict("C", "email", "has already been taken"), KindConflict},
		{Validation("V", "body", "can't be blank"), KindValidation},
		{Unauthorized("U", "u"), KindUnauthorized},
		{errors.New("plain"), KindInternal},
		{nil, KindInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, KindOf(tc.err), "%v", tc.err)
	}
}
