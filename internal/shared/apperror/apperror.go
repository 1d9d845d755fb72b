package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidOperation
	KindConflict
	KindValidation
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error là base error cho mọi domain.
// Hai Error được coi là bằng nhau (errors.Is) khi cùng Code.
type Error struct {
	Kind    Kind
	Code    string // VD: "ARTICLE_NOT_FOUND"
	Message string // human-readable, trả về cho client
	Field   string // optional: key trong {"errors": {field: [...]}}
	Err     error  // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e carrying err as its cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Forbidden(code, message string) *Error {
	return New(KindForbidden, code, message)
}

func InvalidOperation(code, message string) *Error {
	return New(KindInvalidOperation, code, message)
}

// Conflict is a store-level uniqueness violation. field names the taken value.
func Conflict(code, field, message string) *Error {
	e := New(KindConflict, code, message)
	e.Field = field
	return e
}

func Validation(code, field, message string) *Error {
	e := New(KindValidation, code, message)
	e.Field = field
	return e
}

func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

// KindOf reports the Kind of the first *Error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
