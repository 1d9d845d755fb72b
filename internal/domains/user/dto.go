package user

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt chỉ dùng 72 bytes đầu
	MaxUsernameLength = 64
)

// RegisterRequest - POST /api/users
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("can't be blank"),
			validation.Length(1, MaxUsernameLength),
		),
		validation.Field(&r.Email,
			validation.Required.Error("can't be blank"),
			is.Email.Error("is invalid"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("can't be blank"),
			validation.Length(MinPasswordLength, MaxPasswordLength),
		),
	)
}

// LoginRequest - POST /api/users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("can't be blank"), is.Email.Error("is invalid")),
		validation.Field(&r.Password, validation.Required.Error("can't be blank")),
	)
}

// UpdateRequest - PUT /api/user
// Tất cả field optional, nil = giữ nguyên
type UpdateRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Image    *string `json:"image,omitempty"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty.Error("can't be blank"), is.Email.Error("is invalid")),
		validation.Field(&r.Username, validation.NilOrNotEmpty.Error("can't be blank"), validation.Length(1, MaxUsernameLength)),
		validation.Field(&r.Password, validation.NilOrNotEmpty.Error("can't be blank"), validation.Length(MinPasswordLength, MaxPasswordLength)),
		validation.Field(&r.Image, is.URL.Error("must be a valid URL")),
	)
}

// Conduit bọc mọi payload trong {"user": {...}}
type RegisterEnvelope struct {
	User RegisterRequest `json:"user"`
}

type LoginEnvelope struct {
	User LoginRequest `json:"user"`
}

type UpdateEnvelope struct {
	User UpdateRequest `json:"user"`
}

// UserResponse là representation trả về client, không bao giờ chứa password hash
type UserResponse struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}
