package mocks

import (
	"fmt"
	"strings"

	"conduit-backend/pkg/jwt"
)

// MockTokens is a user.TokenIssuer and middleware.TokenValidator that encodes
// the user id directly in the token: "token-<id>".
type MockTokens struct {
	Err error
}

func (m MockTokens) GenerateToken(id, username, email string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return "token-" + id, nil
}

func (m MockTokens) ValidateToken(token string) (*jwt.Claims, error) {
	id, ok := strings.CutPrefix(token, "token-")
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return &jwt.Claims{ID: id}, nil
}
