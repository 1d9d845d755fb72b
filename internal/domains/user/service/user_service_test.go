package service_test

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"conduit-backend/internal/domains/user"
	"conduit-backend/internal/domains/user/service"
	"conduit-backend/internal/mocks"
	"conduit-backend/internal/shared/apperror"
)

func newService() (user.Service, *mocks.MockUserRepository) {
	repo := mocks.NewMockUserRepository()
	return service.NewUserService(repo, mocks.MockTokens{}, bcrypt.MinCost), repo
}

func register(t *testing.T, svc user.Service, username string) *user.UserResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), user.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	svc, repo := newService()

	resp := register(t, svc, "alice")

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.NotEmpty(t, resp.Token)

	stored, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
	assert.Equal(t, "token-"+stored.ID.String(), resp.Token)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newService()
	register(t, svc, "alice")

	_, err := svc.Register(context.Background(), user.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, user.ErrEmailTaken)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newService()
	register(t, svc, "alice")

	_, err := svc.Register(context.Background(), user.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc, repo := newService()

	_, err := svc.Register(context.Background(), user.RegisterRequest{Email: "not-an-email", Password: "short"})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "username")
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "password")
	assert.Empty(t, repo.Users)
}

func TestLogin(t *testing.T) {
	svc, _ := newService()
	registered := register(t, svc, "alice")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "alice@example.com", "password123", nil},
		{"wrong password", "alice@example.com", "wrong-password", user.ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", "password123", user.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), user.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.Token, resp.Token)
		})
	}
}

func TestLogin_StoreErrorPropagates(t *testing.T) {
	svc, repo := newService()
	boom := errors.New("connection refused")
	repo.FindError = boom

	_, err := svc.Login(context.Background(), user.LoginRequest{Email: "alice@example.com", Password: "password123"})

	assert.ErrorIs(t, err, boom)
}

func TestCurrent(t *testing.T) {
	svc, repo := newService()
	register(t, svc, "alice")
	stored, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	resp, err := svc.Current(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)

	_, err = svc.Current(context.Background(), uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, repo := newService()
	register(t, svc, "alice")
	stored, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	bio := "I write Go"
	resp, err := svc.Update(context.Background(), stored.ID, user.UpdateRequest{Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, "I write Go", resp.Bio)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)

	password := "new-password"
	_, err = svc.Update(context.Background(), stored.ID, user.UpdateRequest{Password: &password})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), user.LoginRequest{Email: "alice@example.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestUpdate_UsernameTaken(t *testing.T) {
	svc, repo := newService()
	register(t, svc, "alice")
	register(t, svc, "bob")
	alice, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	taken := "bob"
	_, err = svc.Update(context.Background(), alice.ID, user.UpdateRequest{Username: &taken})

	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestUpdate_SameValuesAreNotConflicts(t *testing.T) {
	svc, repo := newService()
	register(t, svc, "alice")
	alice, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	username, email := "alice", "alice@example.com"
	_, err = svc.Update(context.Background(), alice.ID, user.UpdateRequest{Username: &username, Email: &email})

	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	svc, repo := newService()
	register(t, svc, "alice")
	alice, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), alice.ID))

	_, err = svc.Current(context.Background(), alice.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), alice.ID), user.ErrUserNotFound)
}

func TestTokenFailureSurfaces(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	svc := service.NewUserService(repo, mocks.MockTokens{Err: errors.New("no key")}, bcrypt.MinCost)

	_, err := svc.Register(context.Background(), user.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	assert.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
