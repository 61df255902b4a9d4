package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/internal/xpkg/token"
	"veggie-orders/pkg/logger"
)

func newAuthService(users *memUsers) *AuthService {
	return NewAuthService(users, token.NewManager("test-secret"), logger.Discard())
}

func TestRegister(t *testing.T) {
	users := newMemUsers()
	svc := newAuthService(users)

	user, signed, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username:    "  Lina ",
		Password:    "hunter22",
		DisplayName: "Lina K",
		Phone:       "0791234567",
	})
	require.NoError(t, err)

	assert.Equal(t, "lina", user.Username, "username is trimmed and lowercased")
	assert.Equal(t, "lina@asr.jo", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEmpty(t, user.UID)
	assert.NotEmpty(t, signed)

	// The stored hash verifies the password but is never the password.
	stored, err := users.GetByUsername(context.Background(), "lina")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)

	// The token resolves back to the same principal.
	session, err := token.NewManager("test-secret").Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, models.RoleCustomer, session.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newMemUsers())

	_, _, err := svc.Register(context.Background(), dto.RegisterRequest{Password: "hunter22"})
	assert.ErrorIs(t, err, core.ErrUsernameRequired)

	_, _, err = svc.Register(context.Background(), dto.RegisterRequest{Username: "lina", Password: "short"})
	assert.ErrorIs(t, err, core.ErrWeakPassword)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(newMemUsers())

	_, _, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "lina", Password: "hunter22"})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), dto.RegisterRequest{Username: "LINA", Password: "hunter22"})
	assert.ErrorIs(t, err, core.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(newMemUsers())

	registered, _, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "lina", Password: "hunter22"})
	require.NoError(t, err)

	user, signed, err := svc.Login(context.Background(), dto.LoginRequest{Username: "Lina", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, signed)

	// Wrong password and unknown username produce the same error.
	_, _, err = svc.Login(context.Background(), dto.LoginRequest{Username: "lina", Password: "wrong"})
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "hunter22"})
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	users := newMemUsers()
	svc := newAuthService(users)

	registered, _, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "lina", Password: "hunter22"})
	require.NoError(t, err)

	user, err := svc.Me(context.Background(), models.Session{UserID: registered.ID})
	require.NoError(t, err)
	assert.Equal(t, "lina", user.Username)

	_, err = svc.Me(context.Background(), models.Session{UserID: 999})
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}
