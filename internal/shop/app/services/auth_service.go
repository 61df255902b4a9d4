package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/internal/xpkg/token"
	"veggie-orders/pkg/logger"
)

// emailDomain is appended to the username to derive the stored email; the
// storefront registers by username only.
const emailDomain = "asr.jo"

type AuthService struct {
	users  core.IUserRepo
	tokens *token.Manager
	mylog  logger.Logger
}

func NewAuthService(users core.IUserRepo, tokens *token.Manager, mylog logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mylog:  mylog,
	}
}

// Register creates a customer account and returns the user with a signed
// session token.
func (as *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (models.User, string, error) {
	if req.Username == "" || req.Password == "" {
		return models.User{}, "", core.ErrUsernameRequired
	}
	if len(req.Password) < core.MinPasswordLen {
		return models.User{}, "", core.ErrWeakPassword
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	if _, err := as.users.GetByUsername(ctx, username); err == nil {
		return models.User{}, "", core.ErrUsernameTaken
	} else if !errors.Is(err, core.ErrUserNotFound) {
		return models.User{}, "", fmt.Errorf("lookup username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = username
	}

	user := models.User{
		UID:          uuid.New().String(),
		Username:     username,
		Email:        fmt.Sprintf("%s@%s", username, emailDomain),
		DisplayName:  displayName,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}

	user, err = as.users.Create(ctx, user)
	if err != nil {
		as.mylog.Action("register_failed").Error("Failed to create user", err, "username", username)
		return models.User{}, "", fmt.Errorf("create user: %w", err)
	}

	signed, err := as.signFor(user)
	if err != nil {
		return models.User{}, "", err
	}

	as.mylog.Action("user_registered").Info("New customer registered", "user_id", user.ID)
	return user, signed, nil
}

// Login verifies the password and returns the user with a signed session
// token. Unknown username and wrong password are indistinguishable to the
// caller.
func (as *AuthService) Login(ctx context.Context, req dto.LoginRequest) (models.User, string, error) {
	if req.Username == "" || req.Password == "" {
		return models.User{}, "", core.ErrUsernameRequired
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	user, err := as.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return models.User{}, "", core.ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("lookup username: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return models.User{}, "", core.ErrInvalidCredentials
	}

	signed, err := as.signFor(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, signed, nil
}

// Me resolves the session back to the stored profile.
func (as *AuthService) Me(ctx context.Context, session models.Session) (models.User, error) {
	return as.users.GetByID(ctx, session.UserID)
}

func (as *AuthService) signFor(user models.User) (string, error) {
	signed, err := as.tokens.Sign(models.Session{
		UserID:   user.ID,
		UID:      user.UID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}
