package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// LoginInput accepts an email or a username in Login.
type LoginInput struct {
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users *UserService
}

var errBadCredentials = &AuthError{Message: "invalid credentials"}

// Login checks the credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	u, err := s.users.byLogin(ctx, in.Login)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, errBadCredentials
	case err != nil:
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		logger.WithCtx(ctx).Warn("failed login", "user_id", u.ID)
		return nil, errBadCredentials
	}
	token, err := auth.GenerateToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}

// Register creates a customer and logs them in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	u, err := s.users.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	token, err := auth.GenerateToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}

// Me returns the authenticated caller.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	id, ok := auth.IdentityFrom(ctx)
	if !ok {
		return nil, &AuthError{Message: "unauthenticated"}
	}
	return s.users.GetUser(ctx, id.UserID)
}
