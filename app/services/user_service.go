package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// RegisterInput is a customer sign-up.
type RegisterInput struct {
	FullName string `json:"fullName" validate:"required,max=255"`
	Username string `json:"username" validate:"required,min=3,max=60,alpha_dash"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Phone    string `json:"phone"    validate:"max=30"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserInput is the admin form. Password is optional on update.
type UserInput struct {
	FullName string `json:"fullName" validate:"required,max=255"`
	Username string `json:"username" validate:"required,min=3,max=60,alpha_dash"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Phone    string `json:"phone"    validate:"max=30"`
	Role     string `json:"role"     validate:"nullable,in=customer,admin"`
	Password string `json:"password" validate:"nullable,min=8,max=72"`
}

type UserService struct {
	store *repositories.Store
}

// Register creates a customer account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	return s.create(ctx, UserInput{
		FullName: in.FullName,
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Role:     models.RoleCustomer,
		Password: in.Password,
	})
}

// CreateUser creates an account with any role.
func (s *UserService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, invalid("password", "The password field is required.")
	}
	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in UserInput) (*models.User, error) {
	u := &models.User{
		ID:        newID(),
		FullName:  strings.TrimSpace(in.FullName),
		Username:  normalize(in.Username),
		Email:     normalize(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Role:      in.Role,
		CreatedAt: now(),
	}
	u.UpdatedAt = u.CreatedAt
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	if err := s.unique(ctx, u); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash

	if err := s.store.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict("a user with this email or username already exists")
		}
		return nil, err
	}
	logger.WithCtx(ctx).Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// unique reports a ValidationError when u's email or username belongs to
// another user.
func (s *UserService) unique(ctx context.Context, u *models.User) error {
	errs := map[string]string{}
	for field, value := range map[string]string{"email": u.Email, "username": u.Username} {
		other, err := s.store.Users.FindBy(ctx, field, value)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
		case err != nil:
			return err
		case other.ID != u.ID:
			errs[field] = "The " + field + " has already been taken."
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// UpdateUser changes the profile and role of a user, and the password when
// one is given.
func (s *UserService) UpdateUser(ctx context.Context, id string, in UserInput) (*models.User, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.FullName = strings.TrimSpace(in.FullName)
	u.Username = normalize(in.Username)
	u.Email = normalize(in.Email)
	u.Phone = strings.TrimSpace(in.Phone)
	if in.Role != "" {
		u.Role = in.Role
	}
	if err := s.unique(ctx, u); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if u.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
			return nil, err
		}
	}
	u.UpdatedAt = now()
	if err := s.store.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict("a user with this email or username already exists")
		}
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

// DeleteUser removes a user. Admins cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if actor(ctx) == id {
		return conflict("you cannot delete your own account")
	}
	if err := s.store.Users.Delete(ctx, id); err != nil {
		return notFound(err, "user", id)
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.Users.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

// ListUsers pages through users, newest first.
func (s *UserService) ListUsers(ctx context.Context, page repositories.Page) ([]models.User, int64, error) {
	return s.store.Users.Paginate(ctx, page)
}

// byLogin finds a user by email or, failing that, username.
func (s *UserService) byLogin(ctx context.Context, login string) (*models.User, error) {
	login = normalize(login)
	field := "username"
	if strings.Contains(login, "@") {
		field = "email"
	}
	return s.store.Users.FindBy(ctx, field, login)
}
