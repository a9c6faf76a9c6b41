package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func TestRegisterRejectsTakenEmailAndShortPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Users.Register(f.ctx, RegisterInput{
		FullName: "Other Jane",
		Username: "jane2",
		Email:    "JANE@example.com",
		Password: "secret123",
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "email")

	_, err = f.svc.Users.Register(f.ctx, RegisterInput{
		FullName: "Bob",
		Username: "bob",
		Email:    "bob@example.com",
		Password: "short",
	})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "password")

	assert.Equal(t, models.RoleCustomer, f.customer.Role)
	assert.NotEqual(t, "secret123", f.customer.PasswordHash)
}

func TestLoginByEmailOrUsername(t *testing.T) {
	f := newFixture(t)

	for _, login := range []string{"jane", "Jane@Example.com"} {
		s, err := f.svc.Auth.Login(f.ctx, LoginInput{Login: login, Password: "secret123"})
		require.NoError(t, err, login)
		assert.Equal(t, f.customer.ID, s.User.ID)

		claims, err := auth.ValidateToken(s.Token)
		require.NoError(t, err)
		assert.Equal(t, f.customer.ID, claims.UserID)
		assert.Equal(t, models.RoleCustomer, claims.Role)
	}

	var ae *AuthError
	_, err := f.svc.Auth.Login(f.ctx, LoginInput{Login: "jane", Password: "wrong-password"})
	require.True(t, errors.As(err, &ae))
	_, err = f.svc.Auth.Login(f.ctx, LoginInput{Login: "nobody", Password: "secret123"})
	require.True(t, errors.As(err, &ae))
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: f.customer.ID, Role: auth.RoleCustomer})
	me, err := f.svc.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane", me.Username)

	_, err = f.svc.Auth.Me(context.Background())
	var ae *AuthError
	require.True(t, errors.As(err, &ae))
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t)

	admin, err := f.svc.Users.CreateUser(f.ctx, UserInput{
		FullName: "Ada Admin",
		Username: "ada",
		Email:    "ada@example.com",
		Role:     models.RoleAdmin,
		Password: "password1",
	})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, err = f.svc.Users.CreateUser(f.ctx, UserInput{FullName: "No Pass", Username: "nopass", Email: "np@example.com"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	updated, err := f.svc.Users.UpdateUser(f.ctx, f.customer.ID, UserInput{
		FullName: "Jane Smith",
		Username: "jane",
		Email:    "jane@example.com",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated.FullName)
	assert.True(t, updated.IsAdmin())

	_, err = f.svc.Users.UpdateUser(f.ctx, f.customer.ID, UserInput{FullName: "Jane", Username: "ada", Email: "jane@example.com"})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "username")

	self := auth.WithIdentity(context.Background(), auth.Identity{UserID: admin.ID, Role: auth.RoleAdmin})
	var ce *ConflictError
	require.True(t, errors.As(f.svc.Users.DeleteUser(self, admin.ID), &ce))
	require.NoError(t, f.svc.Users.DeleteUser(self, f.customer.ID))

	users, total, err := f.svc.Users.ListUsers(f.ctx, PageOf(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, admin.ID, users[0].ID)
}
