package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(s *services.Services) *AuthController {
	return &AuthController{auth: s.Auth}
}

// Register handles POST /api/auth/register.
func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	session, err := ac.auth.Register(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(session)
}

// Login handles POST /api/auth/login.
func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	session, err := ac.auth.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(session)
}

// Me handles GET /api/auth/me.
func (ac *AuthController) Me(c *ctx.Context) {
	u, err := ac.auth.Me(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(u)
}
