package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// UserController is the admin user management API.
type UserController struct {
	users *services.UserService
}

func NewUserController(s *services.Services) *UserController {
	return &UserController{users: s.Users}
}

func (uc *UserController) Index(c *ctx.Context) {
	p, limit := page(c)
	list, total, err := uc.users.ListUsers(c.Context(), services.PageOf(p, limit))
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, list, total, p, limit)
}

func (uc *UserController) Show(c *ctx.Context) {
	u, err := uc.users.GetUser(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(u)
}

func (uc *UserController) Store(c *ctx.Context) {
	var in services.UserInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := uc.users.CreateUser(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(u)
}

func (uc *UserController) Update(c *ctx.Context) {
	var in services.UserInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := uc.users.UpdateUser(c.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(u)
}

func (uc *UserController) Destroy(c *ctx.Context) {
	if err := uc.users.DeleteUser(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Message("User deleted", nil)
}
