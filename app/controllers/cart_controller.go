package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(s *services.Services) *CartController {
	return &CartController{cart: s.Cart}
}

func (cc *CartController) Show(c *ctx.Context) {
	c.Success(cc.cart.Get(c.Context(), c.UserID()))
}

func (cc *CartController) Add(c *ctx.Context) {
	var in services.CartItemInput
	if !c.BindJSON(&in) {
		return
	}
	cart, err := cc.cart.Add(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cart)
}

func (cc *CartController) Remove(c *ctx.Context) {
	cart, err := cc.cart.Remove(c.Context(), c.UserID(), c.Param("variantId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cart)
}

func (cc *CartController) Clear(c *ctx.Context) {
	if err := cc.cart.Clear(c.Context(), c.UserID()); err != nil {
		fail(c, err)
		return
	}
	c.Message("Cart cleared", nil)
}

func (cc *CartController) Checkout(c *ctx.Context) {
	o, err := cc.cart.Checkout(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(o)
}
