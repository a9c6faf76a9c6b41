package controllers

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(s *services.Services) *OrderController {
	return &OrderController{orders: s.Orders}
}

// Store handles POST /api/orders. Customers always order for themselves;
// an admin naming another user places a point-of-sale order.
func (oc *OrderController) Store(c *ctx.Context) {
	var in services.PlaceOrderInput
	if !c.BindJSON(&in) {
		return
	}
	in.PlacedBy, in.Channel = c.UserID(), models.ChannelStorefront
	switch {
	case !c.IsAdmin() || in.UserID == "":
		in.UserID = c.UserID()
	case in.UserID != c.UserID():
		in.Channel = models.ChannelPOS
	}
	oc.place(c, in)
}

// AdminPlace handles POST /api/orders/admin/place-order. userId is required.
func (oc *OrderController) AdminPlace(c *ctx.Context) {
	var in services.PlaceOrderInput
	if !c.BindJSON(&in) {
		return
	}
	in.PlacedBy, in.Channel = c.UserID(), models.ChannelPOS
	oc.place(c, in)
}

func (oc *OrderController) place(c *ctx.Context, in services.PlaceOrderInput) {
	o, err := oc.orders.PlaceOrder(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(o)
}

func (oc *OrderController) Mine(c *ctx.Context) {
	list, err := oc.orders.OrdersForUser(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (oc *OrderController) Index(c *ctx.Context) {
	p, limit := page(c)
	list, total, err := oc.orders.ListOrders(c.Context(), services.PageOf(p, limit))
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, list, total, p, limit)
}

func (oc *OrderController) Show(c *ctx.Context) {
	viewer, _ := c.Identity()
	o, err := oc.orders.GetOrder(c.Context(), c.Param("id"), viewer)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(o)
}

func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	var in struct {
		Status string `json:"status" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}
	o, err := oc.orders.UpdateStatus(c.Context(), c.Param("id"), in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(o)
}
