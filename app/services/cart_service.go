package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// CartItemInput adds quantity of a variant to the cart.
type CartItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId"`
	ColorID   string `json:"colorId"`
	SizeID    string `json:"sizeId"`
	Quantity  int    `json:"quantity"  validate:"required,gt=0,max=1000"`
}

// CartService keeps each user's draft order in the cache.
type CartService struct {
	store  *repositories.Store
	cache  cache.Store
	orders *OrderService
	ttl    time.Duration
}

func cartKey(userID string) string { return "storefront:cart:" + userID }

// Get returns the user's cart, empty when none is stored.
func (s *CartService) Get(ctx context.Context, userID string) *models.Cart {
	c := &models.Cart{}
	if !cache.Get(ctx, s.cache, cartKey(userID), c) {
		c = &models.Cart{}
	}
	c.UserID = userID
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c
}

func (s *CartService) save(ctx context.Context, c *models.Cart) error {
	c.UpdatedAt = now()
	return cache.Set(ctx, s.cache, cartKey(c.UserID), c, s.ttl)
}

// Add resolves the variant and merges the quantity into an existing line
// for it. Stock is checked at checkout, not here.
func (s *CartService) Add(ctx context.Context, userID string, in CartItemInput) (*models.Cart, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	p, err := s.store.Products.Get(ctx, in.ProductID)
	if err != nil {
		return nil, notFound(err, "product", in.ProductID)
	}
	v, err := ResolveVariant(p, VariantQuery{VariantID: in.VariantID, ColorID: in.ColorID, SizeID: in.SizeID})
	if err != nil {
		return nil, err
	}

	c := s.Get(ctx, userID)
	merged := false
	for i := range c.Items {
		if c.Items[i].VariantID == v.ID {
			if c.Items[i].Quantity+in.Quantity > MaxOrderQuantity {
				return nil, invalid("quantity", fmt.Sprintf("The cart may hold at most %d of one variant.", MaxOrderQuantity))
			}
			c.Items[i].Quantity += in.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, models.CartItem{
			ProductID: p.ID,
			VariantID: v.ID,
			ColorID:   v.ColorID,
			SizeID:    v.SizeID,
			Quantity:  in.Quantity,
		})
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove drops the line for variantID.
func (s *CartService) Remove(ctx context.Context, userID, variantID string) (*models.Cart, error) {
	c := s.Get(ctx, userID)
	n := len(c.Items)
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.VariantID != variantID {
			kept = append(kept, it)
		}
	}
	if len(kept) == n {
		return nil, &NotFoundError{Entity: "cart item", ID: variantID}
	}
	c.Items = kept
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.cache.Del(ctx, cartKey(userID))
}

// Checkout places the cart as an order. The cart is kept when the order is
// refused.
func (s *CartService) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	c := s.Get(ctx, userID)
	if len(c.Items) == 0 {
		return nil, invalid("items", "The cart is empty.")
	}
	lines := make([]OrderLine, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, OrderLine{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity})
	}
	o, err := s.orders.PlaceOrder(ctx, PlaceOrderInput{
		UserID:   userID,
		PlacedBy: userID,
		Channel:  models.ChannelStorefront,
		Items:    lines,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Clear(ctx, userID); err != nil {
		logger.WithCtx(ctx).Warn("cart not cleared after checkout", "user_id", userID, "order_id", o.ID, "error", err)
	}
	return o, nil
}
