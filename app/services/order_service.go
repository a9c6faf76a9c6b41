package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// OrderLine is one requested line. Price is accepted for compatibility
// with clients that send it and is never used.
type OrderLine struct {
	ProductID string   `json:"productId" validate:"required"`
	VariantID string   `json:"variantId"`
	ColorID   string   `json:"colorId"`
	SizeID    string   `json:"sizeId"`
	Quantity  int      `json:"quantity"  validate:"required,gt=0,max=1000"`
	Price     *float64 `json:"price,omitempty"`
}

// MaxOrderQuantity bounds the units of one variant in an order, whether
// asked for in one line or spread over several. The quantity tags of
// OrderLine and CartItemInput carry the same number.
const MaxOrderQuantity = 1000

// PlaceOrderInput is an order request. TotalAmount from the client is
// ignored; the total is always computed from stored prices.
type PlaceOrderInput struct {
	UserID      string      `json:"userId"`
	PlacedBy    string      `json:"-"`
	Channel     string      `json:"-"`
	Items       []OrderLine `json:"items"       validate:"required,min=1,max=100,dive"`
	TotalAmount *float64    `json:"totalAmount,omitempty"`
}

// OrderService places orders against the ledger and moves them through
// their statuses.
type OrderService struct {
	store  *repositories.Store
	ledger *InventoryService
	events *event.Dispatcher
}

// demand is the aggregated request for one variant.
type demand struct {
	product *models.Product
	variant *models.Variant
	qty     int
}

// PlaceOrder validates every line, checks stock for all of them, and only
// then decrements. Either every variant is decremented and the order is
// stored, or nothing changes.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (order *models.Order, err error) {
	defer func() {
		if err != nil {
			metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		}
	}()

	if err := check(&in); err != nil {
		return nil, err
	}
	if in.UserID == "" {
		return nil, invalid("userId", "The userId field is required.")
	}
	if _, err := s.store.Users.Get(ctx, in.UserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &UserNotFoundError{ID: in.UserID}
		}
		return nil, err
	}

	demands, err := s.collect(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	var short []Shortage
	total := decimal.Zero
	for _, d := range demands {
		if d.qty > d.variant.Quantity {
			short = append(short, Shortage{
				ProductID: d.product.ID,
				VariantID: d.variant.ID,
				Requested: d.qty,
				Available: d.variant.Quantity,
			})
		}
		total = total.Add(lineTotal(d.variant.Price, d.qty))
	}
	if len(short) > 0 {
		return nil, &OutOfStockError{Items: short}
	}
	if in.TotalAmount != nil && !decimal.NewFromFloat(*in.TotalAmount).Equal(total.Round(2)) {
		logger.WithCtx(ctx).Debug("client total ignored",
			"client_total", *in.TotalAmount, "computed_total", amount(total))
	}

	order = &models.Order{
		ID:          newID(),
		UserID:      in.UserID,
		PlacedBy:    in.PlacedBy,
		Channel:     in.Channel,
		TotalAmount: amount(total),
		Status:      models.OrderPending,
		CreatedAt:   now(),
	}
	order.UpdatedAt = order.CreatedAt
	if order.PlacedBy == "" {
		order.PlacedBy = in.UserID
	}
	if order.Channel == "" {
		order.Channel = models.ChannelStorefront
	}

	recs, err := s.decrement(ctx, order, demands)
	if err != nil {
		return nil, err
	}

	for _, d := range demands {
		order.Items = append(order.Items, models.OrderItem{
			ID:        newID(),
			ProductID: d.product.ID,
			VariantID: d.variant.ID,
			ColorID:   d.variant.ColorID,
			SizeID:    d.variant.SizeID,
			Name:      d.product.Name,
			Quantity:  d.qty,
			UnitPrice: d.variant.Price,
			LineTotal: amount(lineTotal(d.variant.Price, d.qty)),
		})
	}

	if err := s.store.Orders.Create(ctx, order); err != nil {
		s.undo(ctx, demands, len(demands))
		if derr := s.store.Inventory.Delete(detached(ctx), recordIDs(recs)...); derr != nil {
			logger.WithCtx(ctx).Error("failed to remove records of unsaved order", "order_id", order.ID, "error", derr)
		}
		return nil, fmt.Errorf("save order: %w", err)
	}
	for _, r := range recs {
		s.events.Fire(ctx, EventInventoryMoved, r)
	}
	s.events.Fire(ctx, EventOrderPlaced, order)
	return order, nil
}

// collect resolves every line and merges lines for the same variant,
// keeping first-seen order.
func (s *OrderService) collect(ctx context.Context, lines []OrderLine) ([]*demand, error) {
	products := map[string]*models.Product{}
	byVariant := map[string]*demand{}
	var out []*demand

	for i, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			var err error
			p, err = s.store.Products.Get(ctx, line.ProductID)
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, &InvalidVariantError{ProductID: line.ProductID, Reason: "product not found"}
			}
			if err != nil {
				return nil, err
			}
			products[line.ProductID] = p
		}

		v, err := ResolveVariant(p, VariantQuery{VariantID: line.VariantID, ColorID: line.ColorID, SizeID: line.SizeID})
		if err != nil {
			return nil, err
		}
		if d, ok := byVariant[v.ID]; ok {
			if d.qty+line.Quantity > MaxOrderQuantity {
				return nil, invalid(fmt.Sprintf("items.%d.quantity", i),
					fmt.Sprintf("The total quantity of one variant must not be greater than %d.", MaxOrderQuantity))
			}
			d.qty += line.Quantity
			continue
		}
		d := &demand{product: p, variant: v, qty: line.Quantity}
		byVariant[v.ID] = d
		out = append(out, d)
	}
	return out, nil
}

// decrement takes stock for every demand. If a concurrent order wins a
// variant first, the decrements already applied are returned and the call
// reports the order as out of stock. Records are written only when every
// decrement succeeded.
func (s *OrderService) decrement(ctx context.Context, order *models.Order, demands []*demand) ([]*models.InventoryRecord, error) {
	recs := make([]*models.InventoryRecord, 0, len(demands))
	for i, d := range demands {
		after, err := s.store.Products.IncrementVariant(ctx, d.product.ID, d.variant.ID, -d.qty)
		if err != nil {
			s.undo(ctx, demands, i)
			if errors.Is(err, repositories.ErrConditionFailed) || errors.Is(err, repositories.ErrNotFound) {
				return nil, &OutOfStockError{Items: []Shortage{{
					ProductID: d.product.ID,
					VariantID: d.variant.ID,
					Requested: d.qty,
					Available: s.ledger.available(ctx, d.product.ID, d.variant.ID),
				}}}
			}
			return nil, err
		}
		r := newRecord(d.product.ID, d.variant.ID, models.MovementRemove, models.SourceOrder, d.qty, -d.qty, after)
		r.OrderID, r.CreatedBy = order.ID, order.PlacedBy
		recs = append(recs, r)
	}

	if err := s.store.Inventory.Append(ctx, recs...); err != nil {
		s.undo(ctx, demands, len(demands))
		return nil, fmt.Errorf("append order records: %w", err)
	}
	return recs, nil
}

// undo gives back the first n decrements.
func (s *OrderService) undo(ctx context.Context, demands []*demand, n int) {
	ctx = detached(ctx)
	for _, d := range demands[:n] {
		if _, err := s.store.Products.IncrementVariant(ctx, d.product.ID, d.variant.ID, d.qty); err != nil {
			logger.WithCtx(ctx).Error("failed to return stock",
				"product_id", d.product.ID, "variant_id", d.variant.ID, "quantity", d.qty, "error", err)
		}
	}
}

func recordIDs(recs []*models.InventoryRecord) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}

func rejectReason(err error) string {
	var (
		ve  *ValidationError
		une *UserNotFoundError
		ive *InvalidVariantError
		oos *OutOfStockError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &une):
		return "user_not_found"
	case errors.As(err, &ive):
		return "invalid_variant"
	case errors.As(err, &oos):
		return "out_of_stock"
	}
	return "error"
}

// ListOrders pages through every order, newest first.
func (s *OrderService) ListOrders(ctx context.Context, page repositories.Page) ([]models.Order, int64, error) {
	return s.store.Orders.List(ctx, page)
}

// OrdersForUser lists a user's orders, newest first.
func (s *OrderService) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders.ForUser(ctx, userID)
}

// GetOrder returns an order to its owner or an admin. Anyone else is told
// it does not exist.
func (s *OrderService) GetOrder(ctx context.Context, id string, viewer auth.Identity) (*models.Order, error) {
	o, err := s.store.Orders.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	if viewer.Role != auth.RoleAdmin && o.UserID != viewer.UserID {
		return nil, &NotFoundError{Entity: "order", ID: id}
	}
	return o, nil
}

// transitions lists the statuses reachable from each status.
var transitions = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
}

func canMove(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves an order forward. Cancelling returns every line to
// stock through the ledger.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	switch status {
	case models.OrderPending, models.OrderProcessing, models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
	default:
		return nil, invalid("status", "The selected status is invalid.")
	}

	o, err := s.store.Orders.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	if !canMove(o.Status, status) {
		return nil, conflict("order %s cannot move from %s to %s", id, o.Status, status)
	}
	if err := s.store.Orders.UpdateStatus(ctx, id, o.Status, status); err != nil {
		if errors.Is(err, repositories.ErrConditionFailed) {
			return nil, conflict("order %s changed status concurrently", id)
		}
		return nil, notFound(err, "order", id)
	}
	from := o.Status
	o.Status, o.UpdatedAt = status, now()

	if status == models.OrderCancelled {
		s.restock(ctx, o)
	}
	s.events.Fire(ctx, EventOrderStatus, OrderStatusChanged{OrderID: id, From: from, To: status})
	return o, nil
}

// restock returns a cancelled order's lines. Lines whose variant no longer
// exists are logged and skipped.
func (s *OrderService) restock(ctx context.Context, o *models.Order) {
	by := actor(ctx)
	for _, item := range o.Items {
		_, err := s.ledger.shift(ctx, item.ProductID, item.VariantID, item.Quantity, func(after int) *models.InventoryRecord {
			r := newRecord(item.ProductID, item.VariantID, models.MovementAdd, models.SourceOrderCancel, item.Quantity, item.Quantity, after)
			r.OrderID, r.CreatedBy, r.Reason = o.ID, by, "order cancelled"
			return r
		})
		if err != nil {
			logger.WithCtx(ctx).Warn("could not restock cancelled order line",
				"order_id", o.ID, "variant_id", item.VariantID, "quantity", item.Quantity, "error", err)
		}
	}
}
