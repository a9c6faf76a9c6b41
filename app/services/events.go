package services

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Event names.
const (
	EventInventoryMoved = "inventory.moved"
	EventOrderPlaced    = "order.placed"
	EventOrderStatus    = "order.status_changed"
)

// OrderStatusChanged is the payload of EventOrderStatus.
type OrderStatusChanged struct {
	OrderID string
	From    string
	To      string
}

// RegisterListeners wires the metrics and low-stock listeners.
func RegisterListeners(d *event.Dispatcher, lowStock int) {
	d.Listen(EventInventoryMoved, func(ctx context.Context, payload any) {
		rec, ok := payload.(*models.InventoryRecord)
		if !ok {
			return
		}
		metrics.StockMovements.WithLabelValues(rec.Type).Inc()
		if rec.QuantityAfter <= lowStock {
			logger.WithCtx(ctx).Warn("low stock",
				"product_id", rec.ProductID,
				"variant_id", rec.VariantID,
				"quantity", rec.QuantityAfter,
				"threshold", lowStock)
		}
	})

	d.Listen(EventOrderPlaced, func(ctx context.Context, payload any) {
		o, ok := payload.(*models.Order)
		if !ok {
			return
		}
		metrics.OrdersPlaced.WithLabelValues(o.Channel).Inc()
		metrics.OrderValue.Add(o.TotalAmount)
		logger.WithCtx(ctx).Info("order placed",
			"order_id", o.ID, "user_id", o.UserID, "channel", o.Channel,
			"items", len(o.Items), "total", o.TotalAmount)
	})

	d.Listen(EventOrderStatus, func(ctx context.Context, payload any) {
		if c, ok := payload.(OrderStatusChanged); ok {
			logger.WithCtx(ctx).Info("order status changed", "order_id", c.OrderID, "from", c.From, "to", c.To)
		}
	})
}
