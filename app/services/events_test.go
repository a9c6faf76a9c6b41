package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories/memory"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

func TestMovementsAndOrdersFireEvents(t *testing.T) {
	d := event.NewDispatcher()
	svc := New(Deps{Store: memory.New(), Events: d, LowStockThreshold: 2})
	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: "admin-1", Role: auth.RoleAdmin})

	var moved []*models.InventoryRecord
	var placed []*models.Order
	d.Listen(EventInventoryMoved, func(_ context.Context, p any) { moved = append(moved, p.(*models.InventoryRecord)) })
	d.Listen(EventOrderPlaced, func(_ context.Context, p any) { placed = append(placed, p.(*models.Order)) })

	color, err := svc.Taxonomy.CreateColor(ctx, ColorInput{Name: "Black"})
	require.NoError(t, err)
	size, err := svc.Taxonomy.CreateSize(ctx, SizeInput{Name: "M"})
	require.NoError(t, err)
	user, err := svc.Users.Register(ctx, RegisterInput{FullName: "Sam Lee", Username: "sam", Email: "sam@example.com", Password: "secret123"})
	require.NoError(t, err)
	p, err := svc.Catalog.CreateProduct(ctx, ProductInput{
		Name:     "Beanie",
		Variants: []VariantInput{{ColorID: color.ID, SizeID: size.ID, Price: 12, Quantity: qty(3)}},
	}, nil)
	require.NoError(t, err)

	adds := testutil.ToFloat64(metrics.StockMovements.WithLabelValues(models.MovementAdd))
	removes := testutil.ToFloat64(metrics.StockMovements.WithLabelValues(models.MovementRemove))
	posOrders := testutil.ToFloat64(metrics.OrdersPlaced.WithLabelValues(models.ChannelPOS))

	_, err = svc.Inventory.AddStock(ctx, StockInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Orders.PlaceOrder(ctx, PlaceOrderInput{
		UserID:   user.ID,
		PlacedBy: "admin-1",
		Channel:  models.ChannelPOS,
		Items:    []OrderLine{{ProductID: p.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	// The initial stock record is fired too, so the last two are ours.
	require.GreaterOrEqual(t, len(moved), 3)
	last := moved[len(moved)-2:]
	assert.Equal(t, models.MovementAdd, last[0].Type)
	assert.Equal(t, 5, last[0].QuantityAfter)
	assert.Equal(t, models.MovementRemove, last[1].Type)
	assert.Equal(t, 1, last[1].QuantityAfter)

	require.Len(t, placed, 1)
	assert.InDelta(t, 48.0, placed[0].TotalAmount, 0.001)

	assert.Equal(t, adds+1, testutil.ToFloat64(metrics.StockMovements.WithLabelValues(models.MovementAdd)))
	assert.Equal(t, removes+1, testutil.ToFloat64(metrics.StockMovements.WithLabelValues(models.MovementRemove)))
	assert.Equal(t, posOrders+1, testutil.ToFloat64(metrics.OrdersPlaced.WithLabelValues(models.ChannelPOS)))
}
