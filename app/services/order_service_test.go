package services

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func TestPlaceOrderTotalsAndDecrements(t *testing.T) {
	f := newFixture(t)
	shirt := f.product(t, "Shirt", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)})
	pants := f.product(t, "Pants", VariantInput{ColorID: f.blue.ID, SizeID: f.medium.ID, Price: 15, Quantity: qty(3)})

	bogus := 1.0
	o, err := f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{
		UserID: f.customer.ID,
		Items: []OrderLine{
			{ProductID: shirt.ID, VariantID: shirt.Variants[0].ID, Quantity: 2, Price: &bogus},
			{ProductID: pants.ID, ColorID: f.blue.ID, SizeID: f.medium.ID, Quantity: 1},
		},
		TotalAmount: &bogus,
	})
	require.NoError(t, err)

	assert.Equal(t, 35.0, o.TotalAmount)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, models.ChannelStorefront, o.Channel)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 10.0, o.Items[0].UnitPrice)
	assert.Equal(t, 20.0, o.Items[0].LineTotal)
	assert.Equal(t, "Pants", o.Items[1].Name)

	assert.Equal(t, 3, f.quantity(t, shirt.ID, shirt.Variants[0].ID))
	assert.Equal(t, 2, f.quantity(t, pants.ID, pants.Variants[0].ID))
	f.reconciled(t, shirt.ID)
	f.reconciled(t, pants.ID)

	recs, err := f.svc.Inventory.RecordsByProduct(f.ctx, shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceOrder, recs[0].Source)
	assert.Equal(t, o.ID, recs[0].OrderID)
}

func TestPlaceOrderIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	shirt := f.product(t, "Shirt", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)})
	pants := f.product(t, "Pants", VariantInput{ColorID: f.blue.ID, SizeID: f.medium.ID, Price: 15, Quantity: qty(1)})

	_, err := f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{
		UserID: f.customer.ID,
		Items: []OrderLine{
			{ProductID: shirt.ID, Quantity: 2},
			{ProductID: pants.ID, Quantity: 1},
			{ProductID: pants.ID, Quantity: 1},
		},
	})
	var oos *OutOfStockError
	require.True(t, errors.As(err, &oos))
	require.Len(t, oos.Items, 1)
	assert.Equal(t, Shortage{ProductID: pants.ID, VariantID: pants.Variants[0].ID, Requested: 2, Available: 1}, oos.Items[0])

	assert.Equal(t, 5, f.quantity(t, shirt.ID, shirt.Variants[0].ID))
	assert.Equal(t, 1, f.quantity(t, pants.ID, pants.Variants[0].ID))

	orders, err := f.svc.Orders.OrdersForUser(f.ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
	f.reconciled(t, shirt.ID)
}

func TestPlaceOrderRejections(t *testing.T) {
	f := newFixture(t)
	shirt := f.product(t, "Shirt",
		VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)},
		VariantInput{ColorID: f.blue.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)},
	)

	_, err := f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{UserID: "nobody", Items: []OrderLine{{ProductID: shirt.ID, Quantity: 1}}})
	var une *UserNotFoundError
	require.True(t, errors.As(err, &une))
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf), "user not found is a not-found error")

	_, err = f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{UserID: f.customer.ID})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "items")

	_, err = f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{UserID: f.customer.ID, Items: []OrderLine{{ProductID: shirt.ID, Quantity: 0}}})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "items.0.quantity")

	// Two variants and no selection.
	_, err = f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{UserID: f.customer.ID, Items: []OrderLine{{ProductID: shirt.ID, Quantity: 1}}})
	var ive *InvalidVariantError
	require.True(t, errors.As(err, &ive))

	_, err = f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{UserID: f.customer.ID, Items: []OrderLine{{ProductID: "gone", Quantity: 1}}})
	require.True(t, errors.As(err, &ive))
	assert.Equal(t, "product not found", ive.Reason)

	for _, v := range shirt.Variants {
		assert.Equal(t, 5, f.quantity(t, shirt.ID, v.ID))
	}
}

func TestCancelOrderRestocks(t *testing.T) {
	f := newFixture(t)
	shirt := f.product(t, "Shirt", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)})
	v := shirt.Variants[0]

	o, err := f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{UserID: f.customer.ID, Items: []OrderLine{{ProductID: shirt.ID, Quantity: 4}}})
	require.NoError(t, err)
	assert.Equal(t, 1, f.quantity(t, shirt.ID, v.ID))

	_, err = f.svc.Orders.UpdateStatus(f.ctx, o.ID, models.OrderDelivered)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))

	_, err = f.svc.Orders.UpdateStatus(f.ctx, o.ID, "lost")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	got, err := f.svc.Orders.UpdateStatus(f.ctx, o.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)
	assert.Equal(t, 5, f.quantity(t, shirt.ID, v.ID))
	f.reconciled(t, shirt.ID)

	recs, err := f.svc.Inventory.RecordsByProduct(f.ctx, shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceOrderCancel, recs[0].Source)

	// Cancelled is terminal.
	_, err = f.svc.Orders.UpdateStatus(f.ctx, o.ID, models.OrderProcessing)
	require.True(t, errors.As(err, &ce))
}

func TestGetOrderVisibility(t *testing.T) {
	f := newFixture(t)
	shirt := f.product(t, "Shirt", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)})
	o, err := f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{UserID: f.customer.ID, Items: []OrderLine{{ProductID: shirt.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.svc.Orders.GetOrder(f.ctx, o.ID, auth.Identity{UserID: f.customer.ID, Role: auth.RoleCustomer})
	require.NoError(t, err)
	_, err = f.svc.Orders.GetOrder(f.ctx, o.ID, auth.Identity{UserID: "admin-1", Role: auth.RoleAdmin})
	require.NoError(t, err)

	_, err = f.svc.Orders.GetOrder(f.ctx, o.ID, auth.Identity{UserID: "someone-else", Role: auth.RoleCustomer})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))

	list, total, err := f.svc.Orders.ListOrders(f.ctx, repositories.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

func TestPlaceOrderBoundsQuantities(t *testing.T) {
	f := newFixture(t)
	shirt := f.product(t, "Shirt", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)})

	// Summed, these would wrap around to a negative demand.
	_, err := f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{
		UserID: f.customer.ID,
		Items: []OrderLine{
			{ProductID: shirt.ID, Quantity: math.MaxInt},
			{ProductID: shirt.ID, Quantity: math.MaxInt},
		},
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Contains(t, ve.Fields, "items.0.quantity")

	// Each line is allowed, their sum for the variant is not.
	_, err = f.svc.Orders.PlaceOrder(f.ctx, PlaceOrderInput{
		UserID: f.customer.ID,
		Items: []OrderLine{
			{ProductID: shirt.ID, Quantity: MaxOrderQuantity - 1},
			{ProductID: shirt.ID, Quantity: 2},
		},
	})
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Contains(t, ve.Fields, "items.1.quantity")

	_, err = f.svc.Cart.Add(f.ctx, f.customer.ID, CartItemInput{ProductID: shirt.ID, Quantity: MaxOrderQuantity})
	require.NoError(t, err)
	_, err = f.svc.Cart.Add(f.ctx, f.customer.ID, CartItemInput{ProductID: shirt.ID, Quantity: 1})
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Contains(t, ve.Fields, "quantity")

	assert.Equal(t, 5, f.quantity(t, shirt.ID, shirt.Variants[0].ID))
	f.reconciled(t, shirt.ID)
	orders, err := f.svc.Orders.OrdersForUser(f.ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
