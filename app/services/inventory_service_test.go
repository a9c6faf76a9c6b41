package services

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
)

func TestRemoveStockNeverGoesNegative(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Tee", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)})
	v := p.Variants[0]

	rec, err := f.svc.Inventory.RemoveStock(f.ctx, StockInput{ProductID: p.ID, VariantID: v.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, -3, rec.Delta)
	assert.Equal(t, 5, rec.QuantityBefore)
	assert.Equal(t, 2, rec.QuantityAfter)
	assert.Equal(t, "admin-1", rec.CreatedBy)

	_, err = f.svc.Inventory.RemoveStock(f.ctx, StockInput{ProductID: p.ID, VariantID: v.ID, Quantity: 3})
	var ise *InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 3, ise.Requested)
	assert.Equal(t, 2, ise.Available)
	assert.Equal(t, 2, f.quantity(t, p.ID, v.ID))
	f.reconciled(t, p.ID)
}

func TestLedgerSequenceBalances(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Tee",
		VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(0)},
		VariantInput{ColorID: f.red.ID, SizeID: f.medium.ID, Price: 12, Quantity: qty(4)},
	)

	byOptions := StockInput{ProductID: p.ID, ColorID: f.red.ID, SizeID: f.small.ID}

	in := byOptions
	in.Quantity = 10
	_, err := f.svc.Inventory.AddStock(f.ctx, in)
	require.NoError(t, err)

	in.Quantity = 4
	_, err = f.svc.Inventory.RemoveStock(f.ctx, in)
	require.NoError(t, err)

	_, err = f.svc.Inventory.AdjustInventory(f.ctx, AdjustInput{
		ProductID: p.ID, ColorID: f.red.ID, SizeID: f.small.ID, NewQuantity: qty(0), Reason: "count",
	})
	require.NoError(t, err)

	_, err = f.svc.Inventory.AdjustInventory(f.ctx, AdjustInput{
		ProductID: p.ID, ColorID: f.red.ID, SizeID: f.medium.ID, NewQuantity: qty(9),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, f.quantity(t, p.ID, p.Variants[0].ID))
	assert.Equal(t, 9, f.quantity(t, p.ID, p.Variants[1].ID))
	f.reconciled(t, p.ID)

	recs, err := f.svc.Inventory.RecordsByProduct(f.ctx, p.ID)
	require.NoError(t, err)
	// initial(4) + add + remove + adjust + adjust
	assert.Len(t, recs, 5)
}

func TestStockInputValidation(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Tee", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10})

	_, err := f.svc.Inventory.AddStock(f.ctx, StockInput{ProductID: p.ID, Quantity: 0})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "quantity")

	_, err = f.svc.Inventory.AdjustInventory(f.ctx, AdjustInput{ProductID: p.ID})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "newQuantity")

	_, err = f.svc.Inventory.AddStock(f.ctx, StockInput{ProductID: "missing", Quantity: 1})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))

	// A single-variant product needs no variant selection.
	rec, err := f.svc.Inventory.AddStock(f.ctx, StockInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, p.Variants[0].ID, rec.VariantID)
}

func TestDeleteRecordOnlyLatest(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Tee", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(1)})
	v := p.Variants[0]

	first, err := f.svc.Inventory.AddStock(f.ctx, StockInput{ProductID: p.ID, VariantID: v.ID, Quantity: 3})
	require.NoError(t, err)
	second, err := f.svc.Inventory.AddStock(f.ctx, StockInput{ProductID: p.ID, VariantID: v.ID, Quantity: 2})
	require.NoError(t, err)

	var ce *ConflictError
	require.True(t, errors.As(f.svc.Inventory.DeleteRecord(f.ctx, first.ID), &ce))

	require.NoError(t, f.svc.Inventory.DeleteRecord(f.ctx, second.ID))
	assert.Equal(t, 4, f.quantity(t, p.ID, v.ID))
	f.reconciled(t, p.ID)

	updated, err := f.svc.Inventory.UpdateRecord(f.ctx, first.ID, "supplier delivery")
	require.NoError(t, err)
	assert.Equal(t, "supplier delivery", updated.Reason)
	assert.Equal(t, 3, updated.Delta)
}

func TestDeleteLatestAdjustRestoresQuantity(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Tee", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(0)})
	v := p.Variants[0]

	add, err := f.svc.Inventory.AddStock(f.ctx, StockInput{ProductID: p.ID, VariantID: v.ID, Quantity: 3})
	require.NoError(t, err)
	adj, err := f.svc.Inventory.AdjustInventory(f.ctx, AdjustInput{ProductID: p.ID, VariantID: v.ID, NewQuantity: qty(1)})
	require.NoError(t, err)
	assert.Equal(t, models.MovementAdjust, adj.Type)
	assert.Equal(t, -2, adj.Delta)

	require.NoError(t, f.svc.Inventory.DeleteRecord(f.ctx, adj.ID))
	assert.Equal(t, 3, f.quantity(t, p.ID, v.ID))

	recs, err := f.svc.Inventory.RecordsByProduct(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, add.ID, recs[0].ID)
	f.reconciled(t, p.ID)
}

func TestStockQuantitiesAreBounded(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Tee", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)})
	var ve *ValidationError

	_, err := f.svc.Inventory.AddStock(f.ctx, StockInput{ProductID: p.ID, Quantity: math.MaxInt})
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Contains(t, ve.Fields, "quantity")

	_, err = f.svc.Inventory.RemoveStock(f.ctx, StockInput{ProductID: p.ID, Quantity: math.MaxInt})
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Contains(t, ve.Fields, "quantity")

	huge := MaxStockQuantity + 1
	_, err = f.svc.Inventory.AdjustInventory(f.ctx, AdjustInput{ProductID: p.ID, NewQuantity: &huge})
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Contains(t, ve.Fields, "newQuantity")

	_, err = f.svc.Catalog.CreateProduct(f.ctx, ProductInput{
		Name:     "Crate",
		Variants: []VariantInput{{ColorID: f.blue.ID, SizeID: f.small.ID, Price: 1, Quantity: &huge}},
	}, nil)
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Contains(t, ve.Fields, "variants.0.quantity")

	assert.Equal(t, 5, f.quantity(t, p.ID, p.Variants[0].ID))

	rec, err := f.svc.Inventory.AddStock(f.ctx, StockInput{ProductID: p.ID, Quantity: MaxStockQuantity})
	require.NoError(t, err)
	assert.Equal(t, 5+MaxStockQuantity, rec.QuantityAfter)
	f.reconciled(t, p.ID)
}
