package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

func TestCreateProductDecoratesAndRecordsInitialStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Linen Shirt",
		VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 15, CostPrice: 20, Quantity: qty(3)},
		VariantInput{ColorID: f.blue.ID, SizeID: f.small.ID, Price: 15},
	)

	require.Len(t, p.Variants, 2)
	require.NotNil(t, p.Variants[0].Color)
	assert.Equal(t, "Red", p.Variants[0].Color.Name)
	assert.Equal(t, "S", p.Variants[0].Size.Name)
	assert.Equal(t, 25.0, p.Variants[0].DiscountPercent)
	require.Len(t, p.CategoryDetails, 1)
	assert.Equal(t, "shirts", p.CategoryDetails[0].Slug)

	recs, err := f.svc.Inventory.RecordsByProduct(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1, "only variants with stock get an initial record")
	assert.Equal(t, models.SourceInitial, recs[0].Source)
	assert.Equal(t, 3, recs[0].Delta)
	f.reconciled(t, p.ID)
}

func TestCreateProductValidatesReferences(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Catalog.CreateProduct(f.ctx, ProductInput{
		Name:       "Shirt",
		Categories: []string{"nope"},
		Variants: []VariantInput{
			{ColorID: "pink", SizeID: f.small.ID, Price: 10},
			{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10},
			{ColorID: f.red.ID, SizeID: f.small.ID, Price: 12},
		},
	}, nil)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "variants.0.colorId")
	assert.Contains(t, ve.Fields, "variants.2")
	assert.Contains(t, ve.Fields, "categories.0")

	_, err = f.svc.Catalog.CreateProduct(f.ctx, ProductInput{Name: "Shirt"}, nil)
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "variants")
}

func TestUpdateProductKeepsStockAndCorrects(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Shirt",
		VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(5)},
		VariantInput{ColorID: f.red.ID, SizeID: f.medium.ID, Price: 10, Quantity: qty(2)},
	)
	keep, correct, drop := p.Variants[0], p.Variants[1], p.Variants[1]

	got, err := f.svc.Catalog.UpdateProduct(f.ctx, p.ID, ProductInput{
		Name: "Shirt v2",
		Variants: []VariantInput{
			// Matched by id, no quantity: stock kept.
			{ID: keep.ID, ColorID: f.red.ID, SizeID: f.small.ID, Price: 11, Quantity: nil},
			// Matched by options, new quantity: corrected through the ledger.
			{ColorID: correct.ColorID, SizeID: correct.SizeID, Price: 10, Quantity: qty(7)},
			// New variant.
			{ColorID: f.blue.ID, SizeID: f.small.ID, Price: 9, Quantity: qty(4)},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Shirt v2", got.Name)
	require.Len(t, got.Variants, 3)
	assert.Equal(t, keep.ID, got.Variants[0].ID)
	assert.Equal(t, 5, got.Variants[0].Quantity)
	assert.Equal(t, 11.0, got.Variants[0].Price)
	assert.Equal(t, correct.ID, got.Variants[1].ID)
	assert.Equal(t, 7, got.Variants[1].Quantity)
	assert.Equal(t, 4, got.Variants[2].Quantity)
	assert.Empty(t, got.Categories)
	f.reconciled(t, p.ID)

	// Dropping a variant removes it and its history.
	_, err = f.svc.Catalog.UpdateProduct(f.ctx, p.ID, ProductInput{
		Name:     "Shirt v3",
		Variants: []VariantInput{{ID: keep.ID, ColorID: f.red.ID, SizeID: f.small.ID, Price: 11}},
	}, nil)
	require.NoError(t, err)
	recs, err := f.svc.Inventory.RecordsByProduct(f.ctx, p.ID)
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, drop.ID, r.VariantID)
	}
	f.reconciled(t, p.ID)
}

func TestListSearchSimilarAndDelete(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Red Shirt", VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(1)})
	b := f.product(t, "Blue Shirt", VariantInput{ColorID: f.blue.ID, SizeID: f.small.ID, Price: 10})
	_, err := f.svc.Catalog.CreateProduct(f.ctx, ProductInput{
		Name:     "Scarf",
		Variants: []VariantInput{{ColorID: f.red.ID, SizeID: f.small.ID, Price: 5}},
	}, nil)
	require.NoError(t, err)

	all, total, err := f.svc.Catalog.ListProducts(f.ctx, ProductQuery{Page: PageOf(1, 2)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 2)

	found, total, err := f.svc.Catalog.Search(f.ctx, "shirt", PageOf(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)

	_, _, err = f.svc.Catalog.Search(f.ctx, "  ", PageOf(1, 10))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	inCat, total, err := f.svc.Catalog.ByCategorySlug(f.ctx, "shirts", PageOf(0, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, inCat, 2)

	similar, err := f.svc.Catalog.Similar(f.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, b.ID, similar[0].ID)

	require.NoError(t, f.svc.Catalog.DeleteProduct(f.ctx, a.ID))
	_, err = f.svc.Catalog.GetProduct(f.ctx, a.ID)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	recs, _, err := f.svc.Inventory.AllRecords(f.ctx, repositories.Page{Page: 1, Limit: 50})
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, a.ID, r.ProductID)
	}
}

func TestFindVariant(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Shirt",
		VariantInput{ColorID: f.red.ID, SizeID: f.small.ID, Price: 10, Quantity: qty(2)},
		VariantInput{ColorID: f.blue.ID, SizeID: f.medium.ID, Price: 12},
	)

	c, err := f.svc.Catalog.FindVariant(f.ctx, p.ID, VariantQuery{ColorID: f.blue.ID, SizeID: f.medium.ID})
	require.NoError(t, err)
	assert.Equal(t, p.Variants[1].ID, c.Variant.ID)
	assert.False(t, c.InStock)
	assert.Equal(t, []string{f.red.ID, f.blue.ID}, c.Options.Colors)

	_, err = f.svc.Catalog.FindVariant(f.ctx, p.ID, VariantQuery{ColorID: f.blue.ID, SizeID: f.small.ID})
	var ive *InvalidVariantError
	require.True(t, errors.As(err, &ive))
}
