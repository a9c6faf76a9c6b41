package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/repositories/sqlstore"
	"github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

func openSQLite(t *testing.T) *repositories.Store {
	t.Helper()
	db, err := database.Connect("sqlite", "file::memory:")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	require.NoError(t, db.AutoMigrate(migrations.All()...))
	s := sqlstore.New(db)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestSQLStore_ConditionalIncrement(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Products.Create(ctx, &models.Product{
		ID:       "p1",
		Name:     "Tee",
		Variants: []models.Variant{{ID: "v1", ColorID: "c", SizeID: "s", Price: 10, Quantity: 5}},
	}))

	after, err := s.Products.IncrementVariant(ctx, "p1", "v1", -3)
	require.NoError(t, err)
	assert.Equal(t, 2, after)

	_, err = s.Products.IncrementVariant(ctx, "p1", "v1", -3)
	assert.ErrorIs(t, err, repositories.ErrConditionFailed)

	_, err = s.Products.IncrementVariant(ctx, "p1", "missing", 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, s.Products.SetVariantQuantity(ctx, "p1", "v1", 2, 7))
	assert.ErrorIs(t, s.Products.SetVariantQuantity(ctx, "p1", "v1", 2, 9), repositories.ErrConditionFailed)

	p, err := s.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Variants[0].Quantity)
}

func TestSQLStore_UpdateKeepsQuantityAndCategoryFilter(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	p := &models.Product{
		ID:         "p1",
		Name:       "Tee",
		Categories: []string{"cat-a"},
		Variants:   []models.Variant{{ID: "v1", ColorID: "c", SizeID: "s", Price: 10, Quantity: 5}},
	}
	require.NoError(t, s.Products.Create(ctx, p))

	p.Name = "Tee v2"
	p.Variants[0].Quantity = 99
	p.Variants = append(p.Variants, models.Variant{ID: "v2", ColorID: "c", SizeID: "l", Price: 11, Quantity: 4})
	require.NoError(t, s.Products.Update(ctx, p))

	got, err := s.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Tee v2", got.Name)
	require.Len(t, got.Variants, 2)
	assert.Equal(t, 5, got.Variants[0].Quantity)
	assert.Equal(t, 4, got.Variants[1].Quantity)

	list, total, err := s.Products.List(ctx, repositories.ProductFilter{CategoryID: "cat-a"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "p1", list[0].ID)

	require.NoError(t, s.Products.RemoveCategory(ctx, "cat-a"))
	_, total, _ = s.Products.List(ctx, repositories.ProductFilter{CategoryID: "cat-a"})
	assert.EqualValues(t, 0, total)
}

func TestSQLStore_UniqueAndFindBy(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Sizes.Create(ctx, &models.Size{ID: "1", Name: "M"}))
	assert.Error(t, s.Sizes.Create(ctx, &models.Size{ID: "2", Name: "M"}))

	sz, err := s.Sizes.FindBy(ctx, "name", "M")
	require.NoError(t, err)
	assert.Equal(t, "1", sz.ID)

	assert.ErrorIs(t, s.Sizes.Delete(ctx, "nope"), repositories.ErrNotFound)
}
