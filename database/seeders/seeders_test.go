package seeders

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/repositories/memory"
	"github.com/shashiranjanraj/storefront/app/services"
)

func TestRunAllSeedsCatalogOnce(t *testing.T) {
	ctx := context.Background()
	svc := services.New(services.Deps{Store: memory.New()})

	var out bytes.Buffer
	require.NoError(t, RunAll(ctx, svc, &out))
	assert.Contains(t, out.String(), "Running seeder: products")

	_, total, err := svc.Catalog.ListProducts(ctx, services.ProductQuery{Page: services.PageOf(1, 50)})
	require.NoError(t, err)
	assert.EqualValues(t, len(demoProducts), total)

	colors, err := svc.Taxonomy.Colors(ctx)
	require.NoError(t, err)
	assert.Len(t, colors, len(demoColors))

	// a second run leaves everything as it was
	require.NoError(t, RunAll(ctx, svc, nil))
	_, again, err := svc.Catalog.ListProducts(ctx, services.ProductQuery{Page: services.PageOf(1, 50)})
	require.NoError(t, err)
	assert.Equal(t, total, again)
	colors, err = svc.Taxonomy.Colors(ctx)
	require.NoError(t, err)
	assert.Len(t, colors, len(demoColors))
}

func TestSeededStockIsOnTheLedger(t *testing.T) {
	ctx := context.Background()
	svc := services.New(services.Deps{Store: memory.New()})
	require.NoError(t, RunAll(ctx, svc, nil))

	products, _, err := svc.Catalog.Search(ctx, "Zip Hoodie", services.PageOf(1, 5))
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	require.Len(t, p.Variants, 8)
	for _, v := range p.Variants {
		assert.Equal(t, 8, v.Quantity)
	}
	assert.Equal(t, []string{"colors", "sizes", "categories", "products"}, Names())
}
