package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/repositories/memory"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

// fixture is a service set over a fresh memory store with one customer,
// two colors, two sizes and a category.
type fixture struct {
	svc      *Services
	store    *repositories.Store
	ctx      context.Context
	customer *models.User
	red      *models.Color
	blue     *models.Color
	small    *models.Size
	medium   *models.Size
	shirts   *models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	f := &fixture{
		svc:   New(Deps{Store: store, LowStockThreshold: 1}),
		store: store,
		ctx:   auth.WithIdentity(context.Background(), auth.Identity{UserID: "admin-1", Role: auth.RoleAdmin}),
	}
	var err error
	f.customer, err = f.svc.Users.Register(f.ctx, RegisterInput{
		FullName: "Jane Doe",
		Username: "jane",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	f.red, err = f.svc.Taxonomy.CreateColor(f.ctx, ColorInput{Name: "Red", HexCode: "#ff0000"})
	require.NoError(t, err)
	f.blue, err = f.svc.Taxonomy.CreateColor(f.ctx, ColorInput{Name: "Blue", HexCode: "#0000ff"})
	require.NoError(t, err)
	f.small, err = f.svc.Taxonomy.CreateSize(f.ctx, SizeInput{Name: "S", SortOrder: 1})
	require.NoError(t, err)
	f.medium, err = f.svc.Taxonomy.CreateSize(f.ctx, SizeInput{Name: "M", SortOrder: 2})
	require.NoError(t, err)
	f.shirts, err = f.svc.Taxonomy.CreateCategory(f.ctx, CategoryInput{Name: "Shirts"}, nil)
	require.NoError(t, err)
	return f
}

func qty(n int) *int { return &n }

// product creates a product with one variant per (color, size, price,
// quantity) tuple.
func (f *fixture) product(t *testing.T, name string, variants ...VariantInput) *models.Product {
	t.Helper()
	p, err := f.svc.Catalog.CreateProduct(f.ctx, ProductInput{
		Name:       name,
		Categories: []string{f.shirts.ID},
		Variants:   variants,
	}, nil)
	require.NoError(t, err)
	return p
}

func (f *fixture) quantity(t *testing.T, productID, variantID string) int {
	t.Helper()
	p, err := f.svc.Catalog.GetProduct(f.ctx, productID)
	require.NoError(t, err)
	v, ok := p.FindVariant(variantID)
	require.True(t, ok)
	return v.Quantity
}

func (f *fixture) reconciled(t *testing.T, productID string) {
	t.Helper()
	r, err := f.svc.Inventory.Reconcile(f.ctx, productID)
	require.NoError(t, err)
	require.True(t, r.Match, "ledger out of balance: %+v", r.Variants)
}
