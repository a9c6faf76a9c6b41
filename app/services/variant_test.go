package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
)

func TestResolveVariant(t *testing.T) {
	p := &models.Product{ID: "p", Variants: []models.Variant{
		{ID: "v1", ColorID: "red", SizeID: "s"},
		{ID: "v2", ColorID: "red", SizeID: "m"},
		{ID: "v3", ColorID: "blue", SizeID: "m"},
	}}

	tests := []struct {
		name    string
		q       VariantQuery
		want    string
		invalid bool
	}{
		{"by id", VariantQuery{VariantID: "v3"}, "v3", false},
		{"id wins over options", VariantQuery{VariantID: "v1", ColorID: "blue", SizeID: "m"}, "v1", false},
		{"by color and size", VariantQuery{ColorID: "red", SizeID: "m"}, "v2", false},
		{"unknown id", VariantQuery{VariantID: "nope"}, "", true},
		{"unknown pair", VariantQuery{ColorID: "blue", SizeID: "s"}, "", true},
		{"color only", VariantQuery{ColorID: "red"}, "", true},
		{"nothing", VariantQuery{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ResolveVariant(p, tt.q)
			if tt.invalid {
				var ive *InvalidVariantError
				require.True(t, errors.As(err, &ive))
				assert.Equal(t, "p", ive.ProductID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.ID)
		})
	}
}

func TestResolveVariant_SingleVariantDefault(t *testing.T) {
	p := &models.Product{ID: "p", Variants: []models.Variant{{ID: "only"}}}
	v, err := ResolveVariant(p, VariantQuery{})
	require.NoError(t, err)
	assert.Equal(t, "only", v.ID)
}

func TestAvailableOptions_FirstSeenOrder(t *testing.T) {
	p := &models.Product{Variants: []models.Variant{
		{ColorID: "blue", SizeID: "m"},
		{ColorID: "red", SizeID: "s"},
		{ColorID: "blue", SizeID: "s"},
	}}
	o := AvailableOptions(p)
	assert.Equal(t, []string{"blue", "red"}, o.Colors)
	assert.Equal(t, []string{"m", "s"}, o.Sizes)
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 25.0, discountPercent(15, 20))
	assert.Equal(t, 0.0, discountPercent(20, 15))
	assert.Equal(t, 0.0, discountPercent(20, 0))
	assert.Equal(t, 33.0, discountPercent(10, 15))
}
