package graphql_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appgraphql "github.com/shashiranjanraj/storefront/app/graphql"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories/memory"
	"github.com/shashiranjanraj/storefront/app/services"
	gql "github.com/shashiranjanraj/storefront/pkg/graphql"
)

func seed(t *testing.T) (*services.Services, *models.Product) {
	t.Helper()
	ctx := context.Background()
	svc := services.New(services.Deps{Store: memory.New()})

	red, err := svc.Taxonomy.CreateColor(ctx, services.ColorInput{Name: "Red", HexCode: "#ff0000"})
	require.NoError(t, err)
	small, err := svc.Taxonomy.CreateSize(ctx, services.SizeInput{Name: "S", SortOrder: 1})
	require.NoError(t, err)
	medium, err := svc.Taxonomy.CreateSize(ctx, services.SizeInput{Name: "M", SortOrder: 2})
	require.NoError(t, err)
	shirts, err := svc.Taxonomy.CreateCategory(ctx, services.CategoryInput{Name: "Shirts"}, nil)
	require.NoError(t, err)

	three, zero := 3, 0
	p, err := svc.Catalog.CreateProduct(ctx, services.ProductInput{
		Name:       "Linen Shirt",
		Categories: []string{shirts.ID},
		Variants: []services.VariantInput{
			{ColorID: red.ID, SizeID: small.ID, Price: 40, Quantity: &three},
			{ColorID: red.ID, SizeID: medium.ID, Price: 42, Quantity: &zero},
		},
	}, nil)
	require.NoError(t, err)
	return svc, p
}

func run(t *testing.T, schema graphql.Schema, query string, vars map[string]interface{}) string {
	t.Helper()
	res := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        context.Background(),
	})
	require.False(t, res.HasErrors(), "%v", res.Errors)
	out, err := json.Marshal(res.Data)
	require.NoError(t, err)
	return string(out)
}

func TestProductQuery(t *testing.T) {
	svc, p := seed(t)
	schema, err := appgraphql.NewSchema(svc)
	require.NoError(t, err)

	got := run(t, schema, `query($id: ID!) {
		product(id: $id) {
			name
			totalStock
			categories { slug }
			variants { price inStock color { name } size { name } }
		}
	}`, map[string]interface{}{"id": p.ID})

	assert.JSONEq(t, `{"product": {
		"name": "Linen Shirt",
		"totalStock": 3,
		"categories": [{"slug": "shirts"}],
		"variants": [
			{"price": 40, "inStock": true,  "color": {"name": "Red"}, "size": {"name": "S"}},
			{"price": 42, "inStock": false, "color": {"name": "Red"}, "size": {"name": "M"}}
		]
	}}`, got)
}

func TestProductsSearchAndTaxonomy(t *testing.T) {
	svc, _ := seed(t)
	schema, err := appgraphql.NewSchema(svc)
	require.NoError(t, err)

	assert.JSONEq(t, `{"products": [{"name": "Linen Shirt"}]}`,
		run(t, schema, `{ products(search: "linen") { name } }`, nil))
	assert.JSONEq(t, `{"products": []}`,
		run(t, schema, `{ products(search: "wool") { name } }`, nil))
	assert.JSONEq(t, `{"colors": [{"name": "Red", "hexCode": "#ff0000"}], "sizes": [{"name": "S"}, {"name": "M"}]}`,
		run(t, schema, `{ colors { name hexCode } sizes { name } }`, nil))
}

func TestHandler(t *testing.T) {
	svc, _ := seed(t)
	schema, err := appgraphql.NewSchema(svc)
	require.NoError(t, err)
	h := gql.Handler(schema)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/graphql",
		bytes.NewBufferString(`{"query": "{ categories { name slug } }"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data": {"categories": [{"name": "Shirts", "slug": "shirts"}]}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "body must be JSON with a query")
}
