// Package graphql exposes the catalog as a read-only GraphQL schema.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	gql "github.com/shashiranjanraj/storefront/pkg/graphql"
)

var colorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Color",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"hexCode": &graphql.Field{Type: graphql.String},
	},
})

var sizeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Size",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"sortOrder": &graphql.Field{Type: graphql.Int},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"slug":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"imageUrl": &graphql.Field{Type: graphql.String},
	},
})

var variantType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Variant",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"price":           &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"costPrice":       &graphql.Field{Type: graphql.Float},
		"quantity":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"discountPercent": &graphql.Field{Type: graphql.Float},
		"color":           &graphql.Field{Type: colorType},
		"size":            &graphql.Field{Type: sizeType},
		"inStock": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				v, _ := p.Source.(models.Variant)
				return v.Quantity > 0, nil
			},
		},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":      &graphql.Field{Type: graphql.String},
		"shortDescription": &graphql.Field{Type: graphql.String},
		"sale":             &graphql.Field{Type: graphql.String},
		"imageUrls":        &graphql.Field{Type: graphql.NewList(graphql.String)},
		"variants":         &graphql.Field{Type: graphql.NewList(variantType)},
		"categories": &graphql.Field{
			Type: graphql.NewList(categoryType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return sourceProduct(p).CategoryDetails, nil
			},
		},
		"totalStock": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return sourceProduct(p).TotalStock(), nil
			},
		},
	},
})

func sourceProduct(p graphql.ResolveParams) *models.Product {
	switch v := p.Source.(type) {
	case *models.Product:
		return v
	case models.Product:
		return &v
	}
	return &models.Product{}
}

// NewSchema builds the catalog schema over svc.
func NewSchema(svc *services.Services) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.ID},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: services.DefaultLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					search, _ := p.Args["search"].(string)
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)
					list, _, err := svc.Catalog.ListProducts(p.Context, services.ProductQuery{
						CategoryID: category,
						Search:     search,
						Page:       services.PageOf(page, limit),
					})
					return list, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return svc.Catalog.GetProduct(p.Context, id)
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Taxonomy.Categories(p.Context)
				},
			},
			"colors": &graphql.Field{
				Type: graphql.NewList(colorType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Taxonomy.Colors(p.Context)
				},
			},
			"sizes": &graphql.Field{
				Type: graphql.NewList(sizeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Taxonomy.Sizes(p.Context)
				},
			},
		},
	})
	return gql.NewSchema(query)
}
