package seeders

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/services"
)

func init() {
	Register("colors", seedColors)
	Register("sizes", seedSizes)
	Register("categories", seedCategories)
	Register("products", seedProducts)
}

var demoColors = []services.ColorInput{
	{Name: "Black", HexCode: "#000000"},
	{Name: "White", HexCode: "#ffffff"},
	{Name: "Navy", HexCode: "#1f2a44"},
	{Name: "Olive", HexCode: "#708238"},
}

var demoSizes = []services.SizeInput{
	{Name: "XS", SortOrder: 1},
	{Name: "S", SortOrder: 2},
	{Name: "M", SortOrder: 3},
	{Name: "L", SortOrder: 4},
	{Name: "XL", SortOrder: 5},
}

var demoCategories = []string{"T-Shirts", "Hoodies", "Trousers"}

func seedColors(ctx context.Context, svc *services.Services) error {
	have, err := svc.Taxonomy.Colors(ctx)
	if err != nil {
		return err
	}
	names := map[string]bool{}
	for _, c := range have {
		names[c.Name] = true
	}
	for _, in := range demoColors {
		if names[in.Name] {
			continue
		}
		if _, err := svc.Taxonomy.CreateColor(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

func seedSizes(ctx context.Context, svc *services.Services) error {
	have, err := svc.Taxonomy.Sizes(ctx)
	if err != nil {
		return err
	}
	names := map[string]bool{}
	for _, s := range have {
		names[s.Name] = true
	}
	for _, in := range demoSizes {
		if names[in.Name] {
			continue
		}
		if _, err := svc.Taxonomy.CreateSize(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

func seedCategories(ctx context.Context, svc *services.Services) error {
	have, err := svc.Taxonomy.Categories(ctx)
	if err != nil {
		return err
	}
	names := map[string]bool{}
	for _, c := range have {
		names[c.Name] = true
	}
	for _, name := range demoCategories {
		if names[name] {
			continue
		}
		if _, err := svc.Taxonomy.CreateCategory(ctx, services.CategoryInput{Name: name}, nil); err != nil {
			return err
		}
	}
	return nil
}

type demoProduct struct {
	name     string
	category string
	price    float64
	cost     float64
	sale     string
	colors   []string
	sizes    []string
	stock    int
}

var demoProducts = []demoProduct{
	{name: "Classic Crew Tee", category: "T-Shirts", price: 19.99, cost: 6, colors: []string{"Black", "White"}, sizes: []string{"S", "M", "L"}, stock: 25},
	{name: "Heavyweight Pocket Tee", category: "T-Shirts", price: 29, cost: 9, sale: "10% off", colors: []string{"Navy", "Olive"}, sizes: []string{"M", "L", "XL"}, stock: 12},
	{name: "Zip Hoodie", category: "Hoodies", price: 59, cost: 21, colors: []string{"Black", "Navy"}, sizes: []string{"S", "M", "L", "XL"}, stock: 8},
	{name: "Chino Trousers", category: "Trousers", price: 49.5, cost: 18, colors: []string{"Olive"}, sizes: []string{"XS", "S", "M"}, stock: 15},
}

func seedProducts(ctx context.Context, svc *services.Services) error {
	_, total, err := svc.Catalog.ListProducts(ctx, services.ProductQuery{Page: services.PageOf(1, 1)})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	colors, err := svc.Taxonomy.Colors(ctx)
	if err != nil {
		return err
	}
	sizes, err := svc.Taxonomy.Sizes(ctx)
	if err != nil {
		return err
	}
	cats, err := svc.Taxonomy.Categories(ctx)
	if err != nil {
		return err
	}
	colorIDs, sizeIDs, catIDs := map[string]string{}, map[string]string{}, map[string]string{}
	for _, c := range colors {
		colorIDs[c.Name] = c.ID
	}
	for _, s := range sizes {
		sizeIDs[s.Name] = s.ID
	}
	for _, c := range cats {
		catIDs[c.Name] = c.ID
	}

	for _, p := range demoProducts {
		in := services.ProductInput{
			Name:             p.name,
			Description:      p.name + " in several colors and sizes.",
			ShortDescription: p.name,
			Sale:             p.sale,
		}
		if id, ok := catIDs[p.category]; ok {
			in.Categories = []string{id}
		}
		for _, color := range p.colors {
			for _, size := range p.sizes {
				if colorIDs[color] == "" || sizeIDs[size] == "" {
					return fmt.Errorf("product %q: color %q or size %q not seeded", p.name, color, size)
				}
				stock := p.stock
				in.Variants = append(in.Variants, services.VariantInput{
					ColorID:   colorIDs[color],
					SizeID:    sizeIDs[size],
					Price:     p.price,
					CostPrice: p.cost,
					Quantity:  &stock,
				})
			}
		}
		if _, err := svc.Catalog.CreateProduct(ctx, in, nil); err != nil {
			return err
		}
	}
	return nil
}
