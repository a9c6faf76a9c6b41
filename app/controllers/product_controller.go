package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(s *services.Services) *ProductController {
	return &ProductController{catalog: s.Catalog}
}

// Index handles GET /api/products?page=&limit=&category=&search=.
func (pc *ProductController) Index(c *ctx.Context) {
	p, limit := page(c)
	list, total, err := pc.catalog.ListProducts(c.Context(), services.ProductQuery{
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		Page:       services.PageOf(p, limit),
	})
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, list, total, p, limit)
}

func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.catalog.GetProduct(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Similar(c *ctx.Context) {
	list, err := pc.catalog.Similar(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

// Variant handles GET /api/products/{id}/variant?variantId=&colorId=&sizeId=.
func (pc *ProductController) Variant(c *ctx.Context) {
	choice, err := pc.catalog.FindVariant(c.Context(), c.Param("id"), services.VariantQuery{
		VariantID: c.Query("variantId"),
		ColorID:   c.Query("colorId"),
		SizeID:    c.Query("sizeId"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(choice)
}

func (pc *ProductController) ByCategory(c *ctx.Context) {
	p, limit := page(c)
	list, total, err := pc.catalog.ByCategorySlug(c.Context(), c.Param("category"), services.PageOf(p, limit))
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, list, total, p, limit)
}

func (pc *ProductController) Search(c *ctx.Context) {
	p, limit := page(c)
	list, total, err := pc.catalog.Search(c.Context(), c.Param("keyword"), services.PageOf(p, limit))
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, list, total, p, limit)
}

// Store accepts JSON, or multipart with the product in "data" and files
// in "images".
func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindMultipart("data", maxFormMemory, &in) {
		return
	}
	p, err := pc.catalog.CreateProduct(c.Context(), in, c.Files("images"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(p)
}

func (pc *ProductController) Update(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindMultipart("data", maxFormMemory, &in) {
		return
	}
	p, err := pc.catalog.UpdateProduct(c.Context(), c.Param("id"), in, c.Files("images"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	if err := pc.catalog.DeleteProduct(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Message("Product deleted", nil)
}
