package controllers

import (
	"mime/multipart"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// TaxonomyController serves categories, colors and sizes.
type TaxonomyController struct {
	taxonomy *services.TaxonomyService
}

func NewTaxonomyController(s *services.Services) *TaxonomyController {
	return &TaxonomyController{taxonomy: s.Taxonomy}
}

func firstFile(c *ctx.Context, field string) *multipart.FileHeader {
	if files := c.Files(field); len(files) > 0 {
		return files[0]
	}
	return nil
}

// ─── Categories ───────────────────────────────────────────────────────────────

func (tc *TaxonomyController) Categories(c *ctx.Context) {
	list, err := tc.taxonomy.Categories(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (tc *TaxonomyController) Category(c *ctx.Context) {
	cat, err := tc.taxonomy.Category(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cat)
}

func (tc *TaxonomyController) StoreCategory(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindMultipart("data", maxFormMemory, &in) {
		return
	}
	cat, err := tc.taxonomy.CreateCategory(c.Context(), in, firstFile(c, "image"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(cat)
}

func (tc *TaxonomyController) UpdateCategory(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindMultipart("data", maxFormMemory, &in) {
		return
	}
	cat, err := tc.taxonomy.UpdateCategory(c.Context(), c.Param("id"), in, firstFile(c, "image"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cat)
}

func (tc *TaxonomyController) DestroyCategory(c *ctx.Context) {
	if err := tc.taxonomy.DeleteCategory(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Message("Category deleted", nil)
}

// ─── Colors ───────────────────────────────────────────────────────────────────

func (tc *TaxonomyController) Colors(c *ctx.Context) {
	list, err := tc.taxonomy.Colors(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (tc *TaxonomyController) StoreColor(c *ctx.Context) {
	var in services.ColorInput
	if !c.BindJSON(&in) {
		return
	}
	color, err := tc.taxonomy.CreateColor(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(color)
}

func (tc *TaxonomyController) UpdateColor(c *ctx.Context) {
	var in services.ColorInput
	if !c.BindJSON(&in) {
		return
	}
	color, err := tc.taxonomy.UpdateColor(c.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(color)
}

func (tc *TaxonomyController) DestroyColor(c *ctx.Context) {
	if err := tc.taxonomy.DeleteColor(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Message("Color deleted", nil)
}

// ─── Sizes ────────────────────────────────────────────────────────────────────

func (tc *TaxonomyController) Sizes(c *ctx.Context) {
	list, err := tc.taxonomy.Sizes(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (tc *TaxonomyController) StoreSize(c *ctx.Context) {
	var in services.SizeInput
	if !c.BindJSON(&in) {
		return
	}
	size, err := tc.taxonomy.CreateSize(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(size)
}

func (tc *TaxonomyController) UpdateSize(c *ctx.Context) {
	var in services.SizeInput
	if !c.BindJSON(&in) {
		return
	}
	size, err := tc.taxonomy.UpdateSize(c.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(size)
}

func (tc *TaxonomyController) DestroySize(c *ctx.Context) {
	if err := tc.taxonomy.DeleteSize(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Message("Size deleted", nil)
}
