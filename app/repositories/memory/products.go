package memory

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type productRepo struct {
	mu    sync.RWMutex
	byID  map[string]*models.Product
	order []string
}

func cloneProduct(p *models.Product) models.Product {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	c.Categories = append([]string(nil), p.Categories...)
	c.Variants = append([]models.Variant(nil), p.Variants...)
	c.ImageURLs = nil
	c.CategoryDetails = nil
	for i := range c.Variants {
		c.Variants[i].Color, c.Variants[i].Size, c.Variants[i].DiscountPercent = nil, nil, 0
	}
	return c
}

func (r *productRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return repositories.ErrDuplicate
	}
	c := cloneProduct(p)
	r.byID[p.ID] = &c
	r.order = append(r.order, p.ID)
	return nil
}

func (r *productRepo) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	next := cloneProduct(p)
	next.CreatedAt = cur.CreatedAt
	for i := range next.Variants {
		if old, ok := cur.FindVariant(next.Variants[i].ID); ok {
			next.Variants[i].Quantity = old.Quantity
		}
	}
	r.byID[p.ID] = &next
	return nil
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.byID, id)
	r.order = without(r.order, id)
	return nil
}

func (r *productRepo) Get(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := cloneProduct(p)
	return &c, nil
}

// newest walks products newest first, stopping when fn returns false.
func (r *productRepo) newest(fn func(p *models.Product) bool) {
	for i := len(r.order) - 1; i >= 0; i-- {
		if !fn(r.byID[r.order[i]]) {
			return
		}
	}
}

func (r *productRepo) List(_ context.Context, f repositories.ProductFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hits []models.Product
	r.newest(func(p *models.Product) bool {
		if f.CategoryID != "" && !p.HasCategory(f.CategoryID) {
			return true
		}
		if f.Search != "" && !containsFold(p.Name, f.Search) &&
			!containsFold(p.Description, f.Search) && !containsFold(p.ShortDescription, f.Search) {
			return true
		}
		hits = append(hits, cloneProduct(p))
		return true
	})
	return window(hits, f.Page), int64(len(hits)), nil
}

func (r *productRepo) Related(_ context.Context, categoryIDs []string, excludeID string, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Product{}
	r.newest(func(p *models.Product) bool {
		if p.ID == excludeID {
			return true
		}
		for _, c := range categoryIDs {
			if p.HasCategory(c) {
				out = append(out, cloneProduct(p))
				break
			}
		}
		return limit <= 0 || len(out) < limit
	})
	return out, nil
}

func (r *productRepo) variant(productID, variantID string) (*models.Variant, error) {
	p, ok := r.byID[productID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v, ok := p.FindVariant(variantID)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return v, nil
}

func (r *productRepo) IncrementVariant(_ context.Context, productID, variantID string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := r.variant(productID, variantID)
	if err != nil {
		return 0, err
	}
	if v.Quantity+delta < 0 {
		return v.Quantity, repositories.ErrConditionFailed
	}
	v.Quantity += delta
	return v.Quantity, nil
}

func (r *productRepo) SetVariantQuantity(_ context.Context, productID, variantID string, from, to int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := r.variant(productID, variantID)
	if err != nil {
		return err
	}
	if v.Quantity != from {
		return repositories.ErrConditionFailed
	}
	v.Quantity = to
	return nil
}

func (r *productRepo) CountVariantRefs(_ context.Context, colorID, sizeID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.byID {
		for _, v := range p.Variants {
			if (colorID != "" && v.ColorID == colorID) || (sizeID != "" && v.SizeID == sizeID) {
				n++
			}
		}
	}
	return n, nil
}

func (r *productRepo) RemoveCategory(_ context.Context, categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.byID {
		p.Categories = without(p.Categories, categoryID)
	}
	return nil
}
