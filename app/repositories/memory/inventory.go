package memory

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

// inventoryRepo keeps records in append order, which is also createdAt order.
type inventoryRepo struct {
	mu   sync.RWMutex
	recs []models.InventoryRecord
}

func (r *inventoryRepo) Append(_ context.Context, recs ...*models.InventoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range recs {
		r.recs = append(r.recs, *rec)
	}
	return nil
}

func (r *inventoryRepo) Get(_ context.Context, id string) (*models.InventoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.recs {
		if r.recs[i].ID == id {
			rec := r.recs[i]
			return &rec, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *inventoryRepo) newest(keep func(*models.InventoryRecord) bool) []models.InventoryRecord {
	out := []models.InventoryRecord{}
	for i := len(r.recs) - 1; i >= 0; i-- {
		if keep(&r.recs[i]) {
			out = append(out, r.recs[i])
		}
	}
	return out
}

func (r *inventoryRepo) ForProduct(_ context.Context, productID string) ([]models.InventoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.newest(func(rec *models.InventoryRecord) bool { return rec.ProductID == productID }), nil
}

func (r *inventoryRepo) Latest(_ context.Context, variantID string) (*models.InventoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.recs) - 1; i >= 0; i-- {
		if r.recs[i].VariantID == variantID {
			rec := r.recs[i]
			return &rec, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *inventoryRepo) List(_ context.Context, p repositories.Page) ([]models.InventoryRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.newest(func(*models.InventoryRecord) bool { return true })
	return window(all, p), int64(len(all)), nil
}

func (r *inventoryRepo) UpdateReason(_ context.Context, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.recs {
		if r.recs[i].ID == id {
			r.recs[i].Reason = reason
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *inventoryRepo) remove(drop func(*models.InventoryRecord) bool) {
	kept := r.recs[:0]
	for _, rec := range r.recs {
		if !drop(&rec) {
			kept = append(kept, rec)
		}
	}
	r.recs = kept
}

func (r *inventoryRepo) Delete(_ context.Context, ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := toSet(ids)
	r.remove(func(rec *models.InventoryRecord) bool { return set[rec.ID] })
	return nil
}

func (r *inventoryRepo) DeleteForProduct(_ context.Context, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.remove(func(rec *models.InventoryRecord) bool { return rec.ProductID == productID })
	return nil
}

func (r *inventoryRepo) DeleteForVariants(_ context.Context, variantIDs ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := toSet(variantIDs)
	r.remove(func(rec *models.InventoryRecord) bool { return set[rec.VariantID] })
	return nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
