package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type orderRepo struct {
	mu    sync.RWMutex
	byID  map[string]*models.Order
	order []string
}

func cloneOrder(o *models.Order) models.Order {
	c := *o
	c.Items = append([]models.OrderItem(nil), o.Items...)
	return c
}

func (r *orderRepo) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[o.ID]; ok {
		return repositories.ErrDuplicate
	}
	c := cloneOrder(o)
	r.byID[o.ID] = &c
	r.order = append(r.order, o.ID)
	return nil
}

func (r *orderRepo) Get(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := cloneOrder(o)
	return &c, nil
}

func (r *orderRepo) collect(keep func(*models.Order) bool) []models.Order {
	out := []models.Order{}
	for i := len(r.order) - 1; i >= 0; i-- {
		if o := r.byID[r.order[i]]; keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

func (r *orderRepo) List(_ context.Context, p repositories.Page) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.collect(func(*models.Order) bool { return true })
	return window(all, p), int64(len(all)), nil
}

func (r *orderRepo) ForUser(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(o *models.Order) bool { return o.UserID == userID }), nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if o.Status != from {
		return repositories.ErrConditionFailed
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.byID, id)
	r.order = without(r.order, id)
	return nil
}
