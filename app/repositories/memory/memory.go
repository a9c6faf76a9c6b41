// Package memory is an in-process Store. Each repository guards its data
// with a mutex, which is what makes stock updates atomic here. It backs
// DB_DRIVER=memory and the tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

// New returns an empty Store.
func New() *repositories.Store {
	return &repositories.Store{
		Backend: "memory",
		Products: &productRepo{
			byID: map[string]*models.Product{},
		},
		Categories: newTable(repositories.CategoryKey, map[string]func(*models.Category) string{
			"slug": func(c *models.Category) string { return c.Slug },
		}),
		Colors: newTable(repositories.ColorKey, map[string]func(*models.Color) string{
			"name": func(c *models.Color) string { return c.Name },
		}),
		Sizes: newTable(repositories.SizeKey, map[string]func(*models.Size) string{
			"name": func(s *models.Size) string { return s.Name },
		}),
		Users: newTable(repositories.UserKey, map[string]func(*models.User) string{
			"email":    func(u *models.User) string { return u.Email },
			"username": func(u *models.User) string { return u.Username },
		}),
		Inventory: &inventoryRepo{},
		Orders:    &orderRepo{byID: map[string]*models.Order{}},
		Conn:      nopConn{},
	}
}

type nopConn struct{}

func (nopConn) Ping(context.Context) error  { return nil }
func (nopConn) Close(context.Context) error { return nil }

// table is a generic keyed collection for records without nested slices.
// Every field listed in unique is enforced unique and can be used by FindBy.
type table[T any] struct {
	mu     sync.RWMutex
	key    func(*T) string
	unique map[string]func(*T) string
	rows   map[string]T
	order  []string
}

func newTable[T any](key func(*T) string, unique map[string]func(*T) string) *table[T] {
	return &table[T]{key: key, unique: unique, rows: map[string]T{}}
}

func (t *table[T]) taken(v *T) bool {
	id := t.key(v)
	for _, field := range t.unique {
		want := field(v)
		for rid, row := range t.rows {
			if rid != id && field(&row) == want {
				return true
			}
		}
	}
	return false
}

func (t *table[T]) Create(_ context.Context, v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.key(v)
	if _, ok := t.rows[id]; ok || t.taken(v) {
		return repositories.ErrDuplicate
	}
	t.rows[id] = *v
	t.order = append(t.order, id)
	return nil
}

func (t *table[T]) Update(_ context.Context, v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.key(v)
	if _, ok := t.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	if t.taken(v) {
		return repositories.ErrDuplicate
	}
	t.rows[id] = *v
	return nil
}

func (t *table[T]) Delete(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(t.rows, id)
	t.order = without(t.order, id)
	return nil
}

func (t *table[T]) Get(_ context.Context, id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &row, nil
}

func (t *table[T]) FindBy(_ context.Context, field, value string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	get, ok := t.unique[field]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for _, id := range t.order {
		row := t.rows[id]
		if get(&row) == value {
			return &row, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (t *table[T]) List(_ context.Context) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out, nil
}

func (t *table[T]) Paginate(_ context.Context, p repositories.Page) ([]T, int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	newest := make([]T, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		newest = append(newest, t.rows[t.order[i]])
	}
	return window(newest, p), int64(len(newest)), nil
}

func window[T any](all []T, p repositories.Page) []T {
	if p.Limit <= 0 {
		return all
	}
	start := p.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
