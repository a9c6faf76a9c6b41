// Package sqlstore keeps the storefront in a relational database through
// gorm. Stock changes are single UPDATE statements guarded in their WHERE
// clause and checked through RowsAffected.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// New wires the repositories onto an open gorm connection. The schema is
// created by the migrations in database/migrations.
func New(db *gorm.DB) *repositories.Store {
	name := db.Dialector.Name()
	return &repositories.Store{
		Backend:    name,
		Products:   &productRepo{db: db, backend: name},
		Categories: newTable(db, name, "categories", repositories.CategoryKey),
		Colors:     newTable(db, name, "colors", repositories.ColorKey),
		Sizes:      newTable(db, name, "sizes", repositories.SizeKey),
		Users:      newTable(db, name, "users", repositories.UserKey),
		Inventory:  &inventoryRepo{db: db, backend: name},
		Orders:     &orderRepo{db: db, backend: name},
		Conn:       conn{db},
	}
}

type conn struct{ db *gorm.DB }

func (c conn) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c conn) Close(context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func observe(backend, op string) func() {
	start := time.Now()
	return func() { metrics.ObserveDBQuery(backend, op, start) }
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), uniqueViolation(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	}
	return err
}

// uniqueViolation catches drivers that do not translate their errors.
func uniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func paged(q *gorm.DB, p repositories.Page) *gorm.DB {
	if p.Limit > 0 {
		q = q.Offset(p.Offset()).Limit(p.Limit)
	}
	return q
}

const (
	newestFirst = "created_at DESC, id DESC"
	oldestFirst = "created_at ASC, id ASC"
)

// table is the generic CRUD repository over one model table.
type table[T any] struct {
	db      *gorm.DB
	backend string
	name    string
	key     func(*T) string
}

func newTable[T any](db *gorm.DB, backend, name string, key func(*T) string) *table[T] {
	return &table[T]{db: db, backend: backend, name: name, key: key}
}

func (t *table[T]) Create(ctx context.Context, v *T) error {
	defer observe(t.backend, t.name+".insert")()
	return translate(t.db.WithContext(ctx).Create(v).Error)
}

func (t *table[T]) Update(ctx context.Context, v *T) error {
	defer observe(t.backend, t.name+".update")()
	id := t.key(v)
	res := t.db.WithContext(ctx).Model(v).Where("id = ?", id).Select("*").Updates(v)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := t.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repositories.ErrNotFound
		}
	}
	return nil
}

func (t *table[T]) Delete(ctx context.Context, id string) error {
	defer observe(t.backend, t.name+".delete")()
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (t *table[T]) Get(ctx context.Context, id string) (*T, error) {
	return t.FindBy(ctx, "id", id)
}

func (t *table[T]) FindBy(ctx context.Context, field, value string) (*T, error) {
	defer observe(t.backend, t.name+".find_one")()
	var v T
	err := t.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		First(&v).Error
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	defer observe(t.backend, t.name+".find")()
	out := []T{}
	err := t.db.WithContext(ctx).Order(oldestFirst).Find(&out).Error
	return out, err
}

func (t *table[T]) Paginate(ctx context.Context, p repositories.Page) ([]T, int64, error) {
	defer observe(t.backend, t.name+".paginate")()
	var total int64
	if err := t.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []T{}
	err := paged(t.db.WithContext(ctx).Order(newestFirst), p).Find(&out).Error
	return out, total, err
}
