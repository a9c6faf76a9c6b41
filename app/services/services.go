// Package services holds the storefront's business rules. Handlers call
// services; services call the repositories and never see HTTP.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/upload"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Store   *repositories.Store
	Cache   cache.Store
	Events  *event.Dispatcher
	Uploads *upload.Saver

	LowStockThreshold int
	CartTTL           time.Duration
}

// Services is the set of services built over one Deps.
type Services struct {
	Inventory *InventoryService
	Orders    *OrderService
	Catalog   *CatalogService
	Taxonomy  *TaxonomyService
	Users     *UserService
	Auth      *AuthService
	Cart      *CartService
}

// New builds every service and registers the event listeners on d.Events.
func New(d Deps) *Services {
	if d.Events == nil {
		d.Events = event.NewDispatcher()
	}
	if d.Cache == nil {
		d.Cache = cache.NewMemory()
	}
	if d.CartTTL <= 0 {
		d.CartTTL = 7 * 24 * time.Hour
	}
	RegisterListeners(d.Events, d.LowStockThreshold)

	inv := &InventoryService{store: d.Store, events: d.Events}
	tax := &TaxonomyService{store: d.Store, cache: d.Cache, uploads: d.Uploads}
	users := &UserService{store: d.Store}
	orders := &OrderService{store: d.Store, ledger: inv, events: d.Events}

	return &Services{
		Inventory: inv,
		Orders:    orders,
		Catalog:   &CatalogService{store: d.Store, ledger: inv, taxonomy: tax, uploads: d.Uploads},
		Taxonomy:  tax,
		Users:     users,
		Auth:      &AuthService{users: users},
		Cart:      &CartService{store: d.Store, cache: d.Cache, orders: orders, ttl: d.CartTTL},
	}
}

func newID() string { return uuid.NewString() }

func now() time.Time { return time.Now().UTC() }

// actor is the id of the authenticated caller, or "system".
func actor(ctx context.Context) string {
	if id, ok := auth.IdentityFrom(ctx); ok && id.UserID != "" {
		return id.UserID
	}
	return "system"
}

// notFound turns a repository miss into a NotFoundError for entity.
func notFound(err error, entity, id string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// detached keeps request values but survives cancellation, for writes that
// undo a partially applied change.
func detached(ctx context.Context) context.Context { return context.WithoutCancel(ctx) }

// Pagination bounds for list endpoints.
const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// PageOf clamps user-supplied paging values.
func PageOf(page, limit int) repositories.Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return repositories.Page{Page: page, Limit: limit}
}
