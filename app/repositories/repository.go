// Package repositories defines the persistence contracts of the storefront.
// Backends live in the memory, mongostore and sqlstore subpackages; every
// backend honours the same conditional-update semantics for stock.
package repositories

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/storefront/app/models"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrConditionFailed is returned when a conditional update matched the
	// record but not its guard: not enough stock, or a value that changed
	// since it was read.
	ErrConditionFailed = errors.New("condition failed")
)

// Page selects one page of a list. Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Repository is the plain CRUD contract shared by the taxonomy and user
// collections. FindBy looks up a unique single-word field such as "slug",
// "name", "email" or "username".
type Repository[T any] interface {
	Create(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*T, error)
	FindBy(ctx context.Context, field, value string) (*T, error)
	// List returns every record, oldest first.
	List(ctx context.Context) ([]T, error)
	// Paginate returns one page, newest first, and the total count.
	Paginate(ctx context.Context, p Page) ([]T, int64, error)
}

// ProductFilter narrows a product listing. Search matches name, description
// and short description case-insensitively.
type ProductFilter struct {
	CategoryID string
	Search     string
	Page       Page
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	// Update writes the product fields and the variant set. Variants that
	// already exist keep their stored quantity; new variants are inserted
	// with the quantity they carry; variants missing from p are removed.
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	// Related lists products sharing any of categoryIDs, newest first,
	// excluding excludeID.
	Related(ctx context.Context, categoryIDs []string, excludeID string, limit int) ([]models.Product, error)

	// IncrementVariant adds delta to a variant's quantity only if the result
	// stays >= 0, and returns the new quantity. A refused update returns
	// ErrConditionFailed and changes nothing.
	IncrementVariant(ctx context.Context, productID, variantID string, delta int) (int, error)
	// SetVariantQuantity sets the quantity to `to` only if it currently
	// equals `from`.
	SetVariantQuantity(ctx context.Context, productID, variantID string, from, to int) error

	// CountVariantRefs counts variants using the color (or size) id. Pass
	// "" for the one not being checked.
	CountVariantRefs(ctx context.Context, colorID, sizeID string) (int64, error)
	// RemoveCategory unlinks a category from every product.
	RemoveCategory(ctx context.Context, categoryID string) error
}

type InventoryRepository interface {
	Append(ctx context.Context, recs ...*models.InventoryRecord) error
	Get(ctx context.Context, id string) (*models.InventoryRecord, error)
	// ForProduct lists a product's records, newest first.
	ForProduct(ctx context.Context, productID string) ([]models.InventoryRecord, error)
	// Latest returns a variant's newest record.
	Latest(ctx context.Context, variantID string) (*models.InventoryRecord, error)
	List(ctx context.Context, p Page) ([]models.InventoryRecord, int64, error)
	UpdateReason(ctx context.Context, id, reason string) error
	Delete(ctx context.Context, ids ...string) error
	DeleteForProduct(ctx context.Context, productID string) error
	DeleteForVariants(ctx context.Context, variantIDs ...string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, p Page) ([]models.Order, int64, error)
	// ForUser lists a user's orders, newest first.
	ForUser(ctx context.Context, userID string) ([]models.Order, error)
	// UpdateStatus moves an order from one status to another only if it
	// is still in `from`.
	UpdateStatus(ctx context.Context, id, from, to string) error
	Delete(ctx context.Context, id string) error
}

// Conn is the lifecycle of the backing connection.
type Conn interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Store bundles one backend's repositories.
type Store struct {
	Backend    string
	Products   ProductRepository
	Categories Repository[models.Category]
	Colors     Repository[models.Color]
	Sizes      Repository[models.Size]
	Users      Repository[models.User]
	Inventory  InventoryRepository
	Orders     OrderRepository
	Conn       Conn
}

func (s *Store) Ping(ctx context.Context) error {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Close(ctx)
}

// Key functions used by the backends to address records.
func CategoryKey(c *models.Category) string { return c.ID }
func ColorKey(c *models.Color) string       { return c.ID }
func SizeKey(s *models.Size) string         { return s.ID }
func UserKey(u *models.User) string         { return u.ID }
