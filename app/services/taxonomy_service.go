package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/slug"
	"github.com/shashiranjanraj/storefront/pkg/upload"
)

const (
	cacheCategories = "storefront:taxonomy:categories"
	cacheColors     = "storefront:taxonomy:colors"
	cacheSizes      = "storefront:taxonomy:sizes"
	taxonomyTTL     = 10 * time.Minute
)

type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type ColorInput struct {
	Name    string `json:"name"    validate:"required,max=60"`
	HexCode string `json:"hexCode" validate:"nullable,hexcolor"`
}

type SizeInput struct {
	Name      string `json:"name"      validate:"required,max=30"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

// TaxonomyService manages categories, colors and sizes. Full lists are
// cached and dropped on every write.
type TaxonomyService struct {
	store   *repositories.Store
	cache   cache.Store
	uploads *upload.Saver
}

func (s *TaxonomyService) forget(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, key); err != nil {
		logger.WithCtx(ctx).Warn("cache invalidation failed", "key", key, "error", err)
	}
}

// duplicate maps a unique-key clash to a ConflictError.
func duplicate(err error, format string, args ...any) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return conflict(format, args...)
	}
	return err
}

// ─── Categories ───────────────────────────────────────────────────────────────

func (s *TaxonomyService) Categories(ctx context.Context) ([]models.Category, error) {
	list, err := cache.Remember(ctx, s.cache, cacheCategories, taxonomyTTL, func() ([]models.Category, error) {
		return s.store.Categories.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.categoryURL(&list[i])
	}
	return list, nil
}

func (s *TaxonomyService) categoryURL(c *models.Category) {
	if c.Image != "" && s.uploads != nil {
		c.ImageURL = s.uploads.Disk().URL(c.Image)
	}
}

func (s *TaxonomyService) Category(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.store.Categories.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	s.categoryURL(c)
	return c, nil
}

func (s *TaxonomyService) CategoryBySlug(ctx context.Context, sl string) (*models.Category, error) {
	c, err := s.store.Categories.FindBy(ctx, "slug", sl)
	if err != nil {
		return nil, notFound(err, "category", sl)
	}
	s.categoryURL(c)
	return c, nil
}

// saveImage stores at most one category image and returns its path.
func (s *TaxonomyService) saveImage(ctx context.Context, image *multipart.FileHeader) (string, error) {
	if image == nil {
		return "", nil
	}
	if s.uploads == nil {
		return "", invalid("image", "Image uploads are not configured.")
	}
	paths, err := s.uploads.Save(ctx, "categories", []*multipart.FileHeader{image})
	if err != nil {
		return "", uploadErr("image", err)
	}
	return paths[0], nil
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, in CategoryInput, image *multipart.FileHeader) (*models.Category, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	sl := slug.FromName(in.Name, "category")
	if _, err := s.store.Categories.FindBy(ctx, "slug", sl); err == nil {
		return nil, conflict("a category with slug %q already exists", sl)
	}

	path, err := s.saveImage(ctx, image)
	if err != nil {
		return nil, err
	}
	c := &models.Category{
		ID:        newID(),
		Name:      strings.TrimSpace(in.Name),
		Slug:      sl,
		Image:     path,
		CreatedAt: now(),
	}
	c.UpdatedAt = c.CreatedAt
	if err := s.store.Categories.Create(ctx, c); err != nil {
		s.removeFiles(ctx, path)
		return nil, duplicate(err, "a category with slug %q already exists", sl)
	}
	s.forget(ctx, cacheCategories)
	s.categoryURL(c)
	return c, nil
}

// UpdateCategory renames a category and, when image is given, replaces its
// image.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id string, in CategoryInput, image *multipart.FileHeader) (*models.Category, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	c, err := s.store.Categories.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	sl := slug.FromName(in.Name, "category")
	if other, err := s.store.Categories.FindBy(ctx, "slug", sl); err == nil && other.ID != id {
		return nil, conflict("a category with slug %q already exists", sl)
	}

	path, err := s.saveImage(ctx, image)
	if err != nil {
		return nil, err
	}
	old := c.Image
	c.Name, c.Slug, c.UpdatedAt = strings.TrimSpace(in.Name), sl, now()
	if path != "" {
		c.Image = path
	}
	if err := s.store.Categories.Update(ctx, c); err != nil {
		s.removeFiles(ctx, path)
		return nil, duplicate(err, "a category with slug %q already exists", sl)
	}
	if path != "" {
		s.removeFiles(ctx, old)
	}
	s.forget(ctx, cacheCategories)
	s.categoryURL(c)
	return c, nil
}

// DeleteCategory removes a category and unlinks it from every product.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id string) error {
	c, err := s.store.Categories.Get(ctx, id)
	if err != nil {
		return notFound(err, "category", id)
	}
	if err := s.store.Products.RemoveCategory(ctx, id); err != nil {
		return err
	}
	if err := s.store.Categories.Delete(ctx, id); err != nil {
		return notFound(err, "category", id)
	}
	s.removeFiles(ctx, c.Image)
	s.forget(ctx, cacheCategories)
	return nil
}

func (s *TaxonomyService) removeFiles(ctx context.Context, paths ...string) {
	if s.uploads != nil {
		s.uploads.Remove(detached(ctx), paths...)
	}
}

// ─── Colors ───────────────────────────────────────────────────────────────────

func (s *TaxonomyService) Colors(ctx context.Context) ([]models.Color, error) {
	return cache.Remember(ctx, s.cache, cacheColors, taxonomyTTL, func() ([]models.Color, error) {
		return s.store.Colors.List(ctx)
	})
}

func (s *TaxonomyService) CreateColor(ctx context.Context, in ColorInput) (*models.Color, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if _, err := s.store.Colors.FindBy(ctx, "name", name); err == nil {
		return nil, conflict("color %q already exists", name)
	}
	c := &models.Color{ID: newID(), Name: name, HexCode: strings.ToLower(in.HexCode), CreatedAt: now()}
	if err := s.store.Colors.Create(ctx, c); err != nil {
		return nil, duplicate(err, "color %q already exists", name)
	}
	s.forget(ctx, cacheColors)
	return c, nil
}

func (s *TaxonomyService) UpdateColor(ctx context.Context, id string, in ColorInput) (*models.Color, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	c, err := s.store.Colors.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "color", id)
	}
	name := strings.TrimSpace(in.Name)
	if other, err := s.store.Colors.FindBy(ctx, "name", name); err == nil && other.ID != id {
		return nil, conflict("color %q already exists", name)
	}
	c.Name, c.HexCode = name, strings.ToLower(in.HexCode)
	if err := s.store.Colors.Update(ctx, c); err != nil {
		return nil, duplicate(err, "color %q already exists", name)
	}
	s.forget(ctx, cacheColors)
	return c, nil
}

// DeleteColor refuses while any variant still uses the color.
func (s *TaxonomyService) DeleteColor(ctx context.Context, id string) error {
	n, err := s.store.Products.CountVariantRefs(ctx, id, "")
	if err != nil {
		return err
	}
	if n > 0 {
		return conflict("color is used by %d product variant(s)", n)
	}
	if err := s.store.Colors.Delete(ctx, id); err != nil {
		return notFound(err, "color", id)
	}
	s.forget(ctx, cacheColors)
	return nil
}

// ─── Sizes ────────────────────────────────────────────────────────────────────

// Sizes are listed by sort order, then name.
func (s *TaxonomyService) Sizes(ctx context.Context) ([]models.Size, error) {
	list, err := cache.Remember(ctx, s.cache, cacheSizes, taxonomyTTL, func() ([]models.Size, error) {
		return s.store.Sizes.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return collection.SortBy(list, func(a, b models.Size) bool {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	}), nil
}

func (s *TaxonomyService) CreateSize(ctx context.Context, in SizeInput) (*models.Size, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if _, err := s.store.Sizes.FindBy(ctx, "name", name); err == nil {
		return nil, conflict("size %q already exists", name)
	}
	sz := &models.Size{ID: newID(), Name: name, SortOrder: in.SortOrder, CreatedAt: now()}
	if err := s.store.Sizes.Create(ctx, sz); err != nil {
		return nil, duplicate(err, "size %q already exists", name)
	}
	s.forget(ctx, cacheSizes)
	return sz, nil
}

func (s *TaxonomyService) UpdateSize(ctx context.Context, id string, in SizeInput) (*models.Size, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	sz, err := s.store.Sizes.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "size", id)
	}
	name := strings.TrimSpace(in.Name)
	if other, err := s.store.Sizes.FindBy(ctx, "name", name); err == nil && other.ID != id {
		return nil, conflict("size %q already exists", name)
	}
	sz.Name, sz.SortOrder = name, in.SortOrder
	if err := s.store.Sizes.Update(ctx, sz); err != nil {
		return nil, duplicate(err, "size %q already exists", name)
	}
	s.forget(ctx, cacheSizes)
	return sz, nil
}

// DeleteSize refuses while any variant still uses the size.
func (s *TaxonomyService) DeleteSize(ctx context.Context, id string) error {
	n, err := s.store.Products.CountVariantRefs(ctx, "", id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflict("size is used by %d product variant(s)", n)
	}
	if err := s.store.Sizes.Delete(ctx, id); err != nil {
		return notFound(err, "size", id)
	}
	s.forget(ctx, cacheSizes)
	return nil
}

// uploadErr reports a refused file as a validation failure on field.
func uploadErr(field string, err error) error {
	var fe *upload.FileError
	if errors.As(err, &fe) {
		return invalid(field, fe.Error())
	}
	return err
}
