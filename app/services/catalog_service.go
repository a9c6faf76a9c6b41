package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/collection"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/upload"
)

// MaxProductImages caps the images accepted in one request.
const MaxProductImages = 10

const similarLimit = 8

// VariantInput describes one variant in a create or update request. On
// update, a variant is matched by ID or else by its (color, size) pair;
// a nil Quantity keeps the stored stock.
type VariantInput struct {
	ID        string  `json:"id"`
	ColorID   string  `json:"colorId"   validate:"required"`
	SizeID    string  `json:"sizeId"    validate:"required"`
	Price     float64 `json:"price"     validate:"gt=0"`
	CostPrice float64 `json:"costPrice" validate:"gte=0"`
	Quantity  *int    `json:"quantity"  validate:"gte=0,lte=1000000"`
}

type ProductInput struct {
	Name             string         `json:"name"             validate:"required,min=2,max=255"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"shortDescription" validate:"max=500"`
	Categories       []string       `json:"categories"`
	Sale             string         `json:"sale"             validate:"max=100"`
	Variants         []VariantInput `json:"variants"         validate:"required,min=1,dive"`
	// RemoveImages lists stored image paths to drop on update.
	RemoveImages []string `json:"removeImages"`
}

// ProductQuery filters a product listing.
type ProductQuery struct {
	CategoryID string
	Search     string
	Page       repositories.Page
}

// CatalogService manages products and decorates them for display.
type CatalogService struct {
	store    *repositories.Store
	ledger   *InventoryService
	taxonomy *TaxonomyService
	uploads  *upload.Saver
}

// validateProduct checks the parts of in that need the store: that colors,
// sizes and categories exist and that no (color, size) pair repeats.
func (s *CatalogService) validateProduct(ctx context.Context, in *ProductInput) error {
	if err := check(in); err != nil {
		return err
	}
	colors, err := s.taxonomy.Colors(ctx)
	if err != nil {
		return err
	}
	sizes, err := s.taxonomy.Sizes(ctx)
	if err != nil {
		return err
	}
	cats, err := s.taxonomy.Categories(ctx)
	if err != nil {
		return err
	}
	colorByID := collection.KeyBy(colors, func(c models.Color) string { return c.ID })
	sizeByID := collection.KeyBy(sizes, func(sz models.Size) string { return sz.ID })
	catByID := collection.KeyBy(cats, func(c models.Category) string { return c.ID })

	errs := map[string]string{}
	seen := map[string]int{}
	for i, v := range in.Variants {
		if _, ok := colorByID[v.ColorID]; !ok {
			errs[fmt.Sprintf("variants.%d.colorId", i)] = "The selected color does not exist."
		}
		if _, ok := sizeByID[v.SizeID]; !ok {
			errs[fmt.Sprintf("variants.%d.sizeId", i)] = "The selected size does not exist."
		}
		pair := v.ColorID + "|" + v.SizeID
		if j, dup := seen[pair]; dup {
			errs[fmt.Sprintf("variants.%d", i)] = fmt.Sprintf("Duplicates the color and size of variant %d.", j)
		}
		seen[pair] = i
	}
	for i, c := range in.Categories {
		if _, ok := catByID[c]; !ok {
			errs[fmt.Sprintf("categories.%d", i)] = "The selected category does not exist."
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func (s *CatalogService) saveImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > MaxProductImages {
		return nil, invalid("images", fmt.Sprintf("At most %d images may be uploaded.", MaxProductImages))
	}
	if s.uploads == nil {
		return nil, invalid("images", "Image uploads are not configured.")
	}
	paths, err := s.uploads.Save(ctx, "products", files)
	if err != nil {
		return nil, uploadErr("images", err)
	}
	return paths, nil
}

func (s *CatalogService) removeFiles(ctx context.Context, paths ...string) {
	if s.uploads != nil && len(paths) > 0 {
		s.uploads.Remove(detached(ctx), paths...)
	}
}

func quantityOf(v VariantInput) int {
	if v.Quantity == nil {
		return 0
	}
	return *v.Quantity
}

// CreateProduct stores a product and writes an initial ledger record for
// every variant that starts with stock.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, images []*multipart.FileHeader) (*models.Product, error) {
	if err := s.validateProduct(ctx, &in); err != nil {
		return nil, err
	}
	paths, err := s.saveImages(ctx, images)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:               newID(),
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Images:           append([]string{}, paths...),
		Categories:       collection.Unique(append([]string{}, in.Categories...)),
		Sale:             in.Sale,
		CreatedAt:        now(),
	}
	p.UpdatedAt = p.CreatedAt
	if p.Categories == nil {
		p.Categories = []string{}
	}
	for _, v := range in.Variants {
		p.Variants = append(p.Variants, models.Variant{
			ID:        newID(),
			ProductID: p.ID,
			ColorID:   v.ColorID,
			SizeID:    v.SizeID,
			Price:     v.Price,
			CostPrice: v.CostPrice,
			Quantity:  quantityOf(v),
		})
	}

	if err := s.store.Products.Create(ctx, p); err != nil {
		s.removeFiles(ctx, paths...)
		return nil, fmt.Errorf("create product: %w", err)
	}

	var recs []*models.InventoryRecord
	for _, v := range p.Variants {
		if v.Quantity > 0 {
			recs = append(recs, s.initial(ctx, p.ID, v))
		}
	}
	if err := s.ledger.record(ctx, recs...); err != nil {
		if derr := s.store.Products.Delete(detached(ctx), p.ID); derr != nil {
			logger.WithCtx(ctx).Error("product without initial records not removed", "product_id", p.ID, "error", derr)
		}
		s.removeFiles(ctx, paths...)
		return nil, err
	}
	return s.decorateOne(ctx, p)
}

func (s *CatalogService) initial(ctx context.Context, productID string, v models.Variant) *models.InventoryRecord {
	r := newRecord(productID, v.ID, models.MovementAdd, models.SourceInitial, v.Quantity, v.Quantity, v.Quantity)
	r.CreatedBy, r.Reason = actor(ctx), "initial stock"
	return r
}

// UpdateProduct replaces the product fields and its variant set. Kept
// variants keep their stock unless a different quantity is sent, in which
// case the change goes through the ledger as a correction. New images are
// appended.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput, images []*multipart.FileHeader) (*models.Product, error) {
	cur, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	if err := s.validateProduct(ctx, &in); err != nil {
		return nil, err
	}
	if len(cur.Images)+len(images)-len(in.RemoveImages) > MaxProductImages*2 {
		return nil, invalid("images", "Too many images on this product.")
	}
	paths, err := s.saveImages(ctx, images)
	if err != nil {
		return nil, err
	}

	drop := map[string]bool{}
	for _, img := range in.RemoveImages {
		drop[img] = true
	}
	kept := collection.Reject(cur.Images, func(img string) bool { return drop[img] })

	next := &models.Product{
		ID:               cur.ID,
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Images:           append(append([]string{}, kept...), paths...),
		Categories:       collection.Unique(append([]string{}, in.Categories...)),
		Sale:             in.Sale,
		CreatedAt:        cur.CreatedAt,
		UpdatedAt:        now(),
	}
	if next.Categories == nil {
		next.Categories = []string{}
	}

	type correction struct {
		variantID string
		from, to  int
	}
	var (
		corrections []correction
		fresh       []models.Variant
		keep        = map[string]bool{}
	)
	for _, in := range in.Variants {
		v := models.Variant{
			ProductID: cur.ID,
			ColorID:   in.ColorID,
			SizeID:    in.SizeID,
			Price:     in.Price,
			CostPrice: in.CostPrice,
		}
		old := s.match(cur, in)
		if old != nil && !keep[old.ID] {
			v.ID, v.Quantity = old.ID, old.Quantity
			keep[old.ID] = true
			if in.Quantity != nil && *in.Quantity != old.Quantity {
				corrections = append(corrections, correction{old.ID, old.Quantity, *in.Quantity})
			}
		} else {
			v.ID, v.Quantity = newID(), quantityOf(in)
			fresh = append(fresh, v)
		}
		next.Variants = append(next.Variants, v)
	}

	if err := s.store.Products.Update(ctx, next); err != nil {
		s.removeFiles(ctx, paths...)
		return nil, notFound(err, "product", id)
	}

	var removed []string
	for _, v := range cur.Variants {
		if !keep[v.ID] {
			removed = append(removed, v.ID)
		}
	}
	if err := s.store.Inventory.DeleteForVariants(ctx, removed...); err != nil {
		logger.WithCtx(ctx).Error("records of removed variants not deleted", "product_id", id, "error", err)
	}

	var recs []*models.InventoryRecord
	for _, v := range fresh {
		if v.Quantity > 0 {
			recs = append(recs, s.initial(ctx, id, v))
		}
	}
	if err := s.ledger.record(ctx, recs...); err != nil {
		s.emptyFresh(ctx, id, fresh)
		return nil, err
	}

	var firstErr error
	for _, c := range corrections {
		if _, err := s.ledger.adjust(ctx, id, c.variantID, c.from, c.to, models.SourceCorrection, "product update"); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	dropped := collection.Filter(cur.Images, func(img string) bool { return drop[img] })
	s.removeFiles(ctx, dropped...)

	if firstErr != nil {
		return nil, firstErr
	}
	return s.GetProduct(ctx, id)
}

// emptyFresh zeroes the stock of variants whose initial records could not
// be written, so the ledger still replays to the stored quantities.
func (s *CatalogService) emptyFresh(ctx context.Context, productID string, fresh []models.Variant) {
	ctx = detached(ctx)
	for _, v := range fresh {
		if v.Quantity == 0 {
			continue
		}
		if err := s.store.Products.SetVariantQuantity(ctx, productID, v.ID, v.Quantity, 0); err != nil {
			logger.WithCtx(ctx).Error("failed to zero variant without records",
				"product_id", productID, "variant_id", v.ID, "error", err)
		}
	}
}

// match finds the stored variant an input variant refers to.
func (s *CatalogService) match(cur *models.Product, in VariantInput) *models.Variant {
	if in.ID != "" {
		if v, ok := cur.FindVariant(in.ID); ok {
			return v
		}
	}
	for i := range cur.Variants {
		if cur.Variants[i].ColorID == in.ColorID && cur.Variants[i].SizeID == in.SizeID {
			return &cur.Variants[i]
		}
	}
	return nil
}

// DeleteProduct removes the product, its ledger and its stored images.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return notFound(err, "product", id)
	}
	if err := s.store.Products.Delete(ctx, id); err != nil {
		return notFound(err, "product", id)
	}
	if err := s.store.Inventory.DeleteForProduct(ctx, id); err != nil {
		logger.WithCtx(ctx).Error("ledger of deleted product not removed", "product_id", id, "error", err)
	}
	s.removeFiles(ctx, p.Images...)
	return nil
}

// GetProduct returns one decorated product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return s.decorateOne(ctx, p)
}

// ListProducts pages through products, newest first.
func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	ps, total, err := s.store.Products.List(ctx, repositories.ProductFilter{
		CategoryID: q.CategoryID,
		Search:     strings.TrimSpace(q.Search),
		Page:       q.Page,
	})
	if err != nil {
		return nil, 0, err
	}
	if err := s.decorate(ctx, ps); err != nil {
		return nil, 0, err
	}
	return ps, total, nil
}

// ByCategorySlug lists the products of the category with the given slug.
func (s *CatalogService) ByCategorySlug(ctx context.Context, sl string, page repositories.Page) ([]models.Product, int64, error) {
	c, err := s.taxonomy.CategoryBySlug(ctx, sl)
	if err != nil {
		return nil, 0, err
	}
	return s.ListProducts(ctx, ProductQuery{CategoryID: c.ID, Page: page})
}

// Search matches keyword against names and descriptions.
func (s *CatalogService) Search(ctx context.Context, keyword string, page repositories.Page) ([]models.Product, int64, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, 0, invalid("keyword", "The keyword field is required.")
	}
	return s.ListProducts(ctx, ProductQuery{Search: keyword, Page: page})
}

// Similar lists up to eight other products sharing a category with id.
func (s *CatalogService) Similar(ctx context.Context, id string) ([]models.Product, error) {
	p, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	if len(p.Categories) == 0 {
		return []models.Product{}, nil
	}
	ps, err := s.store.Products.Related(ctx, p.Categories, p.ID, similarLimit)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// VariantChoice answers a color/size selection on a product page.
type VariantChoice struct {
	Variant *models.Variant `json:"variant"`
	InStock bool            `json:"inStock"`
	Options Options         `json:"options"`
}

// FindVariant resolves q on product id.
func (s *CatalogService) FindVariant(ctx context.Context, id string, q VariantQuery) (*VariantChoice, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := ResolveVariant(p, q)
	if err != nil {
		return nil, err
	}
	return &VariantChoice{Variant: v, InStock: v.Quantity > 0, Options: AvailableOptions(p)}, nil
}

func (s *CatalogService) decorateOne(ctx context.Context, p *models.Product) (*models.Product, error) {
	ps := []models.Product{*p}
	if err := s.decorate(ctx, ps); err != nil {
		return nil, err
	}
	return &ps[0], nil
}

// decorate fills the display-only fields: color and size objects,
// discount, image URLs and category details.
func (s *CatalogService) decorate(ctx context.Context, ps []models.Product) error {
	if len(ps) == 0 {
		return nil
	}
	colors, err := s.taxonomy.Colors(ctx)
	if err != nil {
		return err
	}
	sizes, err := s.taxonomy.Sizes(ctx)
	if err != nil {
		return err
	}
	cats, err := s.taxonomy.Categories(ctx)
	if err != nil {
		return err
	}
	colorByID := collection.KeyBy(colors, func(c models.Color) string { return c.ID })
	sizeByID := collection.KeyBy(sizes, func(sz models.Size) string { return sz.ID })
	catByID := collection.KeyBy(cats, func(c models.Category) string { return c.ID })

	for i := range ps {
		p := &ps[i]
		if p.Images == nil {
			p.Images = []string{}
		}
		if p.Categories == nil {
			p.Categories = []string{}
		}
		if s.uploads != nil {
			p.ImageURLs = collection.Map(p.Images, s.uploads.Disk().URL)
		}
		p.CategoryDetails = []models.Category{}
		for _, id := range p.Categories {
			if c, ok := catByID[id]; ok {
				p.CategoryDetails = append(p.CategoryDetails, c)
			}
		}
		for j := range p.Variants {
			v := &p.Variants[j]
			if c, ok := colorByID[v.ColorID]; ok {
				v.Color = &c
			}
			if sz, ok := sizeByID[v.SizeID]; ok {
				v.Size = &sz
			}
			v.DiscountPercent = discountPercent(v.Price, v.CostPrice)
		}
	}
	return nil
}
