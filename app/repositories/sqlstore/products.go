package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type productRepo struct {
	db      *gorm.DB
	backend string
}

func byPosition(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }

// categoryPattern matches an id inside the JSON-serialized categories column.
func categoryPattern(id string) string { return fmt.Sprintf(`%%"%s"%%`, id) }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	defer observe(r.backend, "products.insert")()
	for i := range p.Variants {
		p.Variants[i].ProductID = p.ID
		p.Variants[i].Position = i
	}
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	defer observe(r.backend, "products.update")()

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{ID: p.ID}).
			Select("Name", "Description", "ShortDescription", "Images", "Categories", "Sale", "UpdatedAt").
			Updates(p)
		if res.Error != nil {
			return res.Error
		}

		var existing []string
		if err := tx.Model(&models.Variant{}).Where("product_id = ?", p.ID).Pluck("id", &existing).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 && len(existing) == 0 {
			var n int64
			if err := tx.Model(&models.Product{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return repositories.ErrNotFound
			}
		}
		known := make(map[string]bool, len(existing))
		for _, id := range existing {
			known[id] = true
		}

		keep := make([]string, 0, len(p.Variants))
		for _, v := range p.Variants {
			keep = append(keep, v.ID)
		}
		drop := tx.Where("product_id = ?", p.ID)
		if len(keep) > 0 {
			drop = drop.Where("id NOT IN ?", keep)
		}
		if err := drop.Delete(&models.Variant{}).Error; err != nil {
			return err
		}

		for i := range p.Variants {
			v := &p.Variants[i]
			v.ProductID = p.ID
			v.Position = i
			if known[v.ID] {
				err := tx.Model(&models.Variant{}).Where("id = ? AND product_id = ?", v.ID, p.ID).
					Updates(map[string]interface{}{
						"color_id":   v.ColorID,
						"size_id":    v.SizeID,
						"price":      v.Price,
						"cost_price": v.CostPrice,
						"position":   v.Position,
					}).Error
				if err != nil {
					return err
				}
				continue
			}
			if err := tx.Create(v).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	defer observe(r.backend, "products.delete")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Variant{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}

func (r *productRepo) Get(ctx context.Context, id string) (*models.Product, error) {
	defer observe(r.backend, "products.find_one")()
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Variants", byPosition).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, f repositories.ProductFilter) ([]models.Product, int64, error) {
	defer observe(r.backend, "products.find")()

	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.CategoryID != "" {
		q = q.Where("categories LIKE ?", categoryPattern(f.CategoryID))
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(short_description) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []models.Product{}
	err := paged(q.Preload("Variants", byPosition).Order(newestFirst), f.Page).Find(&out).Error
	return out, total, err
}

func (r *productRepo) Related(ctx context.Context, categoryIDs []string, excludeID string, limit int) ([]models.Product, error) {
	defer observe(r.backend, "products.related")()
	out := []models.Product{}
	if len(categoryIDs) == 0 {
		return out, nil
	}

	db := r.db.WithContext(ctx)
	anyOf := db.Where("categories LIKE ?", categoryPattern(categoryIDs[0]))
	for _, id := range categoryIDs[1:] {
		anyOf = anyOf.Or("categories LIKE ?", categoryPattern(id))
	}
	q := db.Where("id <> ?", excludeID).Where(anyOf).Preload("Variants", byPosition).Order(newestFirst)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *productRepo) variantExists(tx *gorm.DB, productID, variantID string) (bool, error) {
	var n int64
	err := tx.Model(&models.Variant{}).Where("id = ? AND product_id = ?", variantID, productID).Count(&n).Error
	return n > 0, err
}

func (r *productRepo) IncrementVariant(ctx context.Context, productID, variantID string, delta int) (int, error) {
	defer observe(r.backend, "products.increment_variant")()

	var after int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Variant{}).
			Where("id = ? AND product_id = ? AND quantity + ? >= 0", variantID, productID, delta).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			ok, err := r.variantExists(tx, productID, variantID)
			if err != nil {
				return err
			}
			if !ok {
				return repositories.ErrNotFound
			}
			return repositories.ErrConditionFailed
		}
		return tx.Model(&models.Variant{}).Select("quantity").Where("id = ?", variantID).Scan(&after).Error
	})
	return after, err
}

func (r *productRepo) SetVariantQuantity(ctx context.Context, productID, variantID string, from, to int) error {
	defer observe(r.backend, "products.set_variant_quantity")()

	db := r.db.WithContext(ctx)
	if from == to {
		// some drivers report zero affected rows for a no-op update
		var cur int
		res := db.Model(&models.Variant{}).Select("quantity").
			Where("id = ? AND product_id = ?", variantID, productID).Scan(&cur)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		if cur != from {
			return repositories.ErrConditionFailed
		}
		return nil
	}

	res := db.Model(&models.Variant{}).
		Where("id = ? AND product_id = ? AND quantity = ?", variantID, productID, from).
		UpdateColumn("quantity", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	ok, err := r.variantExists(db, productID, variantID)
	if err != nil {
		return err
	}
	if !ok {
		return repositories.ErrNotFound
	}
	return repositories.ErrConditionFailed
}

func (r *productRepo) CountVariantRefs(ctx context.Context, colorID, sizeID string) (int64, error) {
	defer observe(r.backend, "products.count_refs")()
	if colorID == "" && sizeID == "" {
		return 0, nil
	}
	q := r.db.WithContext(ctx).Model(&models.Variant{})
	if colorID != "" {
		q = q.Where("color_id = ?", colorID)
	}
	if sizeID != "" {
		q = q.Where("size_id = ?", sizeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *productRepo) RemoveCategory(ctx context.Context, categoryID string) error {
	defer observe(r.backend, "products.remove_category")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ps []models.Product
		if err := tx.Where("categories LIKE ?", categoryPattern(categoryID)).Find(&ps).Error; err != nil {
			return err
		}
		for i := range ps {
			p := &ps[i]
			kept := p.Categories[:0]
			for _, c := range p.Categories {
				if c != categoryID {
					kept = append(kept, c)
				}
			}
			p.Categories = kept
			if err := tx.Model(p).Select("Categories").Updates(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
