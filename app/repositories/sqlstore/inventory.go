package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type inventoryRepo struct {
	db      *gorm.DB
	backend string
}

func (r *inventoryRepo) Append(ctx context.Context, recs ...*models.InventoryRecord) error {
	if len(recs) == 0 {
		return nil
	}
	defer observe(r.backend, "inventory.insert")()
	return translate(r.db.WithContext(ctx).Create(recs).Error)
}

func (r *inventoryRepo) Get(ctx context.Context, id string) (*models.InventoryRecord, error) {
	defer observe(r.backend, "inventory.find_one")()
	var rec models.InventoryRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *inventoryRepo) ForProduct(ctx context.Context, productID string) ([]models.InventoryRecord, error) {
	defer observe(r.backend, "inventory.find")()
	out := []models.InventoryRecord{}
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order(newestFirst).Find(&out).Error
	return out, err
}

func (r *inventoryRepo) Latest(ctx context.Context, variantID string) (*models.InventoryRecord, error) {
	defer observe(r.backend, "inventory.latest")()
	var rec models.InventoryRecord
	err := r.db.WithContext(ctx).Where("variant_id = ?", variantID).Order(newestFirst).First(&rec).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *inventoryRepo) List(ctx context.Context, p repositories.Page) ([]models.InventoryRecord, int64, error) {
	defer observe(r.backend, "inventory.paginate")()
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.InventoryRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []models.InventoryRecord{}
	err := paged(r.db.WithContext(ctx).Order(newestFirst), p).Find(&out).Error
	return out, total, err
}

func (r *inventoryRepo) UpdateReason(ctx context.Context, id, reason string) error {
	defer observe(r.backend, "inventory.update")()
	res := r.db.WithContext(ctx).Model(&models.InventoryRecord{}).Where("id = ?", id).UpdateColumn("reason", reason)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *inventoryRepo) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	defer observe(r.backend, "inventory.delete")()
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.InventoryRecord{}).Error
}

func (r *inventoryRepo) DeleteForProduct(ctx context.Context, productID string) error {
	defer observe(r.backend, "inventory.delete")()
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.InventoryRecord{}).Error
}

func (r *inventoryRepo) DeleteForVariants(ctx context.Context, variantIDs ...string) error {
	if len(variantIDs) == 0 {
		return nil
	}
	defer observe(r.backend, "inventory.delete")()
	return r.db.WithContext(ctx).Where("variant_id IN ?", variantIDs).Delete(&models.InventoryRecord{}).Error
}
