package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type orderRepo struct {
	db      *gorm.DB
	backend string
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	defer observe(r.backend, "orders.insert")()
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		o.Items[i].Position = i
	}
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

func (r *orderRepo) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", byPosition)
}

func (r *orderRepo) Get(ctx context.Context, id string) (*models.Order, error) {
	defer observe(r.backend, "orders.find_one")()
	var o models.Order
	if err := r.withItems(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, p repositories.Page) ([]models.Order, int64, error) {
	defer observe(r.backend, "orders.paginate")()
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []models.Order{}
	err := paged(r.withItems(ctx).Order(newestFirst), p).Find(&out).Error
	return out, total, err
}

func (r *orderRepo) ForUser(ctx context.Context, userID string) ([]models.Order, error) {
	defer observe(r.backend, "orders.find")()
	out := []models.Order{}
	err := r.withItems(ctx).Where("user_id = ?", userID).Order(newestFirst).Find(&out).Error
	return out, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	defer observe(r.backend, "orders.update_status")()
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrConditionFailed
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	defer observe(r.backend, "orders.delete")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}
