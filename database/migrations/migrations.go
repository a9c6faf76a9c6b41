// Package migrations holds the storefront schema. Importing it registers
// every migration with pkg/migration.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_colors_table", tables{&models.Color{}})
	migration.Register("20260101000001_create_sizes_table", tables{&models.Size{}})
	migration.Register("20260101000002_create_categories_table", tables{&models.Category{}})
	migration.Register("20260101000003_create_users_table", tables{&models.User{}})
	migration.Register("20260101000004_create_products_tables", tables{&models.Product{}, &models.Variant{}})
	migration.Register("20260101000005_create_inventory_records_table", tables{&models.InventoryRecord{}})
	migration.Register("20260101000006_create_orders_tables", tables{&models.Order{}, &models.OrderItem{}})
}

// tables creates its models on Up and drops them, last first, on Down.
type tables []interface{}

func (t tables) Up(db *gorm.DB) error {
	return db.AutoMigrate(t...)
}

func (t tables) Down(db *gorm.DB) error {
	for i := len(t) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(t[i]); err != nil {
			return err
		}
	}
	return nil
}

// All is every model in creation order; tests use it to build a schema
// without the tracking table.
func All() []interface{} {
	return []interface{}{
		&models.Color{}, &models.Size{}, &models.Category{}, &models.User{},
		&models.Product{}, &models.Variant{}, &models.InventoryRecord{},
		&models.Order{}, &models.OrderItem{},
	}
}
