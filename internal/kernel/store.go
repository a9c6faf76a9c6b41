package kernel

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/repositories/memory"
	"github.com/shashiranjanraj/storefront/app/repositories/mongostore"
	"github.com/shashiranjanraj/storefront/app/repositories/sqlstore"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"

	// registers the schema migrations
	_ "github.com/shashiranjanraj/storefront/database/migrations"
)

// OpenStore connects the backend named by DB_DRIVER. For SQL drivers,
// pending migrations are applied when migrate is set.
func OpenStore(ctx context.Context, driver string, migrate bool, out io.Writer) (*repositories.Store, error) {
	switch {
	case driver == "memory":
		return memory.New(), nil
	case driver == "mongo":
		return mongostore.Open(ctx, config.MongoURI(), config.MongoDatabase())
	case database.IsSQL(driver):
		db, err := OpenSQL(driver)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := migration.New(db, out).Run(); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return sqlstore.New(db), nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
}

// OpenSQL opens the gorm connection for a SQL driver using DATABASE_DSN.
func OpenSQL(driver string) (*gorm.DB, error) {
	if !database.IsSQL(driver) {
		return nil, fmt.Errorf("DB_DRIVER %q is not a SQL driver", driver)
	}
	return database.Connect(driver, config.DatabaseDSN())
}
