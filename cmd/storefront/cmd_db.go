package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

// bootSQL loads config and opens the SQL connection. Mongo and memory
// stores have no migrations.
func bootSQL() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return kernel.OpenSQL(config.DatabaseDriver())
}

func closeSQL(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close() //nolint:errcheck
	}
}

// storefront migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootSQL()
		if err != nil {
			return err
		}
		defer closeSQL(db)
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return migration.New(db, cmd.OutOrStdout()).Run()
	},
}

// storefront migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootSQL()
		if err != nil {
			return err
		}
		defer closeSQL(db)
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return migration.New(db, cmd.OutOrStdout()).Rollback()
	},
}

// storefront migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootSQL()
		if err != nil {
			return err
		}
		defer closeSQL(db)
		return migration.New(db, cmd.OutOrStdout()).Status()
	},
}

// storefront db:seed
var seedCmd = &cobra.Command{
	Use:     "db:seed",
	Aliases: []string{"seed"},
	Short:   "Fill the store with demo colors, sizes, categories and products",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		k, err := kernel.Boot(ctx, true, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer k.Close(ctx)

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(ctx, k.Services, cmd.OutOrStdout())
	},
}
