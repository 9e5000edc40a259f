package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/arvellum/storefront/pkg/config"
	"github.com/arvellum/storefront/pkg/db"
	"github.com/arvellum/storefront/pkg/db/models"
	"github.com/arvellum/storefront/pkg/logger"
)

// MaybeRunDev brings the schema up automatically when running in dev mode with
// the auto-migrate flag set. SQLite gets GORM AutoMigrate (goose migrations are
// Postgres SQL); Postgres gets the versioned goose migrations.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.FeatureFlags.UseSQLite || strings.EqualFold(cfg.DB.Driver, "sqlite") {
		logg.Info(ctx, "running GORM auto-migration (sqlite dev mode)")
		return AutoMigrate(client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}

// AutoMigrate creates the schema from the GORM models. Test helper and SQLite
// dev path; production schema comes from the goose migrations.
func AutoMigrate(client *db.Client) error {
	return client.DB().AutoMigrate(
		&models.Product{},
		&models.Discount{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderLineItem{},
	)
}
