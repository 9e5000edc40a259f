package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arvellum/storefront/pkg/config"
	"github.com/arvellum/storefront/pkg/db"
	"github.com/arvellum/storefront/pkg/db/models"
	"github.com/arvellum/storefront/pkg/enums"
	"github.com/arvellum/storefront/pkg/logger"
	"github.com/arvellum/storefront/pkg/migrate"
)

// Dev seed data: a small catalog and two discount codes, one of each type.
var seedProducts = []models.Product{
	{ID: uuid.MustParse("7c9a1f0e-4b2d-4c5e-9a6f-1d8e2b3c4a5f"), Name: "Wool Socks", PriceCents: 1999, Stock: 10},
	{ID: uuid.MustParse("2e4b6d8a-0c1f-4e3a-b5d7-9f8e7c6b5a4d"), Name: "Beanie", PriceCents: 1250, Stock: 8},
	{ID: uuid.MustParse("5a3c7e9b-1d2f-4a6c-8e0b-3f5d7a9c1e2b"), Name: "Canvas Tote", PriceCents: 2450, Stock: 15},
	{ID: uuid.MustParse("9f1e3d5c-7b8a-4f2e-a0c4-6d8b0a2c4e6f"), Name: "Enamel Mug", PriceCents: 1575, Stock: 0},
}

var seedDiscounts = []models.Discount{
	{Code: "SAVE10", Type: enums.DiscountTypePercentage, Amount: decimal.NewFromInt(10)},
	{Code: "FIVER", Type: enums.DiscountTypeFlat, Amount: decimal.NewFromInt(5)},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to seed a prod database")
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	err = dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		for _, product := range seedProducts {
			p := product
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "price_cents", "stock"}),
			}).Create(&p).Error; err != nil {
				return fmt.Errorf("seeding product %s: %w", p.Name, err)
			}
		}
		for _, discount := range seedDiscounts {
			d := discount
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{"type", "amount"}),
			}).Create(&d).Error; err != nil {
				return fmt.Errorf("seeding discount %s: %w", d.Code, err)
			}
		}
		return nil
	})
	if err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"products":  len(seedProducts),
		"discounts": len(seedDiscounts),
	})
	logg.Info(ctx, "seed data applied")
}
