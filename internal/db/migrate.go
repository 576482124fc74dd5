package db

import (
	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Item{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds a starter item catalog when the items table is empty
func Seed() error {
	var count int64
	if err := DB.Model(&model.Item{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Items already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding starter item catalog...")

	items := []model.Item{
		{
			Name:        "Wireless Headphones",
			Description: "Over-ear wireless headphones with noise cancelling",
			Price:       decimal.RequireFromString("79.99"),
			Status:      model.ItemStatusActive,
		},
		{
			Name:        "Mechanical Keyboard",
			Description: "Tenkeyless mechanical keyboard, brown switches",
			Price:       decimal.RequireFromString("34.99"),
			Status:      model.ItemStatusActive,
		},
		{
			Name:        "USB-C Hub",
			Description: "7-in-1 USB-C hub with HDMI and card reader",
			Price:       decimal.RequireFromString("24.50"),
			Status:      model.ItemStatusActive,
		},
		{
			Name:        "Discontinued Mouse Pad",
			Description: "No longer sold",
			Price:       decimal.RequireFromString("5.00"),
			Status:      model.ItemStatusInactive,
		},
	}

	for i := range items {
		if err := DB.Create(&items[i]).Error; err != nil {
			logger.Error("Failed to seed item", err, map[string]interface{}{
				"name": items[i].Name,
			})
			return err
		}
	}

	logger.Info("Starter catalog seeded successfully", map[string]interface{}{
		"items_count": len(items),
	})
	return nil
}
