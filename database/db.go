package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront-service/models"
)

// Connect opens the Postgres connection and runs migrations.
func Connect(dsn string) (*gorm.DB, error) {
	// TranslateError surfaces unique index collisions as
	// gorm.ErrDuplicatedKey, which the webhook path relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&models.ProductSize{},
		&models.Settings{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.AdminUser{},
	); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}
