package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront-service/models"
)

// SettingsRepository reads and writes the store configuration singleton.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, updates map[string]interface{}) (*models.Settings, error)
}

type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) SettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the first settings row; the singleton convention matches the
// storefront's single-store model.
func (r *GormSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	if err := r.db.WithContext(ctx).Order("id ASC").First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormSettingsRepository) Update(ctx context.Context, updates map[string]interface{}) (*models.Settings, error) {
	current, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Settings{}).
		Where("id = ?", current.ID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx)
}
