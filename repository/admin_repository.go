package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront-service/models"
)

// AdminRepository backs the admin identity check and notification fan-out.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	ListAll(ctx context.Context) ([]models.AdminUser, error)
}

type GormAdminRepository struct {
	db *gorm.DB
}

func NewGormAdminRepository(db *gorm.DB) AdminRepository {
	return &GormAdminRepository{db: db}
}

// FindByEmail matches case-insensitively; admin emails arrive from login
// forms with arbitrary casing.
func (r *GormAdminRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *GormAdminRepository) ListAll(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := r.db.WithContext(ctx).Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}
