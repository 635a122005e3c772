package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-service/models"
)

// SizeRepository defines data access for product sizes.
type SizeRepository interface {
	ListActive(ctx context.Context) ([]models.ProductSize, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductSize, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.ProductSize, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.ProductSize, error)
}

// GormSizeRepository implements SizeRepository using GORM.
type GormSizeRepository struct {
	db *gorm.DB
}

func NewGormSizeRepository(db *gorm.DB) SizeRepository {
	return &GormSizeRepository{db: db}
}

func (r *GormSizeRepository) ListActive(ctx context.Context) ([]models.ProductSize, error) {
	var sizes []models.ProductSize
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC NULLS LAST, name ASC").
		Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

func (r *GormSizeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductSize, error) {
	var size models.ProductSize
	if err := r.db.WithContext(ctx).First(&size, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSizeNotFound
		}
		return nil, err
	}
	return &size, nil
}

func (r *GormSizeRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.ProductSize, error) {
	var size models.ProductSize
	if err := r.db.WithContext(ctx).
		First(&size, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSizeNotFound
		}
		return nil, err
	}
	return &size, nil
}

// UpdateFields applies a pre-allowlisted set of column updates and returns
// the fresh row.
func (r *GormSizeRepository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.ProductSize, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ProductSize{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrSizeNotFound
	}
	return r.FindByID(ctx, id)
}

// decrementStock subtracts qty only while enough stock remains. Zero rows
// affected means another checkout got there first; the caller's
// transaction rolls back, which is what makes concurrent checkouts unable
// to oversell.
func decrementStock(tx *gorm.DB, sizeID uuid.UUID, qty int, sizeName string) error {
	res := tx.Model(&models.ProductSize{}).
		Where("id = ? AND available_qty >= ?", sizeID, qty).
		UpdateColumn("available_qty", gorm.Expr("available_qty - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &InsufficientStockError{SizeName: sizeName}
	}
	return nil
}

// decrementStockClamped floors at zero instead of failing. Used when the
// payment is already captured and the order has to materialize even if
// stock drifted since the session was created.
func decrementStockClamped(tx *gorm.DB, sizeID uuid.UUID, qty int) error {
	return tx.Model(&models.ProductSize{}).
		Where("id = ?", sizeID).
		UpdateColumn("available_qty", gorm.Expr("GREATEST(available_qty - ?, 0)", qty)).Error
}
