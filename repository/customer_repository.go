package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront-service/models"
)

// CustomerRepository defines data access for customers. Matching is
// exact-string on both email and phone; no normalization is applied, so a
// differently formatted phone number creates a second customer record.
type CustomerRepository interface {
	FindByEmailPhone(ctx context.Context, email, phone string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
}

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) CustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByEmailPhone(ctx context.Context, email, phone string) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).
		Where("email = ? AND phone = ?", email, phone).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}
