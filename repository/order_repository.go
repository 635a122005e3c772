package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-service/models"
)

// StockDecrement is one inventory subtraction applied inside the order
// creation transaction.
type StockDecrement struct {
	SizeID   uuid.UUID
	SizeName string
	Quantity int
}

// CreateOrderParams is the full graph written when an order is created:
// the order row, its item snapshots, the initial history entry, and the
// inventory decrements. Everything commits or rolls back together.
type CreateOrderParams struct {
	Order       *models.Order
	Items       []models.OrderItem
	HistoryNote string
	Decrements  []StockDecrement
	// ClampStock switches the decrement from the strict conditional form
	// to a floor-at-zero subtraction (webhook path, payment already taken).
	ClampStock bool
}

// OrderRepository defines data access for orders, their items and their
// status history.
type OrderRepository interface {
	CreateWithItems(ctx context.Context, params CreateOrderParams) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, note string) (*models.Order, error)
	SetPaymentStatus(ctx context.Context, ids []uuid.UUID, paymentStatus string) ([]models.Order, error)
	History(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// CreateWithItems persists the order graph in one transaction. An
// insufficient-stock failure on any line rolls back the whole order, so a
// cart is all-or-nothing and order items never exist without their parent.
func (r *GormOrderRepository) CreateWithItems(ctx context.Context, params CreateOrderParams) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(params.Order).Error; err != nil {
			return err
		}

		for i := range params.Items {
			params.Items[i].OrderID = params.Order.ID
		}
		if len(params.Items) > 0 {
			if err := tx.Create(&params.Items).Error; err != nil {
				return err
			}
		}

		history := models.OrderStatusHistory{
			OrderID: params.Order.ID,
			Status:  params.Order.Status,
			Note:    params.HistoryNote,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		for _, d := range params.Decrements {
			var err error
			if params.ClampStock {
				err = decrementStockClamped(tx, d.SizeID, d.Quantity)
			} else {
				err = decrementStock(tx, d.SizeID, d.Quantity, d.SizeName)
			}
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("stripe_session_id = ?", sessionID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Preload("Customer").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus overwrites the order status and appends the matching
// history row in the same transaction, so admin edits leave the same audit
// trail that creation and webhook confirmation do.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, note string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return err
		}

		return tx.Create(&models.OrderStatusHistory{
			OrderID: order.ID,
			Status:  status,
			Note:    note,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	order.Status = status
	return &order, nil
}

func (r *GormOrderRepository) SetPaymentStatus(ctx context.Context, ids []uuid.UUID, paymentStatus string) ([]models.Order, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id IN ?", ids).
		Update("payment_status", paymentStatus).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) History(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}
