package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order status values. Every order starts Outstanding and is moved by an
// admin; Delivered covers delivery fulfillment, Picked Up covers pickup.
const (
	StatusOutstanding = "Outstanding"
	StatusInProgress  = "In Progress"
	StatusReady       = "Ready"
	StatusDelivered   = "Delivered"
	StatusPickedUp    = "Picked Up"
	StatusCanceled    = "Canceled"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

const (
	FulfillmentDelivery = "delivery"
	FulfillmentPickup   = "pickup"
)

const (
	DiscountFixed   = "fixed"
	DiscountPercent = "percent"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{
	StatusOutstanding,
	StatusInProgress,
	StatusReady,
	StatusDelivered,
	StatusPickedUp,
	StatusCanceled,
}

func IsValidStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ProductSize is one purchasable unit (e.g. "Small tray"). available_qty is
// only ever decremented by checkout; restocking is an admin edit.
type ProductSize struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	UnitLabel    string    `gorm:"not null" json:"unit_label"`
	PriceCents   int       `gorm:"not null" json:"price_cents"`
	AvailableQty int       `gorm:"not null;default:0" json:"available_qty"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	SortOrder    *int      `json:"sort_order,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Settings is the store-wide configuration singleton.
type Settings struct {
	ID                    int       `gorm:"primaryKey" json:"id"`
	PickupDiscountEnabled bool      `gorm:"not null;default:false" json:"pickup_discount_enabled"`
	PickupDiscountType    string    `gorm:"type:varchar(10);not null;default:'fixed'" json:"pickup_discount_type"`
	PickupDiscountValue   int       `gorm:"not null;default:0" json:"pickup_discount_value"`
	DeliveryFeeCents      int       `gorm:"not null;default:0" json:"delivery_fee_cents"`
	Currency              string    `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	VenmoAddress          *string   `json:"venmo_address,omitempty"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Customer is deduplicated on the exact (email, phone) pair.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null;index:idx_customers_email_phone" json:"email"`
	Phone     string    `gorm:"not null;index:idx_customers_email_phone" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DeliveryAddress is embedded on delivery orders only.
type DeliveryAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

type Order struct {
	ID                    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID            uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	FulfillmentMethod     string    `gorm:"type:varchar(10);not null" json:"fulfillment_method"`
	Status                string    `gorm:"type:varchar(20);not null;default:'Outstanding'" json:"status"`
	SubtotalCents         int       `gorm:"not null" json:"subtotal_cents"`
	PickupDiscountCents   int       `gorm:"not null;default:0" json:"pickup_discount_cents"`
	DeliveryFeeCents      int       `gorm:"not null;default:0" json:"delivery_fee_cents"`
	TotalCents            int       `gorm:"not null" json:"total_cents"`
	PaymentStatus         string    `gorm:"type:varchar(10);not null;default:'pending'" json:"payment_status"`
	Notes                 *string   `json:"notes,omitempty"`
	DeliveryAddr          *string   `gorm:"type:jsonb;column:delivery_address" json:"-"`
	StripeSessionID       *string   `gorm:"uniqueIndex" json:"stripe_session_id,omitempty"`
	StripePaymentIntentID *string   `json:"stripe_payment_intent_id,omitempty"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Customer Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderNumber is the customer-facing short reference for an order: the
// first eight hex characters of the id, uppercased.
func (o *Order) OrderNumber() string {
	return strings.ToUpper(o.ID.String()[:8])
}

// OrderItem snapshots the size name, unit label and price at order time.
// Snapshots never change, even when the underlying size is edited.
type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	SizeID     uuid.UUID `gorm:"type:uuid;not null" json:"size_id"`
	SizeName   string    `gorm:"not null" json:"size_name"`
	UnitLabel  string    `gorm:"not null" json:"unit_label"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	PriceCents int       `gorm:"not null" json:"price_cents"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// OrderStatusHistory is append-only: one row at creation and one per
// transition, admin edits included.
type OrderStatusHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AdminUser identifies who may call the admin endpoints and where their
// order notifications go.
type AdminUser struct {
	ID                        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email                     string    `gorm:"uniqueIndex;not null" json:"email"`
	NotificationEmail         *string   `json:"notification_email,omitempty"`
	NotificationPhone         *string   `json:"notification_phone,omitempty"`
	EmailNotificationsEnabled bool      `gorm:"not null;default:true" json:"email_notifications_enabled"`
	SMSNotificationsEnabled   bool      `gorm:"not null;default:false" json:"sms_notifications_enabled"`
	CreatedAt                 time.Time `gorm:"autoCreateTime" json:"created_at"`
}
