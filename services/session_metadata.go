package services

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// SessionMetadata is the typed form of the order fields carried on a
// Stripe checkout session. Stripe metadata is a string-only key/value map,
// so every numeric field is serialized explicitly here and parsed back on
// the confirmation webhook; the webhook treats this as the source of truth
// for the order so that price edits between session creation and payment
// never re-price a confirmed order.
type SessionMetadata struct {
	SizeID              uuid.UUID
	SizeName            string
	UnitLabel           string
	Quantity            int
	UnitPriceCents      int
	FulfillmentMethod   string
	PickupDiscountCents int
	DeliveryFeeCents    int
	TotalCents          int
	Currency            string
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	Address             string
	City                string
	State               string
	PostalCode          string
	Notes               string
}

func (m *SessionMetadata) ToMap() map[string]string {
	return map[string]string{
		"size_id":               m.SizeID.String(),
		"size_name":             m.SizeName,
		"unit_label":            m.UnitLabel,
		"quantity":              strconv.Itoa(m.Quantity),
		"unit_price_cents":      strconv.Itoa(m.UnitPriceCents),
		"fulfillment_method":    m.FulfillmentMethod,
		"pickup_discount_cents": strconv.Itoa(m.PickupDiscountCents),
		"delivery_fee_cents":    strconv.Itoa(m.DeliveryFeeCents),
		"total_cents":           strconv.Itoa(m.TotalCents),
		"currency":              m.Currency,
		"customer_name":         m.CustomerName,
		"customer_email":        m.CustomerEmail,
		"customer_phone":        m.CustomerPhone,
		"address":               m.Address,
		"city":                  m.City,
		"state":                 m.State,
		"postal_code":           m.PostalCode,
		"notes":                 m.Notes,
	}
}

// ParseSessionMetadata rebuilds the typed metadata from the raw Stripe
// map. Malformed numeric or id fields are an error, never a silent zero.
func ParseSessionMetadata(raw map[string]string) (*SessionMetadata, error) {
	sizeID, err := uuid.Parse(raw["size_id"])
	if err != nil {
		return nil, fmt.Errorf("metadata size_id: %w", err)
	}

	m := &SessionMetadata{
		SizeID:            sizeID,
		SizeName:          raw["size_name"],
		UnitLabel:         raw["unit_label"],
		FulfillmentMethod: raw["fulfillment_method"],
		Currency:          raw["currency"],
		CustomerName:      raw["customer_name"],
		CustomerEmail:     raw["customer_email"],
		CustomerPhone:     raw["customer_phone"],
		Address:           raw["address"],
		City:              raw["city"],
		State:             raw["state"],
		PostalCode:        raw["postal_code"],
		Notes:             raw["notes"],
	}

	for key, dst := range map[string]*int{
		"quantity":              &m.Quantity,
		"unit_price_cents":      &m.UnitPriceCents,
		"pickup_discount_cents": &m.PickupDiscountCents,
		"delivery_fee_cents":    &m.DeliveryFeeCents,
		"total_cents":           &m.TotalCents,
	} {
		v, err := strconv.Atoi(raw[key])
		if err != nil {
			return nil, fmt.Errorf("metadata %s: %w", key, err)
		}
		*dst = v
	}

	if m.Quantity <= 0 {
		return nil, fmt.Errorf("metadata quantity must be positive, got %d", m.Quantity)
	}

	return m, nil
}
