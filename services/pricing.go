package services

import (
	"storefront-service/models"
)

// PricedItem is one cart line handed to the pricing engine. Size may be
// nil for a line that failed to load; it contributes zero rather than
// failing the whole computation.
type PricedItem struct {
	Size     *models.ProductSize
	Quantity int
}

// Totals is the pricing engine output, all in integer cents.
type Totals struct {
	Base           int
	PickupDiscount int
	DeliveryFee    int
	Total          int
}

// ComputeTotals derives order totals from the cart lines, store settings
// and fulfillment method. Pure and side-effect free; safe to call
// concurrently.
//
// The delivery fee applies only to delivery orders. The pickup discount
// applies only to pickup orders with the discount enabled: a percent
// discount rounds half-up, a fixed discount is clamped to the base so the
// total can never go negative.
func ComputeTotals(items []PricedItem, settings *models.Settings, fulfillment string) Totals {
	base := 0
	for _, item := range items {
		if item.Size == nil {
			continue
		}
		base += item.Size.PriceCents * item.Quantity
	}

	deliveryFee := 0
	if fulfillment == models.FulfillmentDelivery && settings != nil {
		deliveryFee = settings.DeliveryFeeCents
	}

	pickupDiscount := 0
	if fulfillment == models.FulfillmentPickup && settings != nil && settings.PickupDiscountEnabled {
		switch settings.PickupDiscountType {
		case models.DiscountPercent:
			pickupDiscount = roundHalfUp(base*settings.PickupDiscountValue, 100)
		default:
			pickupDiscount = settings.PickupDiscountValue
		}
		if pickupDiscount > base {
			pickupDiscount = base
		}
		if pickupDiscount < 0 {
			pickupDiscount = 0
		}
	}

	return Totals{
		Base:           base,
		PickupDiscount: pickupDiscount,
		DeliveryFee:    deliveryFee,
		Total:          base - pickupDiscount + deliveryFee,
	}
}

// roundHalfUp divides num by den rounding half-up. Inputs are never
// negative here; base and discount values are validated non-negative.
func roundHalfUp(num, den int) int {
	return (num + den/2) / den
}
