package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-service/models"
	"storefront-service/services"
)

func size(priceCents int) *models.ProductSize {
	return &models.ProductSize{Name: "Medium tray", UnitLabel: "serves 4-6", PriceCents: priceCents, AvailableQty: 10, IsActive: true}
}

func TestComputeTotals_PickupPercentDiscount(t *testing.T) {
	settings := &models.Settings{
		PickupDiscountEnabled: true,
		PickupDiscountType:    models.DiscountPercent,
		PickupDiscountValue:   10,
		DeliveryFeeCents:      800,
	}

	totals := services.ComputeTotals(
		[]services.PricedItem{{Size: size(3200), Quantity: 2}},
		settings, models.FulfillmentPickup)

	assert.Equal(t, 6400, totals.Base)
	assert.Equal(t, 640, totals.PickupDiscount)
	assert.Equal(t, 0, totals.DeliveryFee)
	assert.Equal(t, 5760, totals.Total)
}

func TestComputeTotals_DeliveryFee(t *testing.T) {
	settings := &models.Settings{
		PickupDiscountEnabled: true,
		PickupDiscountType:    models.DiscountPercent,
		PickupDiscountValue:   10,
		DeliveryFeeCents:      800,
	}

	totals := services.ComputeTotals(
		[]services.PricedItem{{Size: size(3200), Quantity: 2}},
		settings, models.FulfillmentDelivery)

	assert.Equal(t, 6400, totals.Base)
	assert.Equal(t, 0, totals.PickupDiscount, "discount applies only to pickup")
	assert.Equal(t, 800, totals.DeliveryFee)
	assert.Equal(t, 7200, totals.Total)
}

func TestComputeTotals_PercentRoundsHalfUp(t *testing.T) {
	settings := &models.Settings{
		PickupDiscountEnabled: true,
		PickupDiscountType:    models.DiscountPercent,
		PickupDiscountValue:   15,
	}

	// 15% of 1050 is 157.5, rounds to 158.
	totals := services.ComputeTotals(
		[]services.PricedItem{{Size: size(1050), Quantity: 1}},
		settings, models.FulfillmentPickup)

	assert.Equal(t, 158, totals.PickupDiscount)
	assert.Equal(t, 892, totals.Total)
}

func TestComputeTotals_FixedDiscountClampedToBase(t *testing.T) {
	settings := &models.Settings{
		PickupDiscountEnabled: true,
		PickupDiscountType:    models.DiscountFixed,
		PickupDiscountValue:   5000,
	}

	totals := services.ComputeTotals(
		[]services.PricedItem{{Size: size(1200), Quantity: 1}},
		settings, models.FulfillmentPickup)

	assert.Equal(t, 1200, totals.PickupDiscount)
	assert.Equal(t, 0, totals.Total, "total never goes negative")
}

func TestComputeTotals_DiscountDisabled(t *testing.T) {
	settings := &models.Settings{
		PickupDiscountEnabled: false,
		PickupDiscountType:    models.DiscountPercent,
		PickupDiscountValue:   50,
	}

	totals := services.ComputeTotals(
		[]services.PricedItem{{Size: size(1000), Quantity: 3}},
		settings, models.FulfillmentPickup)

	assert.Equal(t, 0, totals.PickupDiscount)
	assert.Equal(t, 3000, totals.Total)
}

func TestComputeTotals_MultiLineCart(t *testing.T) {
	settings := &models.Settings{DeliveryFeeCents: 500}

	totals := services.ComputeTotals(
		[]services.PricedItem{
			{Size: size(3200), Quantity: 2},
			{Size: size(1800), Quantity: 1},
			{Size: nil, Quantity: 4},
		},
		settings, models.FulfillmentDelivery)

	assert.Equal(t, 8200, totals.Base, "nil size line contributes nothing")
	assert.Equal(t, 8700, totals.Total)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := services.ComputeTotals(nil, &models.Settings{DeliveryFeeCents: 800}, models.FulfillmentPickup)

	assert.Equal(t, services.Totals{}, totals)
}
