package services

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/coupon"
	"github.com/stripe/stripe-go/v80/webhook"
)

// PaymentGateway is what the order lifecycle needs from the card
// processor: a hosted session to redirect the customer to.
type PaymentGateway interface {
	CreateCheckoutSession(req *GatewaySessionRequest) (string, error)
}

// GatewaySessionRequest carries everything the hosted session embeds.
type GatewaySessionRequest struct {
	Metadata    *SessionMetadata
	ProductName string
	Description string
}

type StripeService struct {
	SecretKey  string
	WebhookKey string
	SiteURL    string
}

func NewStripeService(secretKey, webhookKey, siteURL string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey, WebhookKey: webhookKey, SiteURL: siteURL}
}

// CreateCheckoutSession creates a hosted payment session with the full
// order captured as typed metadata. The delivery fee rides as a shipping
// option and the pickup discount as a coupon so the charged amount matches
// the computed total.
func (s *StripeService) CreateCheckoutSession(req *GatewaySessionRequest) (string, error) {
	m := req.Metadata
	currency := m.Currency

	params := &stripe.CheckoutSessionParams{
		Mode:                stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes:  stripe.StringSlice([]string{"card"}),
		AllowPromotionCodes: stripe.Bool(true),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		SuccessURL: stripe.String(s.SiteURL + "/order-confirmation?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.SiteURL + "/"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(int64(m.Quantity)),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(int64(m.UnitPriceCents)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.ProductName),
						Description: stripe.String(req.Description),
					},
				},
			},
		},
	}

	for k, v := range m.ToMap() {
		params.AddMetadata(k, v)
	}

	if m.FulfillmentMethod == "delivery" {
		params.ShippingOptions = []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					DisplayName: stripe.String("Flat delivery"),
					Type:        stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(int64(m.DeliveryFeeCents)),
						Currency: stripe.String(currency),
					},
				},
			},
		}
	}

	if m.FulfillmentMethod == "pickup" && m.PickupDiscountCents > 0 {
		couponID, err := s.ensurePickupCoupon(int64(m.PickupDiscountCents), currency)
		if err != nil {
			return "", fmt.Errorf("pickup coupon: %w", err)
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(couponID)},
		}
	}

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// ensurePickupCoupon reuses an existing amount-off coupon when one
// matches, keeping the coupon list from growing per order.
func (s *StripeService) ensurePickupCoupon(amountOff int64, currency string) (string, error) {
	listParams := &stripe.CouponListParams{}
	listParams.Limit = stripe.Int64(100)

	iter := coupon.List(listParams)
	for iter.Next() {
		c := iter.Coupon()
		if c.AmountOff == amountOff && string(c.Currency) == currency {
			return c.ID, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", err
	}

	created, err := coupon.New(&stripe.CouponParams{
		AmountOff: stripe.Int64(amountOff),
		Currency:  stripe.String(currency),
		Name:      stripe.String("Pickup discount"),
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// ParseWebhook verifies the event signature against the shared secret
// before any payload is trusted.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookKey)
}
