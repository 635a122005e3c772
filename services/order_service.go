package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-service/models"
	"storefront-service/notifier"
	"storefront-service/repository"
)

// ServiceError carries the HTTP status a failure maps to. Controllers
// render it as a flat {"error": message} body.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func newServiceError(status int, msg string) *ServiceError {
	return &ServiceError{StatusCode: status, Message: msg}
}

type CheckoutItem struct {
	SizeID   uuid.UUID `json:"size_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

type CustomerPayload struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// VenmoCheckoutRequest is the pay-later path body: a multi-line cart paid
// off-platform against the store's Venmo handle.
type VenmoCheckoutRequest struct {
	Items             []CheckoutItem  `json:"items" binding:"required,dive"`
	FulfillmentMethod string          `json:"fulfillment_method" binding:"required,oneof=delivery pickup"`
	Customer          CustomerPayload `json:"customer" binding:"required"`
	Notes             string          `json:"notes"`
}

type VenmoCheckoutResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	TotalCents  int       `json:"total_cents"`
	Currency    string    `json:"currency"`
	VenmoAddr   string    `json:"payment_handle"`
	OrderNumber string    `json:"order_number"`
}

// GatewayCheckoutRequest is the card path body. The legacy storefront
// sends a single size per session.
type GatewayCheckoutRequest struct {
	SizeID            uuid.UUID       `json:"size_id" binding:"required"`
	Quantity          int             `json:"quantity" binding:"required,min=1"`
	FulfillmentMethod string          `json:"fulfillment_method" binding:"required,oneof=delivery pickup"`
	Customer          CustomerPayload `json:"customer" binding:"required"`
	Notes             string          `json:"notes"`
}

type OrderStatusItem struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int    `json:"price_cents"`
}

type OrderStatusResponse struct {
	ID                  uuid.UUID         `json:"id"`
	Status              string            `json:"status"`
	FulfillmentMethod   string            `json:"fulfillment_method"`
	TotalCents          int               `json:"total_cents"`
	PickupDiscountCents int               `json:"pickup_discount_cents"`
	DeliveryFeeCents    int               `json:"delivery_fee_cents"`
	Currency            string            `json:"currency"`
	Items               []OrderStatusItem `json:"items"`
}

// OrderService is the order lifecycle manager: it validates checkouts,
// orchestrates pricing, inventory and customer resolution, persists the
// order graph, and drives status transitions.
type OrderService struct {
	orders    repository.OrderRepository
	sizes     repository.SizeRepository
	settings  repository.SettingsRepository
	customers repository.CustomerRepository
	gateway   PaymentGateway
	notify    notifier.Notifier
	logger    *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	sizes repository.SizeRepository,
	settings repository.SettingsRepository,
	customers repository.CustomerRepository,
	gateway PaymentGateway,
	notify notifier.Notifier,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		sizes:     sizes,
		settings:  settings,
		customers: customers,
		gateway:   gateway,
		notify:    notify,
		logger:    logger,
	}
}

// CreateVenmoOrder runs the pay-later checkout. Prices always come from
// the server-held size rows, never the request. The order, its items, the
// initial history row and the stock decrements commit atomically; any
// failing line rejects the whole cart.
func (s *OrderService) CreateVenmoOrder(ctx context.Context, req *VenmoCheckoutRequest) (*VenmoCheckoutResponse, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, newServiceError(http.StatusBadRequest, "At least one item is required")
	}
	if req.FulfillmentMethod == models.FulfillmentDelivery && req.Customer.Address == "" {
		return nil, newServiceError(http.StatusBadRequest, "Delivery address is required")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("settings lookup failed", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Server not configured")
	}
	if settings.VenmoAddress == nil || *settings.VenmoAddress == "" {
		return nil, newServiceError(http.StatusInternalServerError, "Payment handle not configured")
	}

	priced := make([]PricedItem, 0, len(req.Items))
	decrements := make([]repository.StockDecrement, 0, len(req.Items))
	for _, line := range req.Items {
		size, err := s.sizes.FindActiveByID(ctx, line.SizeID)
		if err != nil {
			if errors.Is(err, repository.ErrSizeNotFound) {
				return nil, newServiceError(http.StatusNotFound, "Size unavailable")
			}
			s.logger.Error("size lookup failed", zap.String("size_id", line.SizeID.String()), zap.Error(err))
			return nil, newServiceError(http.StatusInternalServerError, "Failed to load sizes")
		}
		if size.AvailableQty < line.Quantity {
			return nil, newServiceError(http.StatusConflict, "Insufficient quantity available for "+size.Name)
		}
		priced = append(priced, PricedItem{Size: size, Quantity: line.Quantity})
		decrements = append(decrements, repository.StockDecrement{
			SizeID:   size.ID,
			SizeName: size.Name,
			Quantity: line.Quantity,
		})
	}

	customer, svcErr := s.resolveCustomer(ctx, req.Customer.Name, req.Customer.Email, req.Customer.Phone)
	if svcErr != nil {
		return nil, svcErr
	}

	totals := ComputeTotals(priced, settings, req.FulfillmentMethod)

	order := &models.Order{
		CustomerID:          customer.ID,
		FulfillmentMethod:   req.FulfillmentMethod,
		Status:              models.StatusOutstanding,
		SubtotalCents:       totals.Base,
		PickupDiscountCents: totals.PickupDiscount,
		DeliveryFeeCents:    totals.DeliveryFee,
		TotalCents:          totals.Total,
		PaymentStatus:       models.PaymentPending,
	}
	if req.Notes != "" {
		order.Notes = &req.Notes
	}
	if req.FulfillmentMethod == models.FulfillmentDelivery {
		order.DeliveryAddr = marshalAddress(req.Customer)
	}

	items := make([]models.OrderItem, 0, len(priced))
	for _, p := range priced {
		items = append(items, models.OrderItem{
			SizeID:     p.Size.ID,
			SizeName:   p.Size.Name,
			UnitLabel:  p.Size.UnitLabel,
			Quantity:   p.Quantity,
			PriceCents: p.Size.PriceCents,
		})
	}

	err = s.orders.CreateWithItems(ctx, repository.CreateOrderParams{
		Order:       order,
		Items:       items,
		HistoryNote: "Order created, awaiting Venmo payment",
		Decrements:  decrements,
	})
	if err != nil {
		if repository.IsInsufficientStock(err) {
			return nil, newServiceError(http.StatusConflict, err.Error())
		}
		s.logger.Error("order creation failed", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to create order")
	}

	s.notify.Notify(ctx, notifier.Event{
		Type:     notifier.EventOrderCreated,
		Order:    order,
		Items:    items,
		Customer: customer,
		Settings: settings,
	})

	return &VenmoCheckoutResponse{
		OrderID:     order.ID,
		TotalCents:  totals.Total,
		Currency:    settings.Currency,
		VenmoAddr:   *settings.VenmoAddress,
		OrderNumber: order.OrderNumber(),
	}, nil
}

// CreateCheckoutSession starts the gateway path: totals are computed from
// trusted server records and frozen into the session metadata. No rows
// are written; the order materializes only when the payment webhook
// confirms.
func (s *OrderService) CreateCheckoutSession(ctx context.Context, req *GatewayCheckoutRequest) (string, *ServiceError) {
	if s.gateway == nil {
		return "", newServiceError(http.StatusInternalServerError, "Server not configured")
	}

	size, err := s.sizes.FindActiveByID(ctx, req.SizeID)
	if err != nil {
		if errors.Is(err, repository.ErrSizeNotFound) {
			return "", newServiceError(http.StatusNotFound, "Size unavailable")
		}
		s.logger.Error("size lookup failed", zap.Error(err))
		return "", newServiceError(http.StatusInternalServerError, "Failed to load size")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("settings lookup failed", zap.Error(err))
		return "", newServiceError(http.StatusInternalServerError, "Server not configured")
	}

	totals := ComputeTotals([]PricedItem{{Size: size, Quantity: req.Quantity}}, settings, req.FulfillmentMethod)

	meta := &SessionMetadata{
		SizeID:              size.ID,
		SizeName:            size.Name,
		UnitLabel:           size.UnitLabel,
		Quantity:            req.Quantity,
		UnitPriceCents:      size.PriceCents,
		FulfillmentMethod:   req.FulfillmentMethod,
		PickupDiscountCents: totals.PickupDiscount,
		DeliveryFeeCents:    totals.DeliveryFee,
		TotalCents:          totals.Total,
		Currency:            settings.Currency,
		CustomerName:        req.Customer.Name,
		CustomerEmail:       req.Customer.Email,
		CustomerPhone:       req.Customer.Phone,
		Address:             req.Customer.Address,
		City:                req.Customer.City,
		State:               req.Customer.State,
		PostalCode:          req.Customer.PostalCode,
		Notes:               req.Notes,
	}

	url, err := s.gateway.CreateCheckoutSession(&GatewaySessionRequest{
		Metadata:    meta,
		ProductName: size.Name,
		Description: size.UnitLabel + " • " + req.FulfillmentMethod,
	})
	if err != nil {
		s.logger.Error("checkout session creation failed", zap.Error(err))
		return "", newServiceError(http.StatusInternalServerError, "Failed to start checkout")
	}

	return url, nil
}

// MaterializeFromSession turns a confirmed payment session into an order.
// Idempotent on the session id: a redelivered webhook finds the existing
// order and changes nothing, no second decrement and no second
// notification. Stock is decremented with a floor at zero because the
// payment is already captured; rejecting the order is not an option.
func (s *OrderService) MaterializeFromSession(ctx context.Context, sessionID, paymentIntentID string, rawMeta map[string]string) (*models.Order, *ServiceError) {
	if existing, err := s.orders.FindBySessionID(ctx, sessionID); err == nil {
		s.logger.Info("duplicate payment webhook ignored", zap.String("session_id", sessionID))
		return existing, nil
	} else if !errors.Is(err, repository.ErrOrderNotFound) {
		s.logger.Error("session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to process payment")
	}

	meta, err := ParseSessionMetadata(rawMeta)
	if err != nil {
		s.logger.Error("session metadata rejected", zap.String("session_id", sessionID), zap.Error(err))
		return nil, newServiceError(http.StatusBadRequest, "Invalid session metadata")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("settings lookup failed", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Server not configured")
	}

	customer, svcErr := s.resolveCustomer(ctx, meta.CustomerName, meta.CustomerEmail, meta.CustomerPhone)
	if svcErr != nil {
		return nil, svcErr
	}

	order := &models.Order{
		CustomerID:            customer.ID,
		FulfillmentMethod:     meta.FulfillmentMethod,
		Status:                models.StatusOutstanding,
		SubtotalCents:         meta.UnitPriceCents * meta.Quantity,
		PickupDiscountCents:   meta.PickupDiscountCents,
		DeliveryFeeCents:      meta.DeliveryFeeCents,
		TotalCents:            meta.TotalCents,
		PaymentStatus:         models.PaymentPaid,
		StripeSessionID:       &sessionID,
		StripePaymentIntentID: &paymentIntentID,
	}
	if meta.Notes != "" {
		notes := meta.Notes
		order.Notes = &notes
	}
	if meta.FulfillmentMethod == models.FulfillmentDelivery {
		order.DeliveryAddr = marshalAddress(CustomerPayload{
			Address:    meta.Address,
			City:       meta.City,
			State:      meta.State,
			PostalCode: meta.PostalCode,
		})
	}

	items := []models.OrderItem{{
		SizeID:     meta.SizeID,
		SizeName:   meta.SizeName,
		UnitLabel:  meta.UnitLabel,
		Quantity:   meta.Quantity,
		PriceCents: meta.UnitPriceCents,
	}}

	err = s.orders.CreateWithItems(ctx, repository.CreateOrderParams{
		Order:       order,
		Items:       items,
		HistoryNote: "Payment confirmed via Stripe",
		Decrements: []repository.StockDecrement{{
			SizeID:   meta.SizeID,
			SizeName: meta.SizeName,
			Quantity: meta.Quantity,
		}},
		ClampStock: true,
	})
	if err != nil {
		// Two deliveries racing past the idempotency read collide on the
		// session id unique index; the first writer wins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, lookupErr := s.orders.FindBySessionID(ctx, sessionID); lookupErr == nil {
				return existing, nil
			}
		}
		s.logger.Error("order materialization failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to record order")
	}

	s.notify.Notify(ctx, notifier.Event{
		Type:     notifier.EventPaymentConfirmed,
		Order:    order,
		Items:    items,
		Customer: customer,
		Settings: settings,
	})

	return order, nil
}

// UpdateStatus applies an admin transition. Any status may follow any
// other; the transition always lands in the history trail.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError) {
	if !models.IsValidStatus(status) {
		return nil, newServiceError(http.StatusBadRequest, "Invalid status")
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status, "Status updated by admin")
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, newServiceError(http.StatusNotFound, "Order not found")
		}
		s.logger.Error("status update failed", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to update order")
	}
	return order, nil
}

// SetPaymentStatus flips payment state for a batch of orders.
func (s *OrderService) SetPaymentStatus(ctx context.Context, orderIDs []uuid.UUID, paymentStatus string) ([]models.Order, *ServiceError) {
	if len(orderIDs) == 0 {
		return nil, newServiceError(http.StatusBadRequest, "orderIds and payment_status are required")
	}
	if paymentStatus != models.PaymentPending && paymentStatus != models.PaymentPaid {
		return nil, newServiceError(http.StatusBadRequest, "Invalid payment status")
	}

	orders, err := s.orders.SetPaymentStatus(ctx, orderIDs, paymentStatus)
	if err != nil {
		s.logger.Error("payment status update failed", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to update orders")
	}
	return orders, nil
}

// GetOrderBySessionID answers the post-payment confirmation page.
// Read-only.
func (s *OrderService) GetOrderBySessionID(ctx context.Context, sessionID string) (*OrderStatusResponse, *ServiceError) {
	order, err := s.orders.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, newServiceError(http.StatusNotFound, "Order not found")
		}
		s.logger.Error("order lookup failed", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to fetch order")
	}

	currency := "USD"
	if settings, err := s.settings.Get(ctx); err == nil {
		currency = settings.Currency
	}

	resp := &OrderStatusResponse{
		ID:                  order.ID,
		Status:              order.Status,
		FulfillmentMethod:   order.FulfillmentMethod,
		TotalCents:          order.TotalCents,
		PickupDiscountCents: order.PickupDiscountCents,
		DeliveryFeeCents:    order.DeliveryFeeCents,
		Currency:            currency,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderStatusItem{
			Name:       item.SizeName,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}
	return resp, nil
}

// ListOrders returns the admin order feed with customers and items.
func (s *OrderService) ListOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orders.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("order list failed", zap.Error(err))
		return nil, 0, newServiceError(http.StatusInternalServerError, "Failed to fetch orders")
	}
	return orders, total, nil
}

// SendPaymentReminder re-notifies the customer of an unpaid order.
func (s *OrderService) SendPaymentReminder(ctx context.Context, orderID uuid.UUID) *ServiceError {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return newServiceError(http.StatusNotFound, "Order not found")
		}
		s.logger.Error("order lookup failed", zap.Error(err))
		return newServiceError(http.StatusInternalServerError, "Failed to fetch order")
	}
	if order.PaymentStatus == models.PaymentPaid {
		return newServiceError(http.StatusConflict, "Order is already paid")
	}

	customer, err := s.customers.FindByEmailPhone(ctx, order.Customer.Email, order.Customer.Phone)
	if err != nil {
		// The preloaded association is enough for the message.
		customer = &order.Customer
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("settings lookup failed", zap.Error(err))
		return newServiceError(http.StatusInternalServerError, "Server not configured")
	}

	s.notify.Notify(ctx, notifier.Event{
		Type:     notifier.EventPaymentReminder,
		Order:    order,
		Items:    order.Items,
		Customer: customer,
		Settings: settings,
	})
	return nil
}

// resolveCustomer reuses the record matching the exact (email, phone)
// pair or lazily creates one. Name differences never split a customer.
func (s *OrderService) resolveCustomer(ctx context.Context, name, email, phone string) (*models.Customer, *ServiceError) {
	customer, err := s.customers.FindByEmailPhone(ctx, email, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrCustomerNotFound) {
		s.logger.Error("customer lookup failed", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to resolve customer")
	}

	customer = &models.Customer{Name: name, Email: email, Phone: phone}
	if err := s.customers.Create(ctx, customer); err != nil {
		s.logger.Error("customer creation failed", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to create customer")
	}
	return customer, nil
}

func marshalAddress(c CustomerPayload) *string {
	raw, err := json.Marshal(models.DeliveryAddress{
		Address:    c.Address,
		City:       c.City,
		State:      c.State,
		PostalCode: c.PostalCode,
	})
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}
