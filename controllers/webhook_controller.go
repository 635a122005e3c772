package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"storefront-service/services"
)

type WebhookController struct {
	stripeService *services.StripeService
	orderService  *services.OrderService
	logger        *zap.Logger
}

func NewWebhookController(stripeService *services.StripeService, orderService *services.OrderService, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		stripeService: stripeService,
		orderService:  orderService,
		logger:        logger,
	}
}

// HandleStripeWebhook verifies the event signature and materializes an
// order from checkout.session.completed events. Other event types are
// acknowledged and ignored.
func (wc *WebhookController) HandleStripeWebhook(ctx *gin.Context) {
	event, err := wc.stripeService.ParseWebhook(ctx.Request)
	if err != nil {
		wc.logger.Warn("webhook signature verification failed", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	if event.Type != "checkout.session.completed" {
		ctx.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		wc.logger.Error("webhook payload unmarshal failed", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	paymentIntentID := ""
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	order, serviceErr := wc.orderService.MaterializeFromSession(ctx.Request.Context(), session.ID, paymentIntentID, session.Metadata)
	if serviceErr != nil {
		ctx.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true, "order_id": order.ID})
}
