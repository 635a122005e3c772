package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-service/services"
)

type CheckoutController struct {
	orderService *services.OrderService
}

func NewCheckoutController(orderService *services.OrderService) *CheckoutController {
	return &CheckoutController{
		orderService: orderService,
	}
}

// CreateVenmoOrder handles the pay-later checkout path.
func (cc *CheckoutController) CreateVenmoOrder(ctx *gin.Context) {
	var req services.VenmoCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, serviceErr := cc.orderService.CreateVenmoOrder(ctx.Request.Context(), &req)
	if serviceErr != nil {
		ctx.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// CreateCheckoutSession starts a hosted card payment session and returns
// its redirect URL.
func (cc *CheckoutController) CreateCheckoutSession(ctx *gin.Context) {
	var req services.GatewayCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	url, serviceErr := cc.orderService.CreateCheckoutSession(ctx.Request.Context(), &req)
	if serviceErr != nil {
		ctx.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"url": url})
}

// GetOrderStatus answers the post-payment confirmation page lookup.
func (cc *CheckoutController) GetOrderStatus(ctx *gin.Context) {
	sessionID := ctx.Query("session_id")
	if sessionID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	resp, serviceErr := cc.orderService.GetOrderBySessionID(ctx.Request.Context(), sessionID)
	if serviceErr != nil {
		ctx.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
