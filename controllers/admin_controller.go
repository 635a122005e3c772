package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-service/services"
)

type AdminController struct {
	orderService *services.OrderService
}

func NewAdminController(orderService *services.OrderService) *AdminController {
	return &AdminController{
		orderService: orderService,
	}
}

// ListOrders returns the paginated admin order feed.
func (ac *AdminController) ListOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	orders, total, serviceErr := ac.orderService.ListOrders(ctx.Request.Context(), page, limit)
	if serviceErr != nil {
		ctx.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// UpdateOrderStatus moves one order to a new status.
func (ac *AdminController) UpdateOrderStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, serviceErr := ac.orderService.UpdateStatus(ctx.Request.Context(), id, body.Status)
	if serviceErr != nil {
		ctx.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// SetPaymentStatus flips payment state for a batch of orders.
func (ac *AdminController) SetPaymentStatus(ctx *gin.Context) {
	var body struct {
		OrderIDs      []uuid.UUID `json:"orderIds" binding:"required"`
		PaymentStatus string      `json:"payment_status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	orders, serviceErr := ac.orderService.SetPaymentStatus(ctx.Request.Context(), body.OrderIDs, body.PaymentStatus)
	if serviceErr != nil {
		ctx.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

// SendPaymentReminder re-notifies the customer of an unpaid order.
func (ac *AdminController) SendPaymentReminder(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	if serviceErr := ac.orderService.SendPaymentReminder(ctx.Request.Context(), id); serviceErr != nil {
		ctx.JSON(serviceErr.StatusCode, gin.H{"error": serviceErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Reminder sent"})
}

func parsePaginationParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
