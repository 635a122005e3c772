package routes

import (
	"github.com/gin-gonic/gin"

	"storefront-service/controllers"
	"storefront-service/middleware"
	"storefront-service/repository"
)

// Register wires every endpoint. Checkout endpoints are rate limited per
// IP; admin endpoints require a recognized admin email.
func Register(
	r *gin.Engine,
	catalog *controllers.CatalogController,
	checkout *controllers.CheckoutController,
	webhook *controllers.WebhookController,
	admin *controllers.AdminController,
	admins repository.AdminRepository,
) {
	r.GET("/sizes", catalog.ListSizes)
	r.GET("/orders/status", checkout.GetOrderStatus)

	checkoutRoutes := r.Group("/checkout")
	checkoutRoutes.Use(middleware.RateLimitMiddleware())
	checkoutRoutes.POST("/venmo", checkout.CreateVenmoOrder)
	checkoutRoutes.POST("/session", checkout.CreateCheckoutSession)

	r.POST("/webhooks/stripe", webhook.HandleStripeWebhook)

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AdminAuth(admins))
	adminRoutes.GET("/orders", admin.ListOrders)
	adminRoutes.PATCH("/orders/:id/status", admin.UpdateOrderStatus)
	adminRoutes.POST("/orders/payment-status", admin.SetPaymentStatus)
	adminRoutes.POST("/orders/:id/reminder", admin.SendPaymentReminder)
	adminRoutes.PATCH("/sizes/:id", catalog.UpdateSize)
	adminRoutes.PATCH("/settings", catalog.UpdateSettings)
}
