package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-service/cache"
	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/logger"
	"storefront-service/notifier"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/sender"
	"storefront-service/services"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	db, err := database.Connect(cfg.PostgresDSN())
	if err != nil {
		logger.Log.Fatal("database connection failed", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Log.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		redisClient = nil
	}

	sizeRepo := repository.NewGormSizeRepository(db)
	settingsRepo := repository.NewGormSettingsRepository(db)
	customerRepo := repository.NewGormCustomerRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	adminRepo := repository.NewGormAdminRepository(db)

	catalogCache := cache.NewCatalogCache(redisClient, 5*time.Minute, logger.Log)

	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.SiteURL)

	var emailSender sender.EmailSender
	if s, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass); err != nil {
		logger.Log.Warn("email sender disabled", zap.Error(err))
	} else {
		emailSender = s
	}

	var smsSender sender.SMSSender
	if s, err := sender.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber); err != nil {
		logger.Log.Warn("sms sender disabled", zap.Error(err))
	} else {
		smsSender = s
	}

	dispatcher := notifier.NewDispatcher(adminRepo, emailSender, smsSender, logger.Log)

	orderService := services.NewOrderService(orderRepo, sizeRepo, settingsRepo, customerRepo, stripeService, dispatcher, logger.Log)
	catalogService := services.NewCatalogService(sizeRepo, settingsRepo, catalogCache, logger.Log)

	catalogController := controllers.NewCatalogController(catalogService)
	checkoutController := controllers.NewCheckoutController(orderService)
	webhookController := controllers.NewWebhookController(stripeService, orderService, logger.Log)
	adminController := controllers.NewAdminController(orderService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())

	routes.Register(router, catalogController, checkoutController, webhookController, adminController, adminRepo)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("storefront service listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("shutdown error", zap.Error(err))
	}
	dispatcher.Wait()
	logger.Log.Info("shutdown complete")
}
