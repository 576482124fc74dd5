package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hanbyul/storefront-backend/config"
	"github.com/hanbyul/storefront-backend/internal/app/controller"
	"github.com/hanbyul/storefront-backend/internal/app/repository"
	"github.com/hanbyul/storefront-backend/internal/app/service"
	"github.com/hanbyul/storefront-backend/internal/db"
	"github.com/hanbyul/storefront-backend/internal/metrics"
	"github.com/hanbyul/storefront-backend/internal/middleware"
	"github.com/hanbyul/storefront-backend/internal/router"
	"github.com/hanbyul/storefront-backend/internal/scheduler"
	"github.com/hanbyul/storefront-backend/internal/storage"
	ws "github.com/hanbyul/storefront-backend/internal/websocket"
	"github.com/hanbyul/storefront-backend/pkg/logger"
	"github.com/hanbyul/storefront-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Storefront Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize redis for token revocation (optional)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Start the event hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	itemRepo := repository.NewItemRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	itemService := service.NewItemService(itemRepo)
	cartService := service.NewCartService(cartRepo, itemRepo, collector, hub)
	orderService := service.NewOrderService(orderRepo, cartRepo, collector, hub)

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	itemController := controller.NewItemController(itemService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	uploadController := controller.NewUploadController(s3Storage, itemService)
	eventController := controller.NewEventController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer rateLimiter.Stop()

	// Start the stale cart janitor
	janitor := scheduler.NewCartJanitor(cartService)
	if err := janitor.Start(); err != nil {
		logger.Warn("Cart janitor not started", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer janitor.Stop()
	}

	// Setup router
	r := router.NewRouter(
		authController,
		itemController,
		cartController,
		orderController,
		uploadController,
		eventController,
		authMiddleware,
		rateLimiter,
		collector,
		registry,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
