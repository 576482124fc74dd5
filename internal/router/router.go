package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hanbyul/storefront-backend/config"
	"github.com/hanbyul/storefront-backend/internal/app/controller"
	"github.com/hanbyul/storefront-backend/internal/metrics"
	"github.com/hanbyul/storefront-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	authController   *controller.AuthController
	itemController   *controller.ItemController
	cartController   *controller.CartController
	orderController  *controller.OrderController
	uploadController *controller.UploadController
	eventController  *controller.EventController
	authMiddleware   *middleware.AuthMiddleware
	rateLimiter      *middleware.RateLimiter
	collector        *metrics.Collector
	registry         *prometheus.Registry
	config           *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	itemController *controller.ItemController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	uploadController *controller.UploadController,
	eventController *controller.EventController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	collector *metrics.Collector,
	registry *prometheus.Registry,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:   authController,
		itemController:   itemController,
		cartController:   cartController,
		orderController:  orderController,
		uploadController: uploadController,
		eventController:  eventController,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		collector:        collector,
		registry:         registry,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(r.collector))
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(r.rateLimiter.General())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))

	router.GET("/ws", r.authMiddleware.Authenticate(), r.eventController.Stream)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		items := v1.Group("/items")
		{
			items.GET("", r.itemController.ListItems)
			items.GET("/:id", r.itemController.GetItem)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.DELETE("/items/:item_id", r.cartController.RemoveItem)
		}

		v1.POST("/checkout",
			r.authMiddleware.Authenticate(),
			r.rateLimiter.Checkout(),
			r.orderController.Checkout,
		)

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/items", r.itemController.ListAllItems)
			admin.POST("/items", r.itemController.CreateItem)
			admin.PUT("/items/:id", r.itemController.UpdateItem)
			admin.DELETE("/items/:id", r.itemController.DeleteItem)
			admin.POST("/items/:id/image", r.uploadController.UploadItemImage)

			admin.GET("/orders/export", r.orderController.ExportOrders)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
