package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/metrics"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/internal/service"
)

// Dependencies are the services the router hands to its handlers
type Dependencies struct {
	Sessions *service.SessionRegistry
	Contact  *service.ContactService
	Repos    *repository.Repositories // nil when the journal database is disabled
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Dependencies, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(loadTemplates())

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(metrics.PrometheusMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Storefront pages
	router.GET("/thankyou.html", handlers.HandleThankYou())
	router.GET("/checkout", handlers.HandleCheckout(cfg.Storefront))
	router.POST("/checkout", handlers.HandleCheckout(cfg.Storefront))

	session := middleware.SessionMiddleware(deps.Sessions, logger)
	router.GET("/", session, handlers.HandleCartPage(logger))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		cartRoutes := v1.Group("/cart")
		cartRoutes.Use(session)
		{
			cartRoutes.GET("", handlers.HandleGetCart(logger))
			cartRoutes.POST("/reload", handlers.HandleReloadCart(logger))
			cartRoutes.PUT("/items/:id/quantity", handlers.HandleUpdateQuantity(logger))
			cartRoutes.GET("/items/:id/removal", handlers.HandleRemovalPrompt(logger))
			cartRoutes.DELETE("/items/:id", handlers.HandleRemoveItem(logger))
		}

		v1.POST("/contact", handlers.HandleContact(deps.Contact, logger))

		// The journal is unauthenticated, so it is never mounted in production
		if cfg.Environment != "production" {
			adminRoutes := v1.Group("/admin")
			{
				adminRoutes.GET("/sessions/:id/events", handlers.HandleListCartEvents(deps.Repos, logger))
			}
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
