package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"travel/internal/handler"
	"travel/internal/middleware"
)

const readinessTimeout = 2 * time.Second

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PaymentHandler *handler.PaymentHandler
	BookingHandler *handler.BookingHandler
	// RedisClient is optional; idempotency replay is off without it.
	RedisClient *redis.Client
	NewRelicApp *newrelic.Application
	// DB is pinged by /ready when set.
	DB          *sql.DB
	CORSOrigins []string
	Logger      zerolog.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS(deps.CORSOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
			defer cancel()
			if err := deps.DB.PingContext(ctx); err != nil {
				deps.Logger.Error().Err(err).Msg("readiness check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	api := router.Group("/api")
	{
		api.POST("/verify-payment",
			middleware.Idempotency(deps.RedisClient, deps.Logger),
			deps.PaymentHandler.VerifyPayment,
		)

		api.GET("/find-booking-by-payment", deps.BookingHandler.FindByPaymentQuery)
		api.POST("/find-booking-by-payment", deps.BookingHandler.FindByPaymentBody)
	}

	return router
}
