package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"travel/internal/app"
	"travel/internal/config"
	"travel/internal/gateway"
	"travel/internal/handler"
	internalRedis "travel/internal/redis"
	"travel/internal/repository/postgres"
	"travel/internal/service"
)

func main() {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	// Load configuration.
	cfg := config.Load()
	logger := app.NewLogger(cfg.Log, "travel-api")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	nrApp, err := app.NewNewRelicApp(cfg.NewRelic)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize New Relic")
	} else if nrApp != nil {
		logger.Info().Str("app", cfg.NewRelic.AppName).Msg("New Relic enabled (with DB instrumentation)")
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	logger.Info().Msg("connected to PostgreSQL")

	// Redis is optional: without it lookups skip the cache and idempotency replay is off.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, continuing without cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg, logger)

	// Start server in goroutine.
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logger.Info().Msg("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logger zerolog.Logger) *http.Server {
	// Initialize repositories.
	paymentRepo := postgres.NewPaymentRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	destinationRepo := postgres.NewDestinationRepository(db)
	txManager := postgres.NewTxManager(db)

	var cache service.ConfirmationCache
	if redisClient != nil {
		cache = internalRedis.NewConfirmationCache(redisClient, cfg.Lookup.CacheTTL)
	}

	// Initialize services.
	notificationService := service.NewNotificationService(logger.With().Str("component", "notification").Logger())
	confirmationService := service.NewBookingConfirmationService(
		paymentRepo,
		bookingRepo,
		txManager,
		gateway.NewVerifier(cfg.Razorpay.KeySecret),
		notificationService,
		logger.With().Str("component", "confirmation").Logger(),
	)
	lookupService := service.NewBookingLookupService(
		paymentRepo,
		bookingRepo,
		destinationRepo,
		cache,
		logger.With().Str("component", "lookup").Logger(),
	)

	// Initialize handlers.
	paymentHandler := handler.NewPaymentHandler(confirmationService)
	bookingHandler := handler.NewBookingHandler(lookupService)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		PaymentHandler: paymentHandler,
		BookingHandler: bookingHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		DB:             db,
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		Logger:         logger.With().Str("component", "http").Logger(),
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
