package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/canchago/go-court-reservation/internal/api"
	"github.com/canchago/go-court-reservation/internal/api/handler"
	appmiddleware "github.com/canchago/go-court-reservation/internal/api/middleware"
	"github.com/canchago/go-court-reservation/internal/application"
	"github.com/canchago/go-court-reservation/internal/config"
	"github.com/canchago/go-court-reservation/internal/domain/idempotency"
	"github.com/canchago/go-court-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/canchago/go-court-reservation/internal/infrastructure/redis"
	"github.com/canchago/go-court-reservation/internal/pkg/audit"
	"github.com/canchago/go-court-reservation/internal/pkg/clock"
	"github.com/canchago/go-court-reservation/internal/pkg/logger"
	"github.com/canchago/go-court-reservation/internal/pkg/metrics"
	"github.com/canchago/go-court-reservation/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Set(logger.NewLogger(os.Getenv("APP_ENV")))
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisinfra.Ping(ctx, redisClient); err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		cancel()
	}

	venueRepo := postgres.NewVenueRepository(db)
	tariffRepo := postgres.NewTariffRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	idemRepo := postgres.NewIdempotencyRepository(db)
	txManager := postgres.NewTxManager(db)

	sysClock := clock.NewSystem()
	tariffCache := redisinfra.NewTariffCache(redisClient)
	lockManager := redisinfra.NewLockManager(redisClient)
	ledger := idempotency.NewLedger(idemRepo, sysClock.Now)

	tariffService := application.NewTariffService(venueRepo, tariffRepo, tariffCache, cfg.Booking.TariffCacheTTL)
	availabilityService := application.NewAvailabilityService(venueRepo, reservationRepo, sysClock)
	reservationService := application.NewReservationService(
		venueRepo, reservationRepo, tariffService, availabilityService,
		ledger, txManager, lockManager, audit.NewLogSink(), sysClock, cfg.Booking,
	)

	sweeper := worker.NewHoldSweeper(reservationService, cfg.Booking.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	appmiddleware.SetupMiddleware(e)
	e.Use(appmiddleware.PrometheusMiddleware(m))

	healthHandler := handler.NewHealthHandler()
	pricingHandler := handler.NewPricingHandler(tariffService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	reservationHandler := handler.NewReservationHandler(reservationService)

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), appmiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.GET("/venues/:venueId/pricing", pricingHandler.Resolve)
	v1.GET("/venues/:venueId/courts/:courtId/schedule", availabilityHandler.DaySchedule)

	reservations := v1.Group("/reservations", appmiddleware.RequireIdentity())
	reservations.POST("/hold", reservationHandler.CreateHold)
	reservations.POST("/:id/confirm", reservationHandler.Confirm)
	reservations.POST("/:id/cancel", reservationHandler.Cancel)
	reservations.POST("/:id/reschedule", reservationHandler.Reschedule)
	reservations.GET("/:id", reservationHandler.GetByID)
	reservations.GET("", reservationHandler.List)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
