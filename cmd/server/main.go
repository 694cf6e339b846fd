package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/investmatch/admin-backend/internal/config"
	"github.com/investmatch/admin-backend/internal/database"
	"github.com/investmatch/admin-backend/internal/handlers"
	"github.com/investmatch/admin-backend/internal/logging"
	"github.com/investmatch/admin-backend/internal/metrics"
	"github.com/investmatch/admin-backend/internal/middleware"
	"github.com/investmatch/admin-backend/internal/moderation"
	"github.com/investmatch/admin-backend/internal/realtime"
	"github.com/investmatch/admin-backend/internal/routes"
	"github.com/investmatch/admin-backend/internal/services"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Redis (realtime events + dashboard cache)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		slog.Error("redis connection failed", "addr", cfg.RedisAddr(), "error", err)
		cancelPing()
		os.Exit(1)
	}
	cancelPing()

	// Moderation core: in-memory store seeded from the DB, batch action
	// processor and realtime reconciler both writing into it.
	store := moderation.NewStore()
	collector := metrics.NewCollector()

	reportService := services.NewReportService(database.DB)
	if err := reportService.Seed(store, ""); err != nil {
		slog.Error("initial report seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("report store seeded", "reports", store.Len())

	processor := moderation.NewProcessor(store, reportService, moderation.NewBackoff(), collector)
	tracker := moderation.NewTracker()
	reconciler := moderation.NewReconciler(store, collector)

	// Realtime pipeline: Redis pub/sub -> subscriber -> reconciler.
	realtimeCtx, stopRealtime := context.WithCancel(context.Background())
	subscriber := realtime.NewSubscriber(redisClient, cfg.EventChannel)
	go func() {
		if err := subscriber.Run(realtimeCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("realtime subscriber stopped", "error", err)
		}
	}()
	go func() {
		if err := reconciler.Run(realtimeCtx, subscriber.Events()); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("reconciler stopped", "error", err)
		}
	}()

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	userService := services.NewUserService(database.DB)
	ticketService := services.NewTicketService(database.DB)
	messageService := services.NewMessageService(database.DB, redisClient, cfg.EventChannel)
	analyticsService := services.NewAnalyticsService(database.DB, redisClient)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(redisClient, store)
	userHandler := handlers.NewUserHandler(userService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	messageHandler := handlers.NewMessageHandler(messageService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	moderationHandler := handlers.NewModerationHandler(store, processor, tracker, reconciler, reportService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, collector,
		authHandler, healthHandler, userHandler, ticketHandler,
		messageHandler, analyticsHandler, moderationHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	stopRealtime()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
