package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/investmatch/admin-backend/internal/config"
	"github.com/investmatch/admin-backend/internal/handlers"
	"github.com/investmatch/admin-backend/internal/metrics"
	"github.com/investmatch/admin-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	collector *metrics.Collector,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	ticketHandler *handlers.TicketHandler,
	messageHandler *handlers.MessageHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	moderationHandler *handlers.ModerationHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	// Auth endpoints get a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Everything below is the operator console (JWT + staff role).
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.StaffRequired(db, cfg))

	admin.Get("/users", userHandler.List)
	admin.Get("/users/:id", userHandler.Get)
	admin.Patch("/users/:id", userHandler.Update)

	admin.Get("/tickets", ticketHandler.List)
	admin.Get("/tickets/:id", ticketHandler.Get)
	admin.Post("/tickets/:id/replies", ticketHandler.Reply)
	admin.Post("/tickets/:id/close", ticketHandler.Close)

	admin.Get("/conversations", messageHandler.ListConversations)
	admin.Get("/conversations/:id/messages", messageHandler.ListMessages)
	admin.Post("/messages/:id/flag", messageHandler.Flag)

	admin.Get("/analytics/dashboard", analyticsHandler.Dashboard)

	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Put("/moderation/reports/:id", moderationHandler.ActionReport)
	admin.Post("/moderation/reports/batch", moderationHandler.BatchAction)
	admin.Get("/moderation/batch/:id", moderationHandler.BatchStatus)
}
