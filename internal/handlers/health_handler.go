package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/investmatch/admin-backend/internal/database"
	"github.com/investmatch/admin-backend/internal/dto"
	"github.com/investmatch/admin-backend/internal/moderation"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	redis *redis.Client
	store *moderation.Store
}

func NewHealthHandler(redisClient *redis.Client, store *moderation.Store) *HealthHandler {
	return &HealthHandler{redis: redisClient, store: store}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	redisStatus := "ok"
	if err := h.redis.Ping(c.Context()).Err(); err != nil {
		redisStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Redis:     redisStatus,
		Reports:   h.store.Len(),
	})
}
