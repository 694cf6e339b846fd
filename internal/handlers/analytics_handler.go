package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/investmatch/admin-backend/internal/dto"
	"github.com/investmatch/admin-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.analyticsService.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute dashboard stats",
		})
	}
	return c.JSON(stats)
}
