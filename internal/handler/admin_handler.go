package handler

import (
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the admin statistics dashboard.
type AdminHandler struct {
	statsService service.StatsService
}

// NewAdminHandler creates a new instance of AdminHandler.
func NewAdminHandler(statsService service.StatsService) *AdminHandler {
	return &AdminHandler{statsService: statsService}
}

// GetStatistics handles GET /api/admin/statistics.
func (h *AdminHandler) GetStatistics(c *fiber.Ctx) error {
	resp, err := h.statsService.GetStatistics(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
