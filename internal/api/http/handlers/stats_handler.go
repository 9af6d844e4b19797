package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/service"
)

// StatsHandler exposes dashboard counters.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetStats GET /stats.
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.stats.ComputeStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
