package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk-api/internal/service"
	"github.com/quizdesk/quizdesk-api/internal/utils"
)

// DashboardHandler serves aggregate statistics for administrators.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches dashboard routes to the admin group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/statistics", h.statistics)
}

func (h *DashboardHandler) statistics(c *fiber.Ctx) error {
	stats, err := h.service.GetStatistics(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "statistics retrieved", stats)
}
