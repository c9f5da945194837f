package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/service"
	"github.com/quizdesk/quizdesk-api/internal/utils"
)

// GradingHandler manages manual grading of short-answer responses.
type GradingHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

func NewGradingHandler(service service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service: service,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches grading routes to the teacher group.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Get("/quizzes/:id/pending", h.listPending)
	router.Put("/attempts/:attemptId/answers/:questionId/score", h.updateScore)
	router.Get("/attempts/:attemptId/answers/:questionId/suggestion", h.suggestScore)
}

func (h *GradingHandler) listPending(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	pending, err := h.service.ListPending(c.UserContext(), quizID, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "pending answers retrieved", pending)
}

func (h *GradingHandler) updateScore(c *fiber.Ctx) error {
	attemptID, err := parseUintParam(c, "attemptId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	questionID, err := parseUintParam(c, "questionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ManualScoreRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.UpdateManualScore(c.UserContext(), attemptID, questionID, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "score updated", result)
}

func (h *GradingHandler) suggestScore(c *fiber.Ctx) error {
	attemptID, err := parseUintParam(c, "attemptId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	questionID, err := parseUintParam(c, "questionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	suggestion, err := h.service.SuggestScore(c.UserContext(), attemptID, questionID, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "suggestion generated", suggestion)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
	case errors.Is(err, service.ErrAttemptNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "attempt not found")
	case errors.Is(err, service.ErrAnswerNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "answer not found")
	case errors.Is(err, service.ErrNotQuizOwner):
		return utils.SendError(c, fiber.StatusForbidden, "quiz belongs to another teacher")
	case errors.Is(err, service.ErrNotShortAnswer):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "manual scores apply to short answers only")
	case errors.Is(err, service.ErrScoreOutOfRange):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "score outside the question's mark range")
	case errors.Is(err, service.ErrAssistUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "grading assistant not configured")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
