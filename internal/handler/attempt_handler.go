package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/service"
	"github.com/quizdesk/quizdesk-api/internal/utils"
)

// AttemptHandler manages quiz submission, attempt retrieval and score
// release.
type AttemptHandler struct {
	service service.AttemptService
	logger  zerolog.Logger
}

func NewAttemptHandler(service service.AttemptService, logger zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{
		service: service,
		logger:  logger.With().Str("component", "attempt_handler").Logger(),
	}
}

// RegisterStudent attaches the submit route to the student group.
func (h *AttemptHandler) RegisterStudent(router fiber.Router) {
	router.Post("/quizzes/:id/submit", h.submit)
}

// RegisterRead attaches attempt retrieval. Ownership and score visibility
// checks happen in the service against the acting user.
func (h *AttemptHandler) RegisterRead(router fiber.Router) {
	router.Get("/attempts/:id", h.get)
}

// RegisterRelease attaches the score release route.
func (h *AttemptHandler) RegisterRelease(router fiber.Router) {
	router.Put("/attempts/:id/release", h.release)
}

func (h *AttemptHandler) submit(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmitQuizRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.QuizID = quizID

	result, err := h.service.Submit(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz submitted", result)
}

func (h *AttemptHandler) get(c *fiber.Ctx) error {
	attemptID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	attempt, err := h.service.Get(c.UserContext(), attemptID, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attempt retrieved", attempt)
}

func (h *AttemptHandler) release(c *fiber.Ctx) error {
	attemptID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	attempt, err := h.service.Release(c.UserContext(), attemptID, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attempt released", attempt)
}

func (h *AttemptHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "answer references an unknown question")
	case errors.Is(err, service.ErrAttemptNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "attempt not found")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusForbidden, "not enrolled for this quiz")
	case errors.Is(err, service.ErrNotQuizOwner):
		return utils.SendError(c, fiber.StatusForbidden, "quiz belongs to another teacher")
	case errors.Is(err, service.ErrAttemptExists):
		return utils.SendError(c, fiber.StatusConflict, "quiz already attempted")
	case errors.Is(err, service.ErrDuplicateAnswer):
		return utils.SendError(c, fiber.StatusBadRequest, "duplicate question in submission")
	case errors.Is(err, service.ErrQuizNotPublished):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "quiz is not published")
	case errors.Is(err, service.ErrQuizWindowClosed):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "quiz window is closed")
	case errors.Is(err, service.ErrAttemptNotGraded):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "attempt still has ungraded answers")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
