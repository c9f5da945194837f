package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/service"
	"github.com/quizdesk/quizdesk-api/internal/utils"
)

// QuestionHandler manages question authoring endpoints.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register attaches question routes under the teacher quiz group.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Post("/:id/questions", h.addBatch)
	router.Get("/:id/questions", h.listByQuiz)
}

// RegisterDelete attaches the standalone question deletion route.
func (h *QuestionHandler) RegisterDelete(router fiber.Router) {
	router.Delete("/questions/:id", h.delete)
}

func (h *QuestionHandler) addBatch(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.QuestionBatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.QuizID = quizID

	questions, err := h.service.AddBatch(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "questions created", questions)
}

func (h *QuestionHandler) listByQuiz(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	questions, err := h.service.ListByQuiz(c.UserContext(), quizID, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *QuestionHandler) delete(c *fiber.Ctx) error {
	questionID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), questionID, actorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question deleted", nil)
}

func (h *QuestionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrNotQuizOwner):
		return utils.SendError(c, fiber.StatusForbidden, "quiz belongs to another teacher")
	case errors.Is(err, service.ErrDuplicateQuestion):
		return utils.SendError(c, fiber.StatusConflict, "duplicate question content for this quiz")
	case errors.Is(err, service.ErrOptionCountInvalid):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "multiple choice questions need at least two options")
	case errors.Is(err, service.ErrCorrectOptionInvalid):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "exactly one option must be marked correct")
	case errors.Is(err, service.ErrPairsRequired):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "matching questions need at least one pair")
	case errors.Is(err, service.ErrDuplicateLeftValue):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "matching pairs must have distinct left values")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
