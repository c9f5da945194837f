package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/service"
	"github.com/quizdesk/quizdesk-api/internal/utils"
)

// EnrollmentHandler manages enrollment administration.
type EnrollmentHandler struct {
	service  service.EnrollmentService
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewEnrollmentHandler(service service.EnrollmentService, validate *validator.Validate, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches enrollment routes to the admin group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("/enrollments", h.create)
	router.Get("/students/:id/enrollments", h.listForStudent)
	router.Post("/teacher-assignments", h.assignTeacher)
}

func (h *EnrollmentHandler) create(c *fiber.Ctx) error {
	var payload dto.EnrollmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Enroll(c.UserContext(), payload.StudentID, payload.SubjectID, payload.ClassID); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrollment recorded", nil)
}

func (h *EnrollmentHandler) assignTeacher(c *fiber.Ctx) error {
	var payload dto.TeacherAssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.AssignTeacher(c.UserContext(), payload.TeacherID, payload.SubjectID, payload.ClassID); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher assigned", nil)
}

func (h *EnrollmentHandler) listForStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	enrollments, err := h.service.ListForStudent(c.UserContext(), studentID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "enrollments retrieved", dto.NewEnrollmentResponseSlice(enrollments))
}
