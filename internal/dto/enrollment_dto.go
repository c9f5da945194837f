package dto

import (
	"time"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// EnrollmentCreateRequest registers a student for a subject in a class.
type EnrollmentCreateRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
	SubjectID uint `json:"subject_id" validate:"required,gt=0"`
	ClassID   uint `json:"class_id" validate:"required,gt=0"`
}

// TeacherAssignmentCreateRequest assigns a teacher a subject in a class.
type TeacherAssignmentCreateRequest struct {
	TeacherID uint `json:"teacher_id" validate:"required,gt=0"`
	SubjectID uint `json:"subject_id" validate:"required,gt=0"`
	ClassID   uint `json:"class_id" validate:"required,gt=0"`
}

// EnrollmentResponse serializes one enrollment with its display names.
type EnrollmentResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	SubjectID   uint      `json:"subject_id"`
	SubjectName string    `json:"subject_name,omitempty"`
	ClassID     uint      `json:"class_id"`
	ClassName   string    `json:"class_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		SubjectID:   model.SubjectID,
		SubjectName: model.Subject.Name,
		ClassID:     model.ClassID,
		ClassName:   model.Class.Name,
		CreatedAt:   model.CreatedAt,
	}
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
