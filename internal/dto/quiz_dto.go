package dto

import (
	"time"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// QuizCreateRequest describes the payload for creating a quiz.
type QuizCreateRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=255"`
	SubjectID uint   `json:"subject_id" validate:"required,gt=0"`
	ClassIDs  []uint `json:"class_ids" validate:"required,min=1,dive,gt=0"`
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	TimeLimit int    `json:"time_limit" validate:"required,gt=0"`
}

// QuizUpdateRequest describes the payload for updating a quiz.
type QuizUpdateRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=3,max=255"`
	ClassIDs  []uint  `json:"class_ids" validate:"omitempty,min=1,dive,gt=0"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   *string `json:"end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	TimeLimit *int    `json:"time_limit" validate:"omitempty,gt=0"`
}

// QuizPublishRequest toggles the publication state of a quiz.
type QuizPublishRequest struct {
	IsPublished bool `json:"is_published"`
}

// QuizResponse is the serialized representation returned to API clients.
type QuizResponse struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	TeacherID     uint             `json:"teacher_id"`
	SubjectID     uint             `json:"subject_id"`
	StartTime     time.Time        `json:"start_time"`
	EndTime       time.Time        `json:"end_time"`
	TimeLimit     int              `json:"time_limit"`
	IsPublished   bool             `json:"is_published"`
	PublishedAt   *time.Time       `json:"published_at"`
	Classes       []ClassLite      `json:"classes"`
	QuestionCount int              `json:"question_count"`
	Questions     []QuestionBrief  `json:"questions,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ClassLite summarizes a class in quiz responses.
type ClassLite struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewQuizResponse converts a Quiz model into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	response := QuizResponse{
		ID:            model.ID,
		Title:         model.Title,
		TeacherID:     model.TeacherID,
		SubjectID:     model.SubjectID,
		StartTime:     model.StartTime,
		EndTime:       model.EndTime,
		TimeLimit:     model.TimeLimit,
		IsPublished:   model.IsPublished,
		PublishedAt:   model.PublishedAt,
		QuestionCount: len(model.Questions),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}

	response.Classes = make([]ClassLite, 0, len(model.Classes))
	for _, class := range model.Classes {
		response.Classes = append(response.Classes, ClassLite{ID: class.ID, Name: class.Name})
	}

	if len(model.Questions) > 0 {
		response.Questions = NewQuestionBriefSlice(model.Questions)
	}

	return response
}

// NewQuizResponseSlice converts a slice of models into DTOs.
func NewQuizResponseSlice(quizzes []models.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, NewQuizResponse(quiz))
	}

	return responses
}
