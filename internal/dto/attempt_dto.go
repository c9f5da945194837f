package dto

import (
	"encoding/json"
	"time"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// AnswerSubmission pairs a question with the student's raw answer. The
// answer shape depends on the question type: a JSON string for mcq and
// short_answer, a JSON object of left-to-right picks for matching.
type AnswerSubmission struct {
	QuestionID uint            `json:"question_id" validate:"required,gt=0"`
	Answer     json.RawMessage `json:"answer"`
}

// SubmitQuizRequest is the payload for submitting a quiz attempt.
type SubmitQuizRequest struct {
	QuizID  uint               `json:"quiz_id" validate:"required,gt=0"`
	Answers []AnswerSubmission `json:"answers" validate:"required,min=1,dive"`
}

// SubmitQuizResponse reports the persisted attempt and its auto-graded
// running total.
type SubmitQuizResponse struct {
	AttemptID uint     `json:"attempt_id"`
	Score     float64  `json:"score"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// AnswerResponse serializes one graded answer.
type AnswerResponse struct {
	ID            uint            `json:"id"`
	QuestionID    uint            `json:"question_id"`
	StudentAnswer json.RawMessage `json:"student_answer"`
	IsCorrect     bool            `json:"is_correct"`
	MarksObtained *float64        `json:"marks_obtained"`
}

// AttemptResponse serializes an attempt. Score is omitted for students
// until the attempt has been released.
type AttemptResponse struct {
	ID          uint             `json:"id"`
	QuizID      uint             `json:"quiz_id"`
	StudentID   uint             `json:"student_id"`
	Score       *float64         `json:"score,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at"`
	IsPublished bool             `json:"is_published"`
	FullyGraded bool             `json:"fully_graded"`
	Answers     []AnswerResponse `json:"answers,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewAttemptResponse converts an Attempt model into a DTO. When
// includeScore is false the score and per-answer marks are withheld; the
// student may see that the submission exists but not its grading.
func NewAttemptResponse(model models.Attempt, includeScore bool) AttemptResponse {
	response := AttemptResponse{
		ID:          model.ID,
		QuizID:      model.QuizID,
		StudentID:   model.StudentID,
		ExpiresAt:   model.ExpiresAt,
		IsPublished: model.IsPublished,
		FullyGraded: model.FullyGraded(),
		CreatedAt:   model.CreatedAt,
	}

	if includeScore {
		response.Score = model.Score
	}

	response.Answers = make([]AnswerResponse, 0, len(model.Answers))
	for _, answer := range model.Answers {
		item := AnswerResponse{
			ID:            answer.ID,
			QuestionID:    answer.QuestionID,
			StudentAnswer: json.RawMessage(answer.StudentAnswer),
		}
		if includeScore {
			item.IsCorrect = answer.IsCorrect
			item.MarksObtained = answer.MarksObtained
		}
		response.Answers = append(response.Answers, item)
	}

	return response
}
