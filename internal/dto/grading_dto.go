package dto

import (
	"encoding/json"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// ManualScoreRequest posts a teacher-supplied score for one short-answer
// response. The upper bound is the question's marks, enforced by the
// grading service rather than a validator tag.
type ManualScoreRequest struct {
	Score float64 `json:"score" validate:"gte=0"`
}

// ManualScoreResponse reports the recomputed attempt total.
type ManualScoreResponse struct {
	AttemptID  uint    `json:"attempt_id"`
	QuestionID uint    `json:"question_id"`
	Score      float64 `json:"score"`
	NewTotal   float64 `json:"new_total"`
}

// PendingShortAnswer is one short-answer response awaiting manual grading.
type PendingShortAnswer struct {
	AttemptID     uint            `json:"attempt_id"`
	StudentID     uint            `json:"student_id"`
	StudentName   string          `json:"student_name"`
	QuestionID    uint            `json:"question_id"`
	Question      string          `json:"question"`
	StudentAnswer json.RawMessage `json:"student_answer"`
	MaxMarks      int             `json:"max_marks"`
	MarksObtained *float64        `json:"marks_obtained"`
}

// ScoreSuggestion is an advisory AI-produced score for a pending short
// answer; the teacher remains the decider.
type ScoreSuggestion struct {
	AttemptID  uint    `json:"attempt_id"`
	QuestionID uint    `json:"question_id"`
	Suggested  float64 `json:"suggested"`
	Rationale  string  `json:"rationale"`
}

// NewPendingShortAnswer builds the DTO from an answer and its context.
func NewPendingShortAnswer(attempt models.Attempt, answer models.Answer) PendingShortAnswer {
	return PendingShortAnswer{
		AttemptID:     attempt.ID,
		StudentID:     attempt.StudentID,
		StudentName:   attempt.Student.Name,
		QuestionID:    answer.QuestionID,
		Question:      answer.Question.Content,
		StudentAnswer: json.RawMessage(answer.StudentAnswer),
		MaxMarks:      answer.Question.Marks,
		MarksObtained: answer.MarksObtained,
	}
}
