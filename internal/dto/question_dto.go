package dto

import (
	"time"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// QuestionBatchRequest adds one or more questions to a quiz.
type QuestionBatchRequest struct {
	QuizID    uint                    `json:"quiz_id" validate:"required,gt=0"`
	Questions []QuestionCreateRequest `json:"questions" validate:"required,min=1,dive"`
}

// QuestionCreateRequest describes one question in a batch. The payload a
// type requires differs: mcq needs Options with exactly one marked
// correct, matching needs Pairs, short_answer needs neither.
type QuestionCreateRequest struct {
	Type    string                `json:"type" validate:"required,oneof=mcq short_answer matching"`
	Content string                `json:"content" validate:"required,min=1,max=500"`
	Marks   int                   `json:"marks" validate:"required,gt=0"`
	Options []OptionCreateRequest `json:"options" validate:"omitempty,min=2,dive"`
	Pairs   []PairCreateRequest   `json:"pairs" validate:"omitempty,min=1,dive"`
}

// OptionCreateRequest is one mcq choice.
type OptionCreateRequest struct {
	Content   string `json:"content" validate:"required,min=1"`
	IsCorrect bool   `json:"is_correct"`
}

// PairCreateRequest is one matching association.
type PairCreateRequest struct {
	Left  string `json:"left" validate:"required,min=1"`
	Right string `json:"right" validate:"required,min=1"`
}

// QuestionBrief summarizes a question without exposing correctness data;
// it is safe to return to students taking the quiz.
type QuestionBrief struct {
	ID      uint     `json:"id"`
	Type    string   `json:"type"`
	Content string   `json:"content"`
	Marks   int      `json:"marks"`
	Options []string `json:"options,omitempty"`
	Lefts   []string `json:"lefts,omitempty"`
	Rights  []string `json:"rights,omitempty"`
}

// QuestionResponse is the teacher-facing representation including the
// answer key.
type QuestionResponse struct {
	ID            uint           `json:"id"`
	QuizID        uint           `json:"quiz_id"`
	Type          string         `json:"type"`
	Content       string         `json:"content"`
	Marks         int            `json:"marks"`
	CorrectAnswer *string        `json:"correct_answer,omitempty"`
	Options       []OptionDetail `json:"options,omitempty"`
	Pairs         []PairDetail   `json:"pairs,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// OptionDetail serializes an option with its correctness flag.
type OptionDetail struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

// PairDetail serializes a matching pair.
type PairDetail struct {
	ID    uint   `json:"id"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// NewQuestionBrief converts a model, hiding the answer key.
func NewQuestionBrief(model models.Question) QuestionBrief {
	brief := QuestionBrief{
		ID:      model.ID,
		Type:    model.Type,
		Content: model.Content,
		Marks:   model.Marks,
	}

	for _, option := range model.Options {
		brief.Options = append(brief.Options, option.Content)
	}

	for _, pair := range model.MatchingPairs {
		brief.Lefts = append(brief.Lefts, pair.LeftValue)
		brief.Rights = append(brief.Rights, pair.RightValue)
	}

	return brief
}

// NewQuestionBriefSlice converts a slice of models into student-safe DTOs.
func NewQuestionBriefSlice(questions []models.Question) []QuestionBrief {
	briefs := make([]QuestionBrief, 0, len(questions))
	for _, question := range questions {
		briefs = append(briefs, NewQuestionBrief(question))
	}

	return briefs
}

// NewQuestionResponse converts a model into the teacher-facing DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	response := QuestionResponse{
		ID:            model.ID,
		QuizID:        model.QuizID,
		Type:          model.Type,
		Content:       model.Content,
		Marks:         model.Marks,
		CorrectAnswer: model.CorrectAnswer,
		CreatedAt:     model.CreatedAt,
	}

	for _, option := range model.Options {
		response.Options = append(response.Options, OptionDetail{ID: option.ID, Content: option.Content, IsCorrect: option.IsCorrect})
	}

	for _, pair := range model.MatchingPairs {
		response.Pairs = append(response.Pairs, PairDetail{ID: pair.ID, Left: pair.LeftValue, Right: pair.RightValue})
	}

	return response
}

// NewQuestionResponseSlice converts a slice of models into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}
