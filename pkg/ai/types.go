package ai

import "context"

// SuggestionInput contains the artefacts needed to suggest a score for a
// short-answer response.
type SuggestionInput struct {
	Question      string
	ModelAnswer   string
	StudentAnswer string
	MaxMarks      int
}

// SuggestionResult is the advisory score returned by the assistant. The
// teacher posting the final score remains the decider.
type SuggestionResult struct {
	Score     float64                `json:"score"`
	Rationale string                 `json:"rationale"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

// Suggester describes an AI model capable of proposing short-answer scores.
type Suggester interface {
	Suggest(ctx context.Context, input SuggestionInput) (SuggestionResult, error)
}
