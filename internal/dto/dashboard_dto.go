package dto

import (
	"time"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// DashboardStatistics aggregates counts for the admin dashboard.
type DashboardStatistics struct {
	Users           UserCounts     `json:"users"`
	Quizzes         QuizCounts     `json:"quizzes"`
	Attempts        AttemptCounts  `json:"attempts"`
	UpcomingQuizzes []QuizResponse `json:"upcoming_quizzes"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// UserCounts breaks the user directory down by role.
type UserCounts struct {
	Students int64 `json:"students"`
	Teachers int64 `json:"teachers"`
	Admins   int64 `json:"admins"`
}

// QuizCounts breaks quizzes down by publication state.
type QuizCounts struct {
	Published   int64 `json:"published"`
	Unpublished int64 `json:"unpublished"`
}

// AttemptCounts breaks attempts down by release state.
type AttemptCounts struct {
	Total    int64 `json:"total"`
	Released int64 `json:"released"`
	Pending  int64 `json:"pending"`
}

// NewUpcomingQuizzes converts quizzes starting soon into DTOs.
func NewUpcomingQuizzes(quizzes []models.Quiz) []QuizResponse {
	return NewQuizResponseSlice(quizzes)
}
