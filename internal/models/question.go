package models

import "time"

// Question types form a closed set; the grading engine dispatches on them
// exhaustively.
const (
	// QuestionTypeMCQ is a single-choice question graded against the
	// cached correct option content.
	QuestionTypeMCQ = "mcq"
	// QuestionTypeShortAnswer is free text awaiting manual grading.
	QuestionTypeShortAnswer = "short_answer"
	// QuestionTypeMatching is a left-to-right pairing graded
	// proportionally per correct pair.
	QuestionTypeMatching = "matching"
)

// QuestionTypes lists every supported question type.
var QuestionTypes = []string{QuestionTypeMCQ, QuestionTypeShortAnswer, QuestionTypeMatching}

// Question belongs to exactly one quiz and carries the correctness data
// its type needs: Options for mcq, MatchingPairs for matching, and a
// cached CorrectAnswer resolved at authoring time for mcq.
type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuizID        uint      `gorm:"not null;index" json:"quiz_id"`
	Type          string    `gorm:"size:32;not null" json:"type"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Marks         int       `gorm:"not null" json:"marks"`
	CorrectAnswer *string   `gorm:"type:text" json:"correct_answer,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Quiz          Quiz           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Options       []Option       `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
	MatchingPairs []MatchingPair `gorm:"constraint:OnDelete:CASCADE" json:"matching_pairs,omitempty"`
}

// PairMap builds the question's correct left-to-right mapping from its
// matching pairs. Empty for non-matching questions.
func (q Question) PairMap() map[string]string {
	pairs := make(map[string]string, len(q.MatchingPairs))
	for _, pair := range q.MatchingPairs {
		pairs[pair.LeftValue] = pair.RightValue
	}
	return pairs
}

// Option is one selectable choice of an mcq question.
type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

// MatchingPair is one correct left-to-right association of a matching
// question; the full set of pairs defines the question's answer key.
type MatchingPair struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	LeftValue  string    `gorm:"type:text;not null" json:"left_value"`
	RightValue string    `gorm:"type:text;not null" json:"right_value"`
	CreatedAt  time.Time `json:"created_at"`
}
