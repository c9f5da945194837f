package models

import (
	"time"

	"gorm.io/datatypes"
)

// Attempt is one student's submission instance for one quiz. The
// (student, quiz) pair is unique: a second submission is a conflict, never
// an overwrite. Score stays nil until every answer is graded; IsPublished
// is the release flag gating student visibility of the score.
type Attempt struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	QuizID      uint       `gorm:"not null;uniqueIndex:uq_attempts_student_quiz" json:"quiz_id"`
	StudentID   uint       `gorm:"not null;uniqueIndex:uq_attempts_student_quiz" json:"student_id"`
	Score       *float64   `json:"score"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsPublished bool       `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Quiz    Quiz     `gorm:"constraint:OnDelete:CASCADE" json:"quiz"`
	Student User     `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student"`
	Answers []Answer `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

// FullyGraded reports whether every answer carries a final mark. Answers
// pending manual grading keep MarksObtained nil, so any nil defers this.
func (a Attempt) FullyGraded() bool {
	for _, answer := range a.Answers {
		if answer.MarksObtained == nil {
			return false
		}
	}
	return len(a.Answers) > 0
}

// Answer records a student's response to one question of an attempt.
// StudentAnswer is stored as JSON because its shape depends on the
// question type: a string for mcq and short_answer, an object for
// matching. MarksObtained nil means "awaiting manual grading", which is
// distinct from a graded zero.
type Answer struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AttemptID     uint           `gorm:"not null;uniqueIndex:uq_answers_attempt_question" json:"attempt_id"`
	QuestionID    uint           `gorm:"not null;uniqueIndex:uq_answers_attempt_question" json:"question_id"`
	StudentAnswer datatypes.JSON `gorm:"type:json" json:"student_answer"`
	IsCorrect     bool           `gorm:"not null;default:false" json:"is_correct"`
	MarksObtained *float64       `gorm:"type:decimal(5,2)" json:"marks_obtained"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Question Question `gorm:"constraint:OnDelete:CASCADE" json:"question,omitempty"`
}

// Graded reports whether the answer carries a final mark.
func (a Answer) Graded() bool {
	return a.MarksObtained != nil
}
