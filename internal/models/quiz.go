package models

import "time"

// Quiz is a timed, published-gated set of questions authored by a teacher
// for one subject and one or more classes.
type Quiz struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	TeacherID   uint       `gorm:"not null;index:idx_quizzes_subject_teacher" json:"teacher_id"`
	SubjectID   uint       `gorm:"not null;index:idx_quizzes_subject_teacher" json:"subject_id"`
	StartTime   time.Time  `gorm:"not null" json:"start_time"`
	EndTime     time.Time  `gorm:"not null" json:"end_time"`
	TimeLimit   int        `gorm:"not null" json:"time_limit"`
	IsPublished bool       `gorm:"not null;default:false" json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
	PublishedBy *uint      `json:"published_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Teacher   User         `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"teacher"`
	Subject   Subject      `gorm:"constraint:OnDelete:CASCADE" json:"subject"`
	Classes   []ClassGroup `gorm:"many2many:quiz_classes;joinForeignKey:QuizID;joinReferences:ClassID" json:"classes"`
	Questions []Question   `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// WindowContains reports whether the reference instant falls inside the
// quiz availability window. Evaluated at submission time only.
func (q Quiz) WindowContains(reference time.Time) bool {
	return !reference.Before(q.StartTime) && !reference.After(q.EndTime)
}

// ClassIDs returns the ids of all classes the quiz is assigned to.
func (q Quiz) ClassIDs() []uint {
	ids := make([]uint, 0, len(q.Classes))
	for _, class := range q.Classes {
		ids = append(ids, class.ID)
	}
	return ids
}
