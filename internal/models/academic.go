package models

import "time"

// Subject is a taught discipline (e.g. Mathematics).
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClassGroup is a cohort of students (e.g. Grade 10B).
type ClassGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name used by the schema.
func (ClassGroup) TableName() string { return "classes" }

// Enrollment registers a student for a subject within a class. The
// (student, subject, class) triple is the unit the enrollment oracle
// queries when gating quiz access.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:uq_enrollment" json:"student_id"`
	SubjectID uint      `gorm:"not null;uniqueIndex:uq_enrollment" json:"subject_id"`
	ClassID   uint      `gorm:"not null;uniqueIndex:uq_enrollment" json:"class_id"`
	CreatedAt time.Time `json:"created_at"`

	Student User       `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student"`
	Subject Subject    `gorm:"constraint:OnDelete:CASCADE" json:"subject"`
	Class   ClassGroup `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"class"`
}

// TeacherAssignment records that a teacher teaches a subject to a class.
// Quiz authoring is restricted to the teacher's own assignments.
type TeacherAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeacherID uint      `gorm:"not null;uniqueIndex:uq_teacher_assignment" json:"teacher_id"`
	SubjectID uint      `gorm:"not null;uniqueIndex:uq_teacher_assignment" json:"subject_id"`
	ClassID   uint      `gorm:"not null;uniqueIndex:uq_teacher_assignment" json:"class_id"`
	CreatedAt time.Time `json:"created_at"`

	Teacher User       `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"teacher"`
	Subject Subject    `gorm:"constraint:OnDelete:CASCADE" json:"subject"`
	Class   ClassGroup `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"class"`
}

// TableName keeps the pivot-style name for teacher assignments.
func (TeacherAssignment) TableName() string { return "teacher_subject_class" }
