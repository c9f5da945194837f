package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// EnrollmentRepository defines data operations over the enrollment directory.
type EnrollmentRepository interface {
	Exists(ctx context.Context, studentID, subjectID uint, classIDs []uint) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Exists(ctx context.Context, studentID, subjectID uint, classIDs []uint) (bool, error) {
	if len(classIDs) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Where("subject_id = ?", subjectID).
		Where("class_id IN ?", classIDs).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Preload("Subject").
		Preload("Class").
		Where("student_id = ?", studentID).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	return enrollments, nil
}
