package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// AssignmentRepository defines data operations over the teacher
// assignment directory.
type AssignmentRepository interface {
	// Assigned reports whether the teacher is assigned the subject for
	// every one of the given classes.
	Assigned(ctx context.Context, teacherID, subjectID uint, classIDs []uint) (bool, error)
	Create(ctx context.Context, assignment *models.TeacherAssignment) error
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.TeacherAssignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Assigned(ctx context.Context, teacherID, subjectID uint, classIDs []uint) (bool, error) {
	if len(classIDs) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeacherAssignment{}).
		Where("teacher_id = ?", teacherID).
		Where("subject_id = ?", subjectID).
		Where("class_id IN ?", classIDs).
		Distinct("class_id").
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count == int64(len(uniqueIDs(classIDs))), nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.TeacherAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.TeacherAssignment, error) {
	var assignments []models.TeacherAssignment
	err := r.db.WithContext(ctx).Model(&models.TeacherAssignment{}).
		Preload("Subject").
		Preload("Class").
		Where("teacher_id = ?", teacherID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
