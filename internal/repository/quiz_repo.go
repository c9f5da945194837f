package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// QuizRepository defines data operations for quizzes.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (models.Quiz, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	ReplaceClasses(ctx context.Context, quiz *models.Quiz, classes []models.ClassGroup) error
	Delete(ctx context.Context, id uint) error
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Quiz, error)
	ListActiveForStudent(ctx context.Context, studentID uint, now time.Time) ([]models.Quiz, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository instantiates the repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Quiz{}).
		Preload("Classes").
		Preload("Questions")
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.baseQuery(ctx).
		Preload("Questions.Options").
		Preload("Questions.MatchingPairs").
		First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}

	return quiz, nil
}

func (r *quizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Omit("Classes", "Questions").Save(quiz).Error
}

func (r *quizRepository) ReplaceClasses(ctx context.Context, quiz *models.Quiz, classes []models.ClassGroup) error {
	return r.db.WithContext(ctx).Model(quiz).Association("Classes").Replace(classes)
}

// Delete removes the quiz and everything hanging off it. The cascade is
// explicit so a partial failure rolls the whole deletion back.
func (r *quizRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}

		var attemptIDs []uint
		if err := tx.Model(&models.Attempt{}).Where("quiz_id = ?", id).Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}

		if len(attemptIDs) > 0 {
			if err := tx.Where("attempt_id IN ?", attemptIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Attempt{}).Error; err != nil {
			return err
		}

		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.MatchingPair{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM quiz_classes WHERE quiz_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Quiz{}, id).Error
	})
}

func (r *quizRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := r.baseQuery(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}

	return quizzes, nil
}

// ListActiveForStudent returns published quizzes whose window contains
// now and whose subject/class matches one of the student's enrollments.
func (r *quizRepository) ListActiveForStudent(ctx context.Context, studentID uint, now time.Time) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).Model(&models.Quiz{}).
		Preload("Classes").
		Joins("JOIN quiz_classes ON quiz_classes.quiz_id = quizzes.id").
		Joins("JOIN enrollments ON enrollments.subject_id = quizzes.subject_id AND enrollments.class_id = quiz_classes.class_id").
		Where("enrollments.student_id = ?", studentID).
		Where("quizzes.is_published = ?", true).
		Where("quizzes.start_time <= ? AND quizzes.end_time >= ?", now, now).
		Distinct().
		Order("quizzes.end_time ASC").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}

	return quizzes, nil
}
