package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// AttemptRepository defines data operations for attempts and their answers.
type AttemptRepository interface {
	// CreateWithAnswers persists the attempt and its answers atomically.
	// A duplicate (student, quiz) pair surfaces as gorm.ErrDuplicatedKey.
	CreateWithAnswers(ctx context.Context, attempt *models.Attempt) error
	GetByID(ctx context.Context, id uint) (models.Attempt, error)
	GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (models.Attempt, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]models.Attempt, error)
	GetAnswer(ctx context.Context, attemptID, questionID uint) (models.Answer, error)
	// ApplyAnswerMarks updates one answer's marks and recomputes the
	// attempt total from all persisted answers inside one transaction.
	ApplyAnswerMarks(ctx context.Context, answerID uint, marks float64, isCorrect bool) (float64, error)
	SetPublished(ctx context.Context, attemptID uint, published bool) error
}

type attemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository instantiates the repository.
func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Attempt{}).
		Preload("Quiz").
		Preload("Student").
		Preload("Answers").
		Preload("Answers.Question")
}

func (r *attemptRepository) CreateWithAnswers(ctx context.Context, attempt *models.Attempt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(attempt).Error
	})
}

func (r *attemptRepository) GetByID(ctx context.Context, id uint) (models.Attempt, error) {
	var attempt models.Attempt
	if err := r.baseQuery(ctx).First(&attempt, id).Error; err != nil {
		return models.Attempt{}, err
	}

	return attempt, nil
}

func (r *attemptRepository) GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (models.Attempt, error) {
	var attempt models.Attempt
	if err := r.baseQuery(ctx).
		Where("quiz_id = ?", quizID).
		Where("student_id = ?", studentID).
		First(&attempt).Error; err != nil {
		return models.Attempt{}, err
	}

	return attempt, nil
}

func (r *attemptRepository) ListByQuiz(ctx context.Context, quizID uint) ([]models.Attempt, error) {
	var attempts []models.Attempt
	if err := r.baseQuery(ctx).
		Where("quiz_id = ?", quizID).
		Order("created_at ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	return attempts, nil
}

func (r *attemptRepository) GetAnswer(ctx context.Context, attemptID, questionID uint) (models.Answer, error) {
	var answer models.Answer
	if err := r.db.WithContext(ctx).Model(&models.Answer{}).
		Preload("Question").
		Where("attempt_id = ?", attemptID).
		Where("question_id = ?", questionID).
		First(&answer).Error; err != nil {
		return models.Answer{}, err
	}

	return answer, nil
}

// ApplyAnswerMarks writes the answer and recomputes the attempt total as
// the sum of all non-null marks, never from a delta, so concurrent
// updates to sibling answers cannot lose each other's contribution.
func (r *attemptRepository) ApplyAnswerMarks(ctx context.Context, answerID uint, marks float64, isCorrect bool) (float64, error) {
	var total float64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.First(&answer, answerID).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"marks_obtained": marks,
			"is_correct":     isCorrect,
		}
		if err := tx.Model(&models.Answer{}).Where("id = ?", answerID).Updates(updates).Error; err != nil {
			return err
		}

		var err error
		total, err = recomputeAttemptScore(tx, answer.AttemptID)
		return err
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

// recomputeAttemptScore re-sums the attempt's non-null answer marks and
// writes the result, returning the new total.
func recomputeAttemptScore(tx *gorm.DB, attemptID uint) (float64, error) {
	var total float64
	row := tx.Model(&models.Answer{}).
		Select("COALESCE(SUM(marks_obtained), 0)").
		Where("attempt_id = ?", attemptID).
		Where("marks_obtained IS NOT NULL").
		Row()
	if err := row.Scan(&total); err != nil {
		return 0, err
	}

	err := tx.Model(&models.Attempt{}).
		Where("id = ?", attemptID).
		Update("score", total).Error
	return total, err
}

func (r *attemptRepository) SetPublished(ctx context.Context, attemptID uint, published bool) error {
	return r.db.WithContext(ctx).Model(&models.Attempt{}).
		Where("id = ?", attemptID).
		Update("is_published", published).Error
}
