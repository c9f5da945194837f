package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// QuestionRepository defines data operations for questions and their
// type-specific payloads.
type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByID(ctx context.Context, id uint) (models.Question, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]models.Question, error)
	ContentExists(ctx context.Context, quizID uint, content string) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Question{}).
		Preload("Options").
		Preload("MatchingPairs")
}

// CreateBatch persists a batch of questions with their options and pairs
// in a single transaction; either the whole batch lands or none of it.
func (r *questionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, question := range questions {
			if err := tx.Create(question).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.baseQuery(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) ListByQuiz(ctx context.Context, quizID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := r.baseQuery(ctx).
		Where("quiz_id = ?", quizID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

// ContentExists checks for an exact, case-sensitive duplicate of the
// content within the same quiz.
func (r *questionRepository) ContentExists(ctx context.Context, quizID uint, content string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("quiz_id = ?", quizID).
		Where("content = ?", content).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Delete removes the question, its payloads and its answers, then
// recomputes the score of every attempt that had answered it so totals
// never keep marks from a question that no longer exists.
func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attemptIDs []uint
		if err := tx.Model(&models.Answer{}).
			Distinct("attempt_id").
			Where("question_id = ?", id).
			Pluck("attempt_id", &attemptIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("question_id = ?", id).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.MatchingPair{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Question{}, id).Error; err != nil {
			return err
		}

		for _, attemptID := range attemptIDs {
			if _, err := recomputeAttemptScore(tx, attemptID); err != nil {
				return err
			}
		}

		return nil
	})
}
