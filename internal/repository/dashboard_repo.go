package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// DashboardRepository aggregates counts for the admin dashboard.
type DashboardRepository interface {
	CountUsersByRole(ctx context.Context, role string) (int64, error)
	CountQuizzes(ctx context.Context, published bool) (int64, error)
	CountAttempts(ctx context.Context) (total int64, released int64, err error)
	ListUpcomingQuizzes(ctx context.Context, from, until time.Time) ([]models.Quiz, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository instantiates the repository.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountQuizzes(ctx context.Context, published bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Quiz{}).
		Where("is_published = ?", published).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountAttempts(ctx context.Context) (int64, int64, error) {
	var total, released int64
	if err := r.db.WithContext(ctx).Model(&models.Attempt{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Attempt{}).
		Where("is_published = ?", true).
		Count(&released).Error; err != nil {
		return 0, 0, err
	}

	return total, released, nil
}

func (r *dashboardRepository) ListUpcomingQuizzes(ctx context.Context, from, until time.Time) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).Model(&models.Quiz{}).
		Preload("Classes").
		Where("is_published = ?", true).
		Where("start_time BETWEEN ? AND ?", from, until).
		Order("start_time ASC").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}

	return quizzes, nil
}
