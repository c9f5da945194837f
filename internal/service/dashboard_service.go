package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/models"
	"github.com/quizdesk/quizdesk-api/internal/repository"
)

const dashboardCacheKey = "dashboard:admin:statistics"

// upcomingWindow bounds the "starting soon" quiz listing.
const upcomingWindow = 7 * 24 * time.Hour

// DashboardService produces the aggregated admin statistics view.
type DashboardService interface {
	GetStatistics(ctx context.Context) (dto.DashboardStatistics, error)
}

type dashboardService struct {
	repo     repository.DashboardRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(repo repository.DashboardRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) GetStatistics(ctx context.Context) (dto.DashboardStatistics, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var stats dto.DashboardStatistics
			if unmarshalErr := json.Unmarshal([]byte(cached), &stats); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard cache hit")
				return stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	stats, err := s.buildStatistics(ctx)
	if err != nil {
		return dto.DashboardStatistics{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return stats, nil
}

func (s *dashboardService) buildStatistics(ctx context.Context) (dto.DashboardStatistics, error) {
	stats := dto.DashboardStatistics{GeneratedAt: s.now()}

	var err error
	if stats.Users.Students, err = s.repo.CountUsersByRole(ctx, models.RoleStudent); err != nil {
		return dto.DashboardStatistics{}, err
	}
	if stats.Users.Teachers, err = s.repo.CountUsersByRole(ctx, models.RoleTeacher); err != nil {
		return dto.DashboardStatistics{}, err
	}
	if stats.Users.Admins, err = s.repo.CountUsersByRole(ctx, models.RoleAdmin); err != nil {
		return dto.DashboardStatistics{}, err
	}

	if stats.Quizzes.Published, err = s.repo.CountQuizzes(ctx, true); err != nil {
		return dto.DashboardStatistics{}, err
	}
	if stats.Quizzes.Unpublished, err = s.repo.CountQuizzes(ctx, false); err != nil {
		return dto.DashboardStatistics{}, err
	}

	total, released, err := s.repo.CountAttempts(ctx)
	if err != nil {
		return dto.DashboardStatistics{}, err
	}
	stats.Attempts = dto.AttemptCounts{Total: total, Released: released, Pending: total - released}

	from := s.now()
	upcoming, err := s.repo.ListUpcomingQuizzes(ctx, from, from.Add(upcomingWindow))
	if err != nil {
		return dto.DashboardStatistics{}, err
	}
	stats.UpcomingQuizzes = dto.NewUpcomingQuizzes(upcoming)

	return stats, nil
}
