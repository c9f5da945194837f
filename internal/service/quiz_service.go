package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/models"
	"github.com/quizdesk/quizdesk-api/internal/repository"
)

// QuizService orchestrates quiz authoring, publication and listing.
type QuizService interface {
	Create(ctx context.Context, payload dto.QuizCreateRequest, actor Actor) (dto.QuizResponse, error)
	Get(ctx context.Context, id uint, actor Actor) (dto.QuizResponse, error)
	Update(ctx context.Context, id uint, payload dto.QuizUpdateRequest, actor Actor) (dto.QuizResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	SetPublished(ctx context.Context, id uint, published bool, actor Actor) (dto.QuizResponse, error)
	ListForTeacher(ctx context.Context, actor Actor) ([]dto.QuizResponse, error)
	ListActiveForStudent(ctx context.Context, actor Actor) ([]dto.QuizResponse, error)
}

type quizService struct {
	quizzes   repository.QuizRepository
	directory EnrollmentService
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(quizzes repository.QuizRepository, directory EnrollmentService, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizzes,
		directory: directory,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "quiz_service").Logger(),
		now:       time.Now,
	}
}

// checkAssignment verifies the acting teacher is assigned the subject
// for every targeted class. Admins manage any quiz.
func (s *quizService) checkAssignment(ctx context.Context, actor Actor, subjectID uint, classIDs []uint) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}

	assigned, err := s.directory.IsTeacherAssigned(ctx, actor.ID, subjectID, classIDs)
	if err != nil {
		return err
	}
	if !assigned {
		return ErrTeacherNotAssigned
	}

	return nil
}

func (s *quizService) Create(ctx context.Context, payload dto.QuizCreateRequest, actor Actor) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	start, err := time.Parse(time.RFC3339, payload.StartTime)
	if err != nil {
		return dto.QuizResponse{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, payload.EndTime)
	if err != nil {
		return dto.QuizResponse{}, fmt.Errorf("invalid end time: %w", err)
	}
	if !end.After(start) {
		return dto.QuizResponse{}, ErrQuizWindowInvalid
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if title == "" {
		return dto.QuizResponse{}, errors.New("quiz title empty after sanitization")
	}

	if err := s.checkAssignment(ctx, actor, payload.SubjectID, payload.ClassIDs); err != nil {
		return dto.QuizResponse{}, err
	}

	classes := make([]models.ClassGroup, 0, len(payload.ClassIDs))
	for _, classID := range payload.ClassIDs {
		classes = append(classes, models.ClassGroup{ID: classID})
	}

	quiz := models.Quiz{
		Title:     title,
		TeacherID: actor.ID,
		SubjectID: payload.SubjectID,
		StartTime: start,
		EndTime:   end,
		TimeLimit: payload.TimeLimit,
		Classes:   classes,
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	created, err := s.quizzes.GetByID(ctx, quiz.ID)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", created.ID).Uint("teacher_id", actor.ID).Msg("quiz created")

	return dto.NewQuizResponse(created), nil
}

func (s *quizService) Get(ctx context.Context, id uint, actor Actor) (dto.QuizResponse, error) {
	quiz, err := s.loadQuiz(ctx, id)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	if actor.Role == models.RoleTeacher && quiz.TeacherID != actor.ID {
		return dto.QuizResponse{}, ErrNotQuizOwner
	}

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Update(ctx context.Context, id uint, payload dto.QuizUpdateRequest, actor Actor) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	if payload.Title != nil {
		title := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Title))
		if title == "" {
			return dto.QuizResponse{}, errors.New("quiz title empty after sanitization")
		}
		quiz.Title = title
	}

	start := quiz.StartTime
	end := quiz.EndTime
	if payload.StartTime != nil {
		if start, err = time.Parse(time.RFC3339, *payload.StartTime); err != nil {
			return dto.QuizResponse{}, fmt.Errorf("invalid start time: %w", err)
		}
	}
	if payload.EndTime != nil {
		if end, err = time.Parse(time.RFC3339, *payload.EndTime); err != nil {
			return dto.QuizResponse{}, fmt.Errorf("invalid end time: %w", err)
		}
	}
	if !end.After(start) {
		return dto.QuizResponse{}, ErrQuizWindowInvalid
	}
	quiz.StartTime = start
	quiz.EndTime = end

	if payload.TimeLimit != nil {
		quiz.TimeLimit = *payload.TimeLimit
	}

	if len(payload.ClassIDs) > 0 {
		if err := s.checkAssignment(ctx, actor, quiz.SubjectID, payload.ClassIDs); err != nil {
			return dto.QuizResponse{}, err
		}
	}

	if err := s.quizzes.Update(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	if len(payload.ClassIDs) > 0 {
		classes := make([]models.ClassGroup, 0, len(payload.ClassIDs))
		for _, classID := range payload.ClassIDs {
			classes = append(classes, models.ClassGroup{ID: classID})
		}
		if err := s.quizzes.ReplaceClasses(ctx, &quiz, classes); err != nil {
			return dto.QuizResponse{}, err
		}
	}

	s.invalidateStudentListings(ctx)

	updated, err := s.quizzes.GetByID(ctx, quiz.ID)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Msg("quiz updated")

	return dto.NewQuizResponse(updated), nil
}

func (s *quizService) Delete(ctx context.Context, id uint, actor Actor) error {
	if _, err := s.loadOwned(ctx, id, actor); err != nil {
		return err
	}

	if err := s.quizzes.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateStudentListings(ctx)
	s.logger.Info().Uint("quiz_id", id).Msg("quiz deleted with cascade")

	return nil
}

// SetPublished toggles quiz visibility. Publishing a quiz with no
// questions is rejected; there would be nothing to grade.
func (s *quizService) SetPublished(ctx context.Context, id uint, published bool, actor Actor) (dto.QuizResponse, error) {
	quiz, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	if published && len(quiz.Questions) == 0 {
		return dto.QuizResponse{}, ErrQuizWithoutQuestions
	}

	if quiz.IsPublished != published {
		quiz.IsPublished = published
		if published {
			publishedAt := s.now()
			publishedBy := actor.ID
			quiz.PublishedAt = &publishedAt
			quiz.PublishedBy = &publishedBy
		} else {
			quiz.PublishedAt = nil
			quiz.PublishedBy = nil
		}

		if err := s.quizzes.Update(ctx, &quiz); err != nil {
			return dto.QuizResponse{}, err
		}

		s.invalidateStudentListings(ctx)
		s.logger.Info().Uint("quiz_id", quiz.ID).Bool("published", published).Msg("quiz publication changed")
	}

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) ListForTeacher(ctx context.Context, actor Actor) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizzes.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizResponseSlice(quizzes), nil
}

// ListActiveForStudent lists published, in-window quizzes matching the
// student's enrollments, cached briefly since students poll this view.
func (s *quizService) ListActiveForStudent(ctx context.Context, actor Actor) ([]dto.QuizResponse, error) {
	cacheKey := fmt.Sprintf("quizzes:active:student:%d", actor.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var responses []dto.QuizResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &responses); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", actor.ID).Msg("active quiz cache hit")
				return responses, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read active quiz cache")
		}
	}

	quizzes, err := s.quizzes.ListActiveForStudent(ctx, actor.ID, s.now())
	if err != nil {
		return nil, err
	}

	responses := dto.NewQuizResponseSlice(quizzes)

	if s.cache != nil {
		if payload, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store active quiz cache")
			}
		}
	}

	return responses, nil
}

// invalidateStudentListings drops all per-student active-quiz cache
// entries after a quiz changes visibility or shape.
func (s *quizService) invalidateStudentListings(ctx context.Context) {
	if s.cache == nil {
		return
	}

	iter := s.cache.Scan(ctx, 0, "quizzes:active:student:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate active quiz cache entry")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to scan active quiz cache")
	}
}

func (s *quizService) loadQuiz(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, ErrQuizNotFound
		}
		return models.Quiz{}, err
	}

	return quiz, nil
}

func (s *quizService) loadOwned(ctx context.Context, id uint, actor Actor) (models.Quiz, error) {
	quiz, err := s.loadQuiz(ctx, id)
	if err != nil {
		return models.Quiz{}, err
	}

	if actor.Role != models.RoleAdmin && quiz.TeacherID != actor.ID {
		return models.Quiz{}, ErrNotQuizOwner
	}

	return quiz, nil
}
