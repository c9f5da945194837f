package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/models"
	"github.com/quizdesk/quizdesk-api/internal/observability"
	"github.com/quizdesk/quizdesk-api/internal/repository"
	"github.com/quizdesk/quizdesk-api/pkg/ai"
)

// GradingService covers the manual side of grading: listing short-answer
// responses awaiting a teacher, posting scores, and advisory AI
// suggestions.
type GradingService interface {
	ListPending(ctx context.Context, quizID uint, actor Actor) ([]dto.PendingShortAnswer, error)
	UpdateManualScore(ctx context.Context, attemptID, questionID uint, payload dto.ManualScoreRequest, actor Actor) (dto.ManualScoreResponse, error)
	SuggestScore(ctx context.Context, attemptID, questionID uint, actor Actor) (dto.ScoreSuggestion, error)
}

type gradingService struct {
	attempts  repository.AttemptRepository
	quizzes   repository.QuizRepository
	validator *validator.Validate
	events    EventPublisher
	suggester ai.Suggester
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGradingService constructs a GradingService. The suggester may be nil
// when no AI provider is configured.
func NewGradingService(attempts repository.AttemptRepository, quizzes repository.QuizRepository, validate *validator.Validate, events EventPublisher, suggester ai.Suggester, logger zerolog.Logger) GradingService {
	return &gradingService{
		attempts:  attempts,
		quizzes:   quizzes,
		validator: validate,
		events:    events,
		suggester: suggester,
		logger:    logger.With().Str("component", "grading_service").Logger(),
		now:       time.Now,
	}
}

// ListPending returns every short-answer response for the quiz, graded or
// not, so the teacher can review and revise scores in one place.
func (s *gradingService) ListPending(ctx context.Context, quizID uint, actor Actor) ([]dto.PendingShortAnswer, error) {
	quiz, err := s.loadOwnedQuiz(ctx, quizID, actor)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}

	pending := make([]dto.PendingShortAnswer, 0)
	for _, attempt := range attempts {
		for _, answer := range attempt.Answers {
			if answer.Question.Type != models.QuestionTypeShortAnswer {
				continue
			}
			pending = append(pending, dto.NewPendingShortAnswer(attempt, answer))
		}
	}

	return pending, nil
}

// UpdateManualScore records a teacher-supplied score for one short answer
// and recomputes the attempt total from all persisted answers. Bounds are
// [0, question.marks]; correctness is score > 0.
func (s *gradingService) UpdateManualScore(ctx context.Context, attemptID, questionID uint, payload dto.ManualScoreRequest, actor Actor) (dto.ManualScoreResponse, error) {
	tracer := otel.Tracer("github.com/quizdesk/quizdesk-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.manual_score")
	span.SetAttributes(
		attribute.Int64("grading.attempt_id", int64(attemptID)),
		attribute.Int64("grading.question_id", int64(questionID)),
		attribute.Int64("grading.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ManualScoreResponse{}, err
	}

	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ManualScoreResponse{}, ErrAttemptNotFound
		}
		return dto.ManualScoreResponse{}, err
	}

	if actor.Role != models.RoleAdmin && attempt.Quiz.TeacherID != actor.ID {
		return dto.ManualScoreResponse{}, ErrNotQuizOwner
	}

	answer, err := s.attempts.GetAnswer(ctx, attemptID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ManualScoreResponse{}, ErrAnswerNotFound
		}
		return dto.ManualScoreResponse{}, err
	}

	if answer.Question.Type != models.QuestionTypeShortAnswer {
		return dto.ManualScoreResponse{}, ErrNotShortAnswer
	}

	if payload.Score < 0 || payload.Score > float64(answer.Question.Marks) {
		span.SetStatus(codes.Error, "score_out_of_range")
		return dto.ManualScoreResponse{}, ErrScoreOutOfRange
	}

	newTotal, err := s.attempts.ApplyAnswerMarks(ctx, answer.ID, payload.Score, payload.Score > 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "score_update_failed")
		return dto.ManualScoreResponse{}, err
	}

	observability.ManualScores().Inc()
	span.SetAttributes(attribute.Float64("grading.new_total", newTotal))

	s.events.Publish(EventAnswerGraded, AttemptEvent{
		AttemptID:  attempt.ID,
		QuizID:     attempt.QuizID,
		StudentID:  attempt.StudentID,
		QuestionID: questionID,
		Score:      &newTotal,
	})

	s.logger.Info().
		Uint("attempt_id", attempt.ID).
		Uint("question_id", questionID).
		Float64("score", payload.Score).
		Float64("new_total", newTotal).
		Msg("manual score recorded")

	return dto.ManualScoreResponse{
		AttemptID:  attempt.ID,
		QuestionID: questionID,
		Score:      payload.Score,
		NewTotal:   newTotal,
	}, nil
}

// SuggestScore asks the configured AI assistant for an advisory score.
// Nothing is persisted; the teacher still posts the final score.
func (s *gradingService) SuggestScore(ctx context.Context, attemptID, questionID uint, actor Actor) (dto.ScoreSuggestion, error) {
	if s.suggester == nil {
		return dto.ScoreSuggestion{}, ErrAssistUnavailable
	}

	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreSuggestion{}, ErrAttemptNotFound
		}
		return dto.ScoreSuggestion{}, err
	}

	if actor.Role != models.RoleAdmin && attempt.Quiz.TeacherID != actor.ID {
		return dto.ScoreSuggestion{}, ErrNotQuizOwner
	}

	answer, err := s.attempts.GetAnswer(ctx, attemptID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreSuggestion{}, ErrAnswerNotFound
		}
		return dto.ScoreSuggestion{}, err
	}

	if answer.Question.Type != models.QuestionTypeShortAnswer {
		return dto.ScoreSuggestion{}, ErrNotShortAnswer
	}

	studentText, _ := decodeChoice(answer.StudentAnswer)
	modelAnswer := ""
	if answer.Question.CorrectAnswer != nil {
		modelAnswer = *answer.Question.CorrectAnswer
	}

	result, err := s.suggester.Suggest(ctx, ai.SuggestionInput{
		Question:      answer.Question.Content,
		ModelAnswer:   modelAnswer,
		StudentAnswer: studentText,
		MaxMarks:      answer.Question.Marks,
	})
	if err != nil {
		return dto.ScoreSuggestion{}, err
	}

	return dto.ScoreSuggestion{
		AttemptID:  attemptID,
		QuestionID: questionID,
		Suggested:  result.Score,
		Rationale:  result.Rationale,
	}, nil
}

func (s *gradingService) loadOwnedQuiz(ctx context.Context, quizID uint, actor Actor) (models.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, ErrQuizNotFound
		}
		return models.Quiz{}, err
	}

	if actor.Role != models.RoleAdmin && quiz.TeacherID != actor.ID {
		return models.Quiz{}, ErrNotQuizOwner
	}

	return quiz, nil
}
