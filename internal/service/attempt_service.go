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
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/models"
	"github.com/quizdesk/quizdesk-api/internal/observability"
	"github.com/quizdesk/quizdesk-api/internal/repository"
)

// AttemptService manages the attempt lifecycle: guarded submission with
// synchronous auto-grading, retrieval, and score release.
type AttemptService interface {
	Submit(ctx context.Context, payload dto.SubmitQuizRequest, actor Actor) (dto.SubmitQuizResponse, error)
	Get(ctx context.Context, attemptID uint, actor Actor) (dto.AttemptResponse, error)
	Release(ctx context.Context, attemptID uint, actor Actor) (dto.AttemptResponse, error)
}

type attemptService struct {
	attempts    repository.AttemptRepository
	quizzes     repository.QuizRepository
	enrollments EnrollmentService
	validator   *validator.Validate
	events      EventPublisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAttemptService constructs an AttemptService instance.
func NewAttemptService(attempts repository.AttemptRepository, quizzes repository.QuizRepository, enrollments EnrollmentService, validate *validator.Validate, events EventPublisher, logger zerolog.Logger) AttemptService {
	return &attemptService{
		attempts:    attempts,
		quizzes:     quizzes,
		enrollments: enrollments,
		validator:   validate,
		events:      events,
		logger:      logger.With().Str("component", "attempt_service").Logger(),
		now:         time.Now,
	}
}

// Submit runs every guard, then persists the attempt, its answers and the
// auto-graded total as one atomic unit. A guard failure creates nothing.
func (s *attemptService) Submit(ctx context.Context, payload dto.SubmitQuizRequest, actor Actor) (dto.SubmitQuizResponse, error) {
	tracer := otel.Tracer("github.com/quizdesk/quizdesk-api/internal/service/attempt")
	ctx, span := tracer.Start(ctx, "attempt.submit")
	span.SetAttributes(
		attribute.Int64("attempt.quiz_id", int64(payload.QuizID)),
		attribute.Int64("attempt.student_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmitQuizResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, payload.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitQuizResponse{}, ErrQuizNotFound
		}
		return dto.SubmitQuizResponse{}, err
	}

	now := s.now()
	if err := s.checkSubmissionGuards(ctx, quiz, actor, now); err != nil {
		observability.Submissions().WithLabelValues("rejected").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_rejected")
		return dto.SubmitQuizResponse{}, err
	}

	questionsByID := make(map[uint]models.Question, len(quiz.Questions))
	for _, question := range quiz.Questions {
		questionsByID[question.ID] = question
	}

	answered := make(map[uint]struct{}, len(payload.Answers))
	answers := make([]models.Answer, 0, len(payload.Answers))
	for _, submitted := range payload.Answers {
		question, exists := questionsByID[submitted.QuestionID]
		if !exists {
			return dto.SubmitQuizResponse{}, ErrQuestionNotFound
		}
		if _, dup := answered[submitted.QuestionID]; dup {
			observability.Submissions().WithLabelValues("rejected").Inc()
			return dto.SubmitQuizResponse{}, ErrDuplicateAnswer
		}
		answered[submitted.QuestionID] = struct{}{}

		graded := GradeAnswer(question, submitted.Answer)
		answers = append(answers, models.Answer{
			QuestionID:    question.ID,
			StudentAnswer: datatypes.JSON(submitted.Answer),
			IsCorrect:     graded.IsCorrect,
			MarksObtained: graded.Marks,
		})
	}

	total := RunningTotal(answers)
	expiresAt := now.Add(time.Duration(quiz.TimeLimit) * time.Minute)

	attempt := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: actor.ID,
		Score:     &total,
		ExpiresAt: &expiresAt,
		Answers:   answers,
	}

	if err := s.attempts.CreateWithAnswers(ctx, &attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.Submissions().WithLabelValues("rejected").Inc()
			return dto.SubmitQuizResponse{}, ErrAttemptExists
		}
		observability.Submissions().WithLabelValues("failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		return dto.SubmitQuizResponse{}, err
	}

	observability.Submissions().WithLabelValues("graded").Inc()
	span.SetAttributes(attribute.Float64("attempt.score", total))

	s.events.Publish(EventAttemptSubmitted, AttemptEvent{
		AttemptID: attempt.ID,
		QuizID:    quiz.ID,
		StudentID: actor.ID,
		Score:     &total,
	})

	s.logger.Info().
		Uint("attempt_id", attempt.ID).
		Uint("quiz_id", quiz.ID).
		Uint("student_id", actor.ID).
		Float64("score", total).
		Msg("attempt submitted and auto-graded")

	return dto.SubmitQuizResponse{AttemptID: attempt.ID, Score: total, ExpiresAt: &expiresAt}, nil
}

// checkSubmissionGuards enforces the Not-started -> Submitted transition
// guards: published quiz, open window, enrollment, no prior attempt.
func (s *attemptService) checkSubmissionGuards(ctx context.Context, quiz models.Quiz, actor Actor, now time.Time) error {
	if !quiz.IsPublished {
		return ErrQuizNotPublished
	}

	if !quiz.WindowContains(now) {
		return ErrQuizWindowClosed
	}

	enrolled, err := s.enrollments.IsEnrolledForQuiz(ctx, actor.ID, quiz)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotEnrolled
	}

	// Fast path; the unique index still backstops concurrent submissions.
	if _, err := s.attempts.GetByQuizAndStudent(ctx, quiz.ID, actor.ID); err == nil {
		return ErrAttemptExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}

func (s *attemptService) Get(ctx context.Context, attemptID uint, actor Actor) (dto.AttemptResponse, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttemptResponse{}, ErrAttemptNotFound
		}
		return dto.AttemptResponse{}, err
	}

	switch actor.Role {
	case models.RoleAdmin:
		return dto.NewAttemptResponse(attempt, true), nil
	case models.RoleTeacher:
		if attempt.Quiz.TeacherID != actor.ID {
			return dto.AttemptResponse{}, ErrNotQuizOwner
		}
		return dto.NewAttemptResponse(attempt, true), nil
	default:
		// Students never learn about other students' attempts.
		if attempt.StudentID != actor.ID {
			return dto.AttemptResponse{}, ErrAttemptNotFound
		}
		return dto.NewAttemptResponse(attempt, attempt.IsPublished), nil
	}
}

// Release flips the attempt's publication flag so the student can see the
// score. Releasing an already-released attempt succeeds unchanged.
func (s *attemptService) Release(ctx context.Context, attemptID uint, actor Actor) (dto.AttemptResponse, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttemptResponse{}, ErrAttemptNotFound
		}
		return dto.AttemptResponse{}, err
	}

	if actor.Role != models.RoleAdmin && attempt.Quiz.TeacherID != actor.ID {
		return dto.AttemptResponse{}, ErrNotQuizOwner
	}

	if attempt.IsPublished {
		return dto.NewAttemptResponse(attempt, true), nil
	}

	if !attempt.FullyGraded() {
		return dto.AttemptResponse{}, ErrAttemptNotGraded
	}

	if err := s.attempts.SetPublished(ctx, attempt.ID, true); err != nil {
		return dto.AttemptResponse{}, err
	}
	attempt.IsPublished = true

	observability.AttemptsReleased().Inc()
	s.events.Publish(EventAttemptReleased, AttemptEvent{
		AttemptID: attempt.ID,
		QuizID:    attempt.QuizID,
		StudentID: attempt.StudentID,
		Score:     attempt.Score,
	})

	s.logger.Info().Uint("attempt_id", attempt.ID).Msg("attempt released to student")

	return dto.NewAttemptResponse(attempt, true), nil
}
