package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/models"
	"github.com/quizdesk/quizdesk-api/internal/repository"
)

// Authoring-time validation failures for typed question payloads.
var (
	// ErrOptionCountInvalid requires at least two mcq options.
	ErrOptionCountInvalid = errors.New("mcq questions need at least two options")
	// ErrCorrectOptionInvalid requires exactly one option flagged correct.
	ErrCorrectOptionInvalid = errors.New("mcq questions need exactly one correct option")
	// ErrPairsRequired requires at least one matching pair.
	ErrPairsRequired = errors.New("matching questions need at least one pair")
	// ErrDuplicateLeftValue rejects ambiguous matching keys.
	ErrDuplicateLeftValue = errors.New("matching pairs must have distinct left values")
)

// QuestionService handles question authoring for quiz owners.
type QuestionService interface {
	AddBatch(ctx context.Context, payload dto.QuestionBatchRequest, actor Actor) ([]dto.QuestionResponse, error)
	ListByQuiz(ctx context.Context, quizID uint, actor Actor) ([]dto.QuestionResponse, error)
	Delete(ctx context.Context, questionID uint, actor Actor) error
}

type questionService struct {
	questions repository.QuestionRepository
	quizzes   repository.QuizRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(questions repository.QuestionRepository, quizzes repository.QuizRepository, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		quizzes:   quizzes,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

// AddBatch validates and persists a batch of questions. Duplicate content
// within the quiz is a conflict; for mcq the correct option's content is
// resolved once here and cached on the question for the grading engine.
func (s *questionService) AddBatch(ctx context.Context, payload dto.QuestionBatchRequest, actor Actor) ([]dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	quiz, err := s.quizzes.GetByID(ctx, payload.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	if actor.Role != models.RoleAdmin && quiz.TeacherID != actor.ID {
		return nil, ErrNotQuizOwner
	}

	seen := make(map[string]struct{}, len(payload.Questions))
	built := make([]*models.Question, 0, len(payload.Questions))
	for _, request := range payload.Questions {
		content := strings.TrimSpace(s.sanitizer.Sanitize(request.Content))
		if content == "" {
			return nil, errors.New("question content empty after sanitization")
		}

		if _, duplicate := seen[content]; duplicate {
			return nil, ErrDuplicateQuestion
		}
		seen[content] = struct{}{}

		exists, err := s.questions.ContentExists(ctx, quiz.ID, content)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateQuestion
		}

		question, err := s.buildQuestion(quiz.ID, request, content)
		if err != nil {
			return nil, err
		}
		built = append(built, question)
	}

	if err := s.questions.CreateBatch(ctx, built); err != nil {
		return nil, err
	}

	responses := make([]dto.QuestionResponse, 0, len(built))
	for _, question := range built {
		responses = append(responses, dto.NewQuestionResponse(*question))
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Int("count", len(built)).Msg("questions added")

	return responses, nil
}

// buildQuestion assembles the typed model for one request, enforcing the
// type's payload shape.
func (s *questionService) buildQuestion(quizID uint, request dto.QuestionCreateRequest, content string) (*models.Question, error) {
	question := &models.Question{
		QuizID:  quizID,
		Type:    request.Type,
		Content: content,
		Marks:   request.Marks,
	}

	switch request.Type {
	case models.QuestionTypeMCQ:
		if len(request.Options) < 2 {
			return nil, ErrOptionCountInvalid
		}

		correctCount := 0
		for _, option := range request.Options {
			optionContent := strings.TrimSpace(s.sanitizer.Sanitize(option.Content))
			if optionContent == "" {
				return nil, errors.New("option content empty after sanitization")
			}
			question.Options = append(question.Options, models.Option{
				Content:   optionContent,
				IsCorrect: option.IsCorrect,
			})
			if option.IsCorrect {
				correctCount++
				correct := optionContent
				question.CorrectAnswer = &correct
			}
		}
		if correctCount != 1 {
			return nil, ErrCorrectOptionInvalid
		}

	case models.QuestionTypeShortAnswer:
		// No payload; graded manually. CorrectAnswer stays nil unless a
		// model answer is wanted later.

	case models.QuestionTypeMatching:
		if len(request.Pairs) == 0 {
			return nil, ErrPairsRequired
		}

		lefts := make(map[string]struct{}, len(request.Pairs))
		for _, pair := range request.Pairs {
			left := strings.TrimSpace(s.sanitizer.Sanitize(pair.Left))
			right := strings.TrimSpace(s.sanitizer.Sanitize(pair.Right))
			if left == "" || right == "" {
				return nil, errors.New("matching pair empty after sanitization")
			}
			if _, duplicate := lefts[left]; duplicate {
				return nil, ErrDuplicateLeftValue
			}
			lefts[left] = struct{}{}
			question.MatchingPairs = append(question.MatchingPairs, models.MatchingPair{
				LeftValue:  left,
				RightValue: right,
			})
		}
	}

	return question, nil
}

func (s *questionService) ListByQuiz(ctx context.Context, quizID uint, actor Actor) ([]dto.QuestionResponse, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	if actor.Role != models.RoleAdmin && quiz.TeacherID != actor.ID {
		return nil, ErrNotQuizOwner
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) Delete(ctx context.Context, questionID uint, actor Actor) error {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	quiz, err := s.quizzes.GetByID(ctx, question.QuizID)
	if err != nil {
		return err
	}

	if actor.Role != models.RoleAdmin && quiz.TeacherID != actor.ID {
		return ErrNotQuizOwner
	}

	if err := s.questions.Delete(ctx, questionID); err != nil {
		return err
	}

	s.logger.Info().Uint("question_id", questionID).Msg("question deleted with cascade")

	return nil
}
