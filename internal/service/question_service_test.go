package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/dto"
	"github.com/quizdesk/quizdesk-api/internal/models"
)

type fakeQuestionRepo struct {
	questions map[uint]models.Question
	nextID    uint
	existing  map[string]struct{}
	created   []*models.Question
	deleted   []uint
}

func newFakeQuestionRepo(questions ...models.Question) *fakeQuestionRepo {
	repo := &fakeQuestionRepo{
		questions: make(map[uint]models.Question),
		nextID:    1,
		existing:  make(map[string]struct{}),
	}
	for _, question := range questions {
		repo.questions[question.ID] = question
		repo.existing[question.Content] = struct{}{}
		if question.ID >= repo.nextID {
			repo.nextID = question.ID + 1
		}
	}
	return repo
}

func (f *fakeQuestionRepo) CreateBatch(ctx context.Context, questions []*models.Question) error {
	for _, question := range questions {
		question.ID = f.nextID
		f.nextID++
		f.questions[question.ID] = *question
		f.existing[question.Content] = struct{}{}
	}
	f.created = append(f.created, questions...)
	return nil
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id uint) (models.Question, error) {
	question, ok := f.questions[id]
	if !ok {
		return models.Question{}, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (f *fakeQuestionRepo) ListByQuiz(ctx context.Context, quizID uint) ([]models.Question, error) {
	var result []models.Question
	for _, question := range f.questions {
		if question.QuizID == quizID {
			result = append(result, question)
		}
	}
	return result, nil
}

func (f *fakeQuestionRepo) ContentExists(ctx context.Context, quizID uint, content string) (bool, error) {
	_, ok := f.existing[content]
	return ok, nil
}

func (f *fakeQuestionRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.questions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.questions, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func newQuestionServiceForTest(questions *fakeQuestionRepo, quizzes *fakeQuizRepo) QuestionService {
	return NewQuestionService(questions, quizzes, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func mcqBatch(quizID uint) dto.QuestionBatchRequest {
	return dto.QuestionBatchRequest{
		QuizID: quizID,
		Questions: []dto.QuestionCreateRequest{
			{
				Type:    models.QuestionTypeMCQ,
				Content: "What is the capital of France?",
				Marks:   5,
				Options: []dto.OptionCreateRequest{
					{Content: "Paris", IsCorrect: true},
					{Content: "Lyon"},
				},
			},
		},
	}
}

func TestAddBatchCachesCorrectOptionContent(t *testing.T) {
	quiz := openQuiz()
	questions := newFakeQuestionRepo()
	svc := newQuestionServiceForTest(questions, newFakeQuizRepo(quiz))

	created, err := svc.AddBatch(context.Background(), mcqBatch(quiz.ID), Actor{ID: 7, Role: models.RoleTeacher})

	require.NoError(t, err)
	require.Len(t, created, 1)
	require.NotNil(t, created[0].CorrectAnswer)
	require.Equal(t, "Paris", *created[0].CorrectAnswer)
	require.Len(t, questions.created, 1)
}

func TestAddBatchRejectsSingleOption(t *testing.T) {
	quiz := openQuiz()
	payload := mcqBatch(quiz.ID)
	payload.Questions[0].Options = payload.Questions[0].Options[:1]
	svc := newQuestionServiceForTest(newFakeQuestionRepo(), newFakeQuizRepo(quiz))

	_, err := svc.AddBatch(context.Background(), payload, Actor{ID: 7, Role: models.RoleTeacher})

	require.Error(t, err)
}

func TestAddBatchRequiresExactlyOneCorrectOption(t *testing.T) {
	quiz := openQuiz()
	svc := newQuestionServiceForTest(newFakeQuestionRepo(), newFakeQuizRepo(quiz))

	none := mcqBatch(quiz.ID)
	none.Questions[0].Options[0].IsCorrect = false
	_, err := svc.AddBatch(context.Background(), none, Actor{ID: 7, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrCorrectOptionInvalid)

	both := mcqBatch(quiz.ID)
	both.Questions[0].Options[1].IsCorrect = true
	_, err = svc.AddBatch(context.Background(), both, Actor{ID: 7, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrCorrectOptionInvalid)
}

func TestAddBatchRejectsDuplicateContentInQuiz(t *testing.T) {
	quiz := openQuiz()
	existing := models.Question{ID: 20, QuizID: quiz.ID, Type: models.QuestionTypeMCQ, Content: "What is the capital of France?"}
	svc := newQuestionServiceForTest(newFakeQuestionRepo(existing), newFakeQuizRepo(quiz))

	_, err := svc.AddBatch(context.Background(), mcqBatch(quiz.ID), Actor{ID: 7, Role: models.RoleTeacher})

	require.ErrorIs(t, err, ErrDuplicateQuestion)
}

func TestAddBatchRejectsDuplicateContentWithinBatch(t *testing.T) {
	quiz := openQuiz()
	payload := mcqBatch(quiz.ID)
	payload.Questions = append(payload.Questions, payload.Questions[0])
	svc := newQuestionServiceForTest(newFakeQuestionRepo(), newFakeQuizRepo(quiz))

	_, err := svc.AddBatch(context.Background(), payload, Actor{ID: 7, Role: models.RoleTeacher})

	require.ErrorIs(t, err, ErrDuplicateQuestion)
}

func TestAddBatchMatchingRequiresPairsWithDistinctLefts(t *testing.T) {
	quiz := openQuiz()
	svc := newQuestionServiceForTest(newFakeQuestionRepo(), newFakeQuizRepo(quiz))

	duplicated := dto.QuestionBatchRequest{
		QuizID: quiz.ID,
		Questions: []dto.QuestionCreateRequest{
			{
				Type:    models.QuestionTypeMatching,
				Content: "Match terms",
				Marks:   4,
				Pairs: []dto.PairCreateRequest{
					{Left: "France", Right: "Paris"},
					{Left: "France", Right: "Lyon"},
				},
			},
		},
	}
	_, err := svc.AddBatch(context.Background(), duplicated, Actor{ID: 7, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrDuplicateLeftValue)
}

func TestAddBatchStripsMarkupFromContent(t *testing.T) {
	quiz := openQuiz()
	payload := mcqBatch(quiz.ID)
	payload.Questions[0].Content = "<script>alert('x')</script>What is the capital of France?"
	questions := newFakeQuestionRepo()
	svc := newQuestionServiceForTest(questions, newFakeQuizRepo(quiz))

	created, err := svc.AddBatch(context.Background(), payload, Actor{ID: 7, Role: models.RoleTeacher})

	require.NoError(t, err)
	require.Equal(t, "What is the capital of France?", created[0].Content)
}

func TestAddBatchRejectsNonOwningTeacher(t *testing.T) {
	quiz := openQuiz()
	svc := newQuestionServiceForTest(newFakeQuestionRepo(), newFakeQuizRepo(quiz))

	_, err := svc.AddBatch(context.Background(), mcqBatch(quiz.ID), Actor{ID: 8, Role: models.RoleTeacher})

	require.ErrorIs(t, err, ErrNotQuizOwner)
}

func TestDeleteQuestionChecksOwnership(t *testing.T) {
	quiz := openQuiz()
	question := models.Question{ID: 30, QuizID: quiz.ID, Type: models.QuestionTypeShortAnswer, Content: "Explain"}
	questions := newFakeQuestionRepo(question)
	svc := newQuestionServiceForTest(questions, newFakeQuizRepo(quiz))

	err := svc.Delete(context.Background(), question.ID, Actor{ID: 8, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrNotQuizOwner)

	err = svc.Delete(context.Background(), question.ID, Actor{ID: 7, Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Equal(t, []uint{question.ID}, questions.deleted)
}

func TestDeleteMissingQuestion(t *testing.T) {
	svc := newQuestionServiceForTest(newFakeQuestionRepo(), newFakeQuizRepo())

	err := svc.Delete(context.Background(), 404, Actor{ID: 7, Role: models.RoleTeacher})

	require.ErrorIs(t, err, ErrQuestionNotFound)
}
