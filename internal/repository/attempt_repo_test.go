package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

func setupQuizTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.ClassGroup{},
		&models.Enrollment{},
		&models.TeacherAssignment{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.MatchingPair{},
		&models.Attempt{},
		&models.Answer{},
	))

	return db
}

func marksOf(value float64) *float64 { return &value }

func seedQuizFixture(t *testing.T, db *gorm.DB) (models.Quiz, models.User) {
	t.Helper()

	teacher := models.User{Name: "Teacher", Email: "teacher@" + t.Name(), Role: models.RoleTeacher}
	student := models.User{Name: "Student", Email: "student@" + t.Name(), Role: models.RoleStudent}
	require.NoError(t, db.Create(&teacher).Error)
	require.NoError(t, db.Create(&student).Error)

	subject := models.Subject{Name: "Math " + t.Name()}
	class := models.ClassGroup{Name: "10B " + t.Name()}
	require.NoError(t, db.Create(&subject).Error)
	require.NoError(t, db.Create(&class).Error)

	correct := "4"
	quiz := models.Quiz{
		Title:       "Algebra",
		TeacherID:   teacher.ID,
		SubjectID:   subject.ID,
		StartTime:   time.Now().Add(-time.Hour),
		EndTime:     time.Now().Add(time.Hour),
		TimeLimit:   30,
		IsPublished: true,
		Classes:     []models.ClassGroup{class},
		Questions: []models.Question{
			{Type: models.QuestionTypeMCQ, Content: "2+2?", Marks: 5, CorrectAnswer: &correct},
			{Type: models.QuestionTypeShortAnswer, Content: "Explain slope", Marks: 10},
		},
	}
	require.NoError(t, db.Create(&quiz).Error)

	return quiz, student
}

func TestAttemptRepositoryCreateWithAnswersPersistsAtomically(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAttemptRepository(db)
	quiz, student := seedQuizFixture(t, db)

	attempt := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Score:     marksOf(5),
		Answers: []models.Answer{
			{QuestionID: quiz.Questions[0].ID, StudentAnswer: []byte(`"4"`), IsCorrect: true, MarksObtained: marksOf(5)},
			{QuestionID: quiz.Questions[1].ID, StudentAnswer: []byte(`"an essay"`)},
		},
	}
	require.NoError(t, repo.CreateWithAnswers(context.Background(), &attempt))

	stored, err := repo.GetByID(context.Background(), attempt.ID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 2)
	require.Equal(t, quiz.ID, stored.Quiz.ID)
	require.Equal(t, student.ID, stored.Student.ID)
}

func TestAttemptRepositoryRejectsDuplicateStudentQuizPair(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAttemptRepository(db)
	quiz, student := seedQuizFixture(t, db)

	first := models.Attempt{QuizID: quiz.ID, StudentID: student.ID}
	require.NoError(t, repo.CreateWithAnswers(context.Background(), &first))

	second := models.Attempt{QuizID: quiz.ID, StudentID: student.ID}
	err := repo.CreateWithAnswers(context.Background(), &second)
	require.Error(t, err)
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	var count int64
	require.NoError(t, db.Model(&models.Attempt{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAttemptRepositoryRejectsDuplicateAnswerPerQuestion(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAttemptRepository(db)
	quiz, student := seedQuizFixture(t, db)

	attempt := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Answers: []models.Answer{
			{QuestionID: quiz.Questions[0].ID, StudentAnswer: []byte(`"4"`)},
		},
	}
	require.NoError(t, repo.CreateWithAnswers(context.Background(), &attempt))

	duplicate := models.Answer{AttemptID: attempt.ID, QuestionID: quiz.Questions[0].ID, StudentAnswer: []byte(`"3"`)}
	err := db.Create(&duplicate).Error
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestAttemptRepositoryApplyAnswerMarksRecomputesTotal(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAttemptRepository(db)
	quiz, student := seedQuizFixture(t, db)

	attempt := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Score:     marksOf(5),
		Answers: []models.Answer{
			{QuestionID: quiz.Questions[0].ID, StudentAnswer: []byte(`"4"`), IsCorrect: true, MarksObtained: marksOf(5)},
			{QuestionID: quiz.Questions[1].ID, StudentAnswer: []byte(`"an essay"`)},
		},
	}
	require.NoError(t, repo.CreateWithAnswers(context.Background(), &attempt))

	total, err := repo.ApplyAnswerMarks(context.Background(), attempt.Answers[1].ID, 8, true)
	require.NoError(t, err)
	require.InDelta(t, 13.0, total, 1e-9)

	stored, err := repo.GetByID(context.Background(), attempt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	require.InDelta(t, 13.0, *stored.Score, 1e-9)
	require.True(t, stored.FullyGraded())
}

func TestAttemptRepositoryApplyAnswerMarksIsAbsoluteNotDelta(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAttemptRepository(db)
	quiz, student := seedQuizFixture(t, db)

	attempt := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Answers: []models.Answer{
			{QuestionID: quiz.Questions[1].ID, StudentAnswer: []byte(`"an essay"`)},
		},
	}
	require.NoError(t, repo.CreateWithAnswers(context.Background(), &attempt))

	answerID := attempt.Answers[0].ID
	_, err := repo.ApplyAnswerMarks(context.Background(), answerID, 8, true)
	require.NoError(t, err)

	// Re-scoring the same answer replaces the previous mark; the total must
	// contain the answer exactly once.
	total, err := repo.ApplyAnswerMarks(context.Background(), answerID, 6, true)
	require.NoError(t, err)
	require.InDelta(t, 6.0, total, 1e-9)
}

func TestAttemptRepositorySetPublished(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAttemptRepository(db)
	quiz, student := seedQuizFixture(t, db)

	attempt := models.Attempt{QuizID: quiz.ID, StudentID: student.ID}
	require.NoError(t, repo.CreateWithAnswers(context.Background(), &attempt))
	require.NoError(t, repo.SetPublished(context.Background(), attempt.ID, true))

	stored, err := repo.GetByID(context.Background(), attempt.ID)
	require.NoError(t, err)
	require.True(t, stored.IsPublished)
}

func TestAttemptRepositoryGetAnswerPreloadsQuestion(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAttemptRepository(db)
	quiz, student := seedQuizFixture(t, db)

	attempt := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Answers: []models.Answer{
			{QuestionID: quiz.Questions[1].ID, StudentAnswer: []byte(`"an essay"`)},
		},
	}
	require.NoError(t, repo.CreateWithAnswers(context.Background(), &attempt))

	answer, err := repo.GetAnswer(context.Background(), attempt.ID, quiz.Questions[1].ID)
	require.NoError(t, err)
	require.Equal(t, models.QuestionTypeShortAnswer, answer.Question.Type)
	require.False(t, answer.Graded())
}
