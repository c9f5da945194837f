package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

func TestQuestionRepositoryContentExistsIsCaseSensitive(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewQuestionRepository(db)
	quiz, _ := seedQuizFixture(t, db)

	exists, err := repo.ContentExists(context.Background(), quiz.ID, "2+2?")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ContentExists(context.Background(), quiz.ID, "2+2? ")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestQuestionRepositoryDeleteRecomputesAttemptScores(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewQuestionRepository(db)
	quiz, student := seedQuizFixture(t, db)

	attempt := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Score:     marksOf(13),
		Answers: []models.Answer{
			{QuestionID: quiz.Questions[0].ID, StudentAnswer: []byte(`"4"`), IsCorrect: true, MarksObtained: marksOf(5)},
			{QuestionID: quiz.Questions[1].ID, StudentAnswer: []byte(`"an essay"`), IsCorrect: true, MarksObtained: marksOf(8)},
		},
	}
	require.NoError(t, db.Create(&attempt).Error)

	require.NoError(t, repo.Delete(context.Background(), quiz.Questions[1].ID))

	var stored models.Attempt
	require.NoError(t, db.Preload("Answers").First(&stored, attempt.ID).Error)
	require.Len(t, stored.Answers, 1)
	require.NotNil(t, stored.Score)
	require.Equal(t, 5.0, *stored.Score)
}

func TestQuestionRepositoryDeleteLeavesOtherAttemptsAlone(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewQuestionRepository(db)
	quiz, student := seedQuizFixture(t, db)

	other := models.User{Name: "Other", Email: "other@" + t.Name(), Role: models.RoleStudent}
	require.NoError(t, db.Create(&other).Error)

	touched := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Score:     marksOf(10),
		Answers: []models.Answer{
			{QuestionID: quiz.Questions[1].ID, StudentAnswer: []byte(`"an essay"`), IsCorrect: true, MarksObtained: marksOf(10)},
		},
	}
	untouched := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: other.ID,
		Score:     marksOf(5),
		Answers: []models.Answer{
			{QuestionID: quiz.Questions[0].ID, StudentAnswer: []byte(`"4"`), IsCorrect: true, MarksObtained: marksOf(5)},
		},
	}
	require.NoError(t, db.Create(&touched).Error)
	require.NoError(t, db.Create(&untouched).Error)

	require.NoError(t, repo.Delete(context.Background(), quiz.Questions[1].ID))

	var stored models.Attempt
	require.NoError(t, db.First(&stored, touched.ID).Error)
	require.Equal(t, 0.0, *stored.Score)

	var storedUntouched models.Attempt
	require.NoError(t, db.First(&storedUntouched, untouched.ID).Error)
	require.Equal(t, 5.0, *storedUntouched.Score)
}
