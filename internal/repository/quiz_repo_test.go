package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

func TestQuizRepositoryListActiveForStudentFiltersByEnrollment(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewQuizRepository(db)
	quiz, student := seedQuizFixture(t, db)

	now := time.Now()

	// Not enrolled yet: nothing is active.
	active, err := repo.ListActiveForStudent(context.Background(), student.ID, now)
	require.NoError(t, err)
	require.Empty(t, active)

	require.NoError(t, db.Create(&models.Enrollment{
		StudentID: student.ID,
		SubjectID: quiz.SubjectID,
		ClassID:   quiz.Classes[0].ID,
	}).Error)

	active, err = repo.ListActiveForStudent(context.Background(), student.ID, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, quiz.ID, active[0].ID)

	// Outside the window the quiz disappears.
	active, err = repo.ListActiveForStudent(context.Background(), student.ID, quiz.EndTime.Add(time.Minute))
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestQuizRepositoryListActiveForStudentExcludesUnpublished(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewQuizRepository(db)
	quiz, student := seedQuizFixture(t, db)

	require.NoError(t, db.Create(&models.Enrollment{
		StudentID: student.ID,
		SubjectID: quiz.SubjectID,
		ClassID:   quiz.Classes[0].ID,
	}).Error)
	require.NoError(t, db.Model(&models.Quiz{}).Where("id = ?", quiz.ID).Update("is_published", false).Error)

	active, err := repo.ListActiveForStudent(context.Background(), student.ID, time.Now())
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestQuizRepositoryDeleteCascades(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewQuizRepository(db)
	quiz, student := seedQuizFixture(t, db)

	attempt := models.Attempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Answers: []models.Answer{
			{QuestionID: quiz.Questions[0].ID, StudentAnswer: []byte(`"4"`)},
		},
	}
	require.NoError(t, db.Create(&attempt).Error)

	require.NoError(t, repo.Delete(context.Background(), quiz.ID))

	for name, model := range map[string]interface{}{
		"quizzes":   &models.Quiz{},
		"questions": &models.Question{},
		"attempts":  &models.Attempt{},
		"answers":   &models.Answer{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error, name)
		require.Zero(t, count, name)
	}
}

func TestQuizRepositoryReplaceClasses(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewQuizRepository(db)
	quiz, _ := seedQuizFixture(t, db)

	replacement := models.ClassGroup{Name: "12C " + t.Name()}
	require.NoError(t, db.Create(&replacement).Error)

	require.NoError(t, repo.ReplaceClasses(context.Background(), &quiz, []models.ClassGroup{replacement}))

	stored, err := repo.GetByID(context.Background(), quiz.ID)
	require.NoError(t, err)
	require.Len(t, stored.Classes, 1)
	require.Equal(t, replacement.ID, stored.Classes[0].ID)
}
