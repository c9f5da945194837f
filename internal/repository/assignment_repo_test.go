package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

func TestAssignmentRepositoryAssignedMatchesSubjectAndClass(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAssignmentRepository(db)
	quiz, _ := seedQuizFixture(t, db)

	require.NoError(t, db.Create(&models.TeacherAssignment{
		TeacherID: quiz.TeacherID,
		SubjectID: quiz.SubjectID,
		ClassID:   quiz.Classes[0].ID,
	}).Error)

	assigned, err := repo.Assigned(context.Background(), quiz.TeacherID, quiz.SubjectID, []uint{quiz.Classes[0].ID})
	require.NoError(t, err)
	require.True(t, assigned)

	assigned, err = repo.Assigned(context.Background(), quiz.TeacherID, quiz.SubjectID+1, []uint{quiz.Classes[0].ID})
	require.NoError(t, err)
	require.False(t, assigned)

	assigned, err = repo.Assigned(context.Background(), quiz.TeacherID, quiz.SubjectID, []uint{quiz.Classes[0].ID + 1})
	require.NoError(t, err)
	require.False(t, assigned)
}

func TestAssignmentRepositoryAssignedRequiresEveryClass(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAssignmentRepository(db)
	quiz, _ := seedQuizFixture(t, db)

	other := models.ClassGroup{Name: "11A " + t.Name()}
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, db.Create(&models.TeacherAssignment{
		TeacherID: quiz.TeacherID,
		SubjectID: quiz.SubjectID,
		ClassID:   quiz.Classes[0].ID,
	}).Error)

	// Covered class alone passes; adding an uncovered class fails the
	// whole check.
	assigned, err := repo.Assigned(context.Background(), quiz.TeacherID, quiz.SubjectID, []uint{quiz.Classes[0].ID, other.ID})
	require.NoError(t, err)
	require.False(t, assigned)

	assigned, err = repo.Assigned(context.Background(), quiz.TeacherID, quiz.SubjectID, nil)
	require.NoError(t, err)
	require.False(t, assigned)
}

func TestAssignmentRepositoryListByTeacherPreloadsNames(t *testing.T) {
	db := setupQuizTestDB(t)
	repo := NewAssignmentRepository(db)
	quiz, _ := seedQuizFixture(t, db)

	require.NoError(t, db.Create(&models.TeacherAssignment{
		TeacherID: quiz.TeacherID,
		SubjectID: quiz.SubjectID,
		ClassID:   quiz.Classes[0].ID,
	}).Error)

	assignments, err := repo.ListByTeacher(context.Background(), quiz.TeacherID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.NotEmpty(t, assignments[0].Subject.Name)
	require.NotEmpty(t, assignments[0].Class.Name)
}
