package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

func strPtr(value string) *string { return &value }

func floatPtr(value float64) *float64 { return &value }

func mcqQuestion(marks int, correct string) models.Question {
	return models.Question{
		ID:            1,
		Type:          models.QuestionTypeMCQ,
		Content:       "What is 2+2?",
		Marks:         marks,
		CorrectAnswer: strPtr(correct),
		Options: []models.Option{
			{Content: correct, IsCorrect: true},
			{Content: "3", IsCorrect: false},
		},
	}
}

func matchingQuestion(marks int, pairs map[string]string) models.Question {
	question := models.Question{
		ID:      2,
		Type:    models.QuestionTypeMatching,
		Content: "Match the capitals",
		Marks:   marks,
	}
	for left, right := range pairs {
		question.MatchingPairs = append(question.MatchingPairs, models.MatchingPair{LeftValue: left, RightValue: right})
	}
	return question
}

func TestGradeAnswerMCQExactMatchAwardsFullMarks(t *testing.T) {
	graded := GradeAnswer(mcqQuestion(5, "4"), []byte(`"4"`))

	require.True(t, graded.IsCorrect)
	require.NotNil(t, graded.Marks)
	require.Equal(t, 5.0, *graded.Marks)
}

func TestGradeAnswerMCQWrongChoiceScoresZero(t *testing.T) {
	graded := GradeAnswer(mcqQuestion(5, "4"), []byte(`"3"`))

	require.False(t, graded.IsCorrect)
	require.NotNil(t, graded.Marks)
	require.Zero(t, *graded.Marks)
}

func TestGradeAnswerMCQIsCaseSensitive(t *testing.T) {
	graded := GradeAnswer(mcqQuestion(5, "Paris"), []byte(`"paris"`))

	require.False(t, graded.IsCorrect)
	require.NotNil(t, graded.Marks)
	require.Zero(t, *graded.Marks)
}

func TestGradeAnswerShortAnswerStaysPending(t *testing.T) {
	question := models.Question{Type: models.QuestionTypeShortAnswer, Marks: 10}

	graded := GradeAnswer(question, []byte(`"photosynthesis converts light to energy"`))

	require.False(t, graded.IsCorrect)
	require.Nil(t, graded.Marks)
}

func TestGradeAnswerMatchingProportional(t *testing.T) {
	question := matchingQuestion(4, map[string]string{"France": "Paris", "Spain": "Madrid"})

	graded := GradeAnswer(question, []byte(`{"France":"Paris","Spain":"Rome"}`))

	require.True(t, graded.IsCorrect)
	require.NotNil(t, graded.Marks)
	require.InDelta(t, 2.0, *graded.Marks, 1e-9)
}

func TestGradeAnswerMatchingUnroundedFraction(t *testing.T) {
	question := matchingQuestion(5, map[string]string{"a": "1", "b": "2", "c": "3"})

	graded := GradeAnswer(question, []byte(`{"a":"1","b":"9","c":"9"}`))

	require.NotNil(t, graded.Marks)
	require.InDelta(t, 5.0/3.0, *graded.Marks, 1e-9)
}

func TestGradeAnswerMatchingIgnoresUnknownLefts(t *testing.T) {
	question := matchingQuestion(4, map[string]string{"France": "Paris"})

	graded := GradeAnswer(question, []byte(`{"France":"Paris","Atlantis":"Paris"}`))

	require.NotNil(t, graded.Marks)
	require.InDelta(t, 4.0, *graded.Marks, 1e-9)
}

func TestGradeAnswerMatchingWithoutPairsScoresZero(t *testing.T) {
	question := models.Question{Type: models.QuestionTypeMatching, Marks: 4}

	graded := GradeAnswer(question, []byte(`{"France":"Paris"}`))

	require.False(t, graded.IsCorrect)
	require.NotNil(t, graded.Marks)
	require.Zero(t, *graded.Marks)
}

func TestGradeAnswerMalformedShapeScoresZero(t *testing.T) {
	cases := map[string]struct {
		question models.Question
		answer   []byte
	}{
		"mcq object":         {mcqQuestion(5, "4"), []byte(`{"pick":"4"}`)},
		"mcq number":         {mcqQuestion(5, "4"), []byte(`4`)},
		"mcq empty":          {mcqQuestion(5, "4"), nil},
		"mcq invalid json":   {mcqQuestion(5, "4"), []byte(`not json`)},
		"matching string":    {matchingQuestion(4, map[string]string{"a": "1"}), []byte(`"a"`)},
		"matching non-string": {matchingQuestion(4, map[string]string{"a": "1"}), []byte(`{"a":1}`)},
		"short answer object": {models.Question{Type: models.QuestionTypeShortAnswer, Marks: 10}, []byte(`{"text":"hi"}`)},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			graded := GradeAnswer(tc.question, tc.answer)
			require.False(t, graded.IsCorrect)
			require.NotNil(t, graded.Marks)
			require.Zero(t, *graded.Marks)
		})
	}
}

func TestRunningTotalSkipsPendingAnswers(t *testing.T) {
	answers := []models.Answer{
		{MarksObtained: floatPtr(5)},
		{MarksObtained: nil},
		{MarksObtained: floatPtr(2)},
	}

	require.InDelta(t, 7.0, RunningTotal(answers), 1e-9)
}

func TestRunningTotalWorkedExample(t *testing.T) {
	// mcq worth 5 answered correctly, short answer pending, matching worth
	// 4 with one of two pairs correct.
	mcq := GradeAnswer(mcqQuestion(5, "4"), []byte(`"4"`))
	short := GradeAnswer(models.Question{Type: models.QuestionTypeShortAnswer, Marks: 10}, []byte(`"an essay"`))
	matching := GradeAnswer(matchingQuestion(4, map[string]string{"France": "Paris", "Spain": "Madrid"}), []byte(`{"France":"Paris","Spain":"Rome"}`))

	answers := []models.Answer{
		{MarksObtained: mcq.Marks},
		{MarksObtained: short.Marks},
		{MarksObtained: matching.Marks},
	}

	require.InDelta(t, 7.0, RunningTotal(answers), 1e-9)
}
