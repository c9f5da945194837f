package service

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/quizdesk/quizdesk-api/internal/models"
)

// Per-type JSON Schemas for student answers, compiled once. mcq and
// short_answer submit a bare string; matching submits an object mapping
// each left value to the chosen right value.
var (
	choiceAnswerSchema = jsonschema.MustCompileString("choice_answer.json", `{
		"type": "string"
	}`)
	matchingAnswerSchema = jsonschema.MustCompileString("matching_answer.json", `{
		"type": "object",
		"additionalProperties": {"type": "string"}
	}`)
)

// GradedAnswer is the outcome of grading a single answer. Marks nil means
// the answer awaits manual grading; a graded zero is a non-nil zero.
type GradedAnswer struct {
	IsCorrect bool
	Marks     *float64
}

// GradeAnswer scores one student answer against its question, dispatching
// exhaustively on the question type.
//
//   - mcq: full marks on exact match with the cached correct option
//     content, zero otherwise.
//   - short_answer: left ungraded (nil marks) for a teacher to score.
//   - matching: proportional marks, correct pairs over total pairs.
//
// A student answer that does not fit its type's shape records zero marks
// instead of failing the whole attempt.
func GradeAnswer(question models.Question, studentAnswer []byte) GradedAnswer {
	switch question.Type {
	case models.QuestionTypeMCQ:
		selected, ok := decodeChoice(studentAnswer)
		if !ok || question.CorrectAnswer == nil {
			return gradedZero()
		}
		if selected == *question.CorrectAnswer {
			marks := float64(question.Marks)
			return GradedAnswer{IsCorrect: true, Marks: &marks}
		}
		return gradedZero()

	case models.QuestionTypeShortAnswer:
		if _, ok := decodeChoice(studentAnswer); !ok {
			return gradedZero()
		}
		return GradedAnswer{IsCorrect: false, Marks: nil}

	case models.QuestionTypeMatching:
		picks, ok := decodeMatching(studentAnswer)
		if !ok {
			return gradedZero()
		}
		return gradeMatching(question, picks)

	default:
		return gradedZero()
	}
}

// gradeMatching awards (correct / total) * marks, unrounded. A question
// with no pairs grades to zero rather than dividing by zero.
func gradeMatching(question models.Question, picks map[string]string) GradedAnswer {
	correctPairs := question.PairMap()
	totalPairs := len(correctPairs)
	if totalPairs == 0 {
		return gradedZero()
	}

	correctCount := 0
	for left, right := range picks {
		if expected, exists := correctPairs[left]; exists && expected == right {
			correctCount++
		}
	}

	marks := float64(correctCount) / float64(totalPairs) * float64(question.Marks)
	return GradedAnswer{IsCorrect: marks > 0, Marks: &marks}
}

// RunningTotal sums all non-nil marks. Answers pending manual grading
// contribute zero to the sum; they never null-propagate the total.
func RunningTotal(answers []models.Answer) float64 {
	var total float64
	for _, answer := range answers {
		if answer.MarksObtained != nil {
			total += *answer.MarksObtained
		}
	}
	return total
}

func decodeChoice(raw []byte) (string, bool) {
	var value interface{}
	if len(raw) == 0 {
		return "", false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	if err := choiceAnswerSchema.Validate(value); err != nil {
		return "", false
	}

	selected, ok := value.(string)
	return selected, ok
}

func decodeMatching(raw []byte) (map[string]string, bool) {
	var value interface{}
	if len(raw) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false
	}
	if err := matchingAnswerSchema.Validate(value); err != nil {
		return nil, false
	}

	object, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}

	picks := make(map[string]string, len(object))
	for left, right := range object {
		text, isString := right.(string)
		if !isString {
			return nil, false
		}
		picks[left] = text
	}

	return picks, true
}

func gradedZero() GradedAnswer {
	zero := 0.0
	return GradedAnswer{IsCorrect: false, Marks: &zero}
}
