package service

import "errors"

// Sentinel errors shared across the quiz services. Handlers map these to
// HTTP statuses; services never touch transport concerns.
var (
	// ErrQuizNotFound indicates the referenced quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptNotFound indicates the referenced attempt does not exist.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAnswerNotFound indicates the attempt has no answer for the question.
	ErrAnswerNotFound = errors.New("answer not found")

	// ErrNotEnrolled denies access for students outside the quiz's
	// subject/class enrollments.
	ErrNotEnrolled = errors.New("student not enrolled for this quiz")
	// ErrNotQuizOwner denies teacher actions on quizzes they do not own.
	ErrNotQuizOwner = errors.New("quiz belongs to another teacher")
	// ErrTeacherNotAssigned denies quiz authoring for a subject/class
	// combination the teacher is not assigned to.
	ErrTeacherNotAssigned = errors.New("teacher not assigned to this subject and class")

	// ErrAttemptExists rejects a second submission for the same
	// (student, quiz) pair.
	ErrAttemptExists = errors.New("quiz already attempted")
	// ErrDuplicateQuestion rejects a question whose content duplicates
	// another question in the same quiz.
	ErrDuplicateQuestion = errors.New("duplicate question content in quiz")
	// ErrDuplicateAnswer rejects a submission payload that answers the
	// same question more than once.
	ErrDuplicateAnswer = errors.New("duplicate question in submission")

	// ErrQuizNotPublished rejects submissions to unpublished quizzes.
	ErrQuizNotPublished = errors.New("quiz is not published")
	// ErrQuizWindowClosed rejects submissions outside [start, end].
	ErrQuizWindowClosed = errors.New("quiz window is closed")
	// ErrQuizWithoutQuestions rejects publishing a quiz with no questions.
	ErrQuizWithoutQuestions = errors.New("cannot publish quiz without questions")
	// ErrQuizWindowInvalid rejects quizzes whose end does not follow start.
	ErrQuizWindowInvalid = errors.New("end time must be after start time")

	// ErrScoreOutOfRange rejects manual scores outside [0, marks].
	ErrScoreOutOfRange = errors.New("score outside the question's mark range")
	// ErrNotShortAnswer rejects manual scores for auto-graded types.
	ErrNotShortAnswer = errors.New("manual scores apply to short answers only")

	// ErrAttemptNotGraded rejects releasing an attempt that still has
	// answers awaiting manual grading.
	ErrAttemptNotGraded = errors.New("attempt is not fully graded")

	// ErrAssistUnavailable indicates no grading assistant is configured.
	ErrAssistUnavailable = errors.New("grading assistant not configured")
)

// Actor identifies the authenticated caller. Every core operation takes
// it explicitly; nothing reads identity from ambient state.
type Actor struct {
	ID   uint
	Role string
}
