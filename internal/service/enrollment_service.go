package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/quizdesk/quizdesk-api/internal/models"
	"github.com/quizdesk/quizdesk-api/internal/repository"
)

// EnrollmentService answers who may touch a quiz: whether a student is
// enrolled for it, and whether a teacher is assigned its subject and
// classes. Reads are pure predicates over the academic directory.
type EnrollmentService interface {
	IsEnrolled(ctx context.Context, studentID, subjectID uint, classIDs []uint) (bool, error)
	IsEnrolledForQuiz(ctx context.Context, studentID uint, quiz models.Quiz) (bool, error)
	Enroll(ctx context.Context, studentID, subjectID, classID uint) error
	ListForStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error)
	IsTeacherAssigned(ctx context.Context, teacherID, subjectID uint, classIDs []uint) (bool, error)
	AssignTeacher(ctx context.Context, teacherID, subjectID, classID uint) error
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	assignments repository.AssignmentRepository
	logger      zerolog.Logger
}

// NewEnrollmentService constructs the enrollment oracle.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, assignments repository.AssignmentRepository, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		assignments: assignments,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, studentID, subjectID uint, classIDs []uint) (bool, error) {
	return s.enrollments.Exists(ctx, studentID, subjectID, classIDs)
}

func (s *enrollmentService) IsEnrolledForQuiz(ctx context.Context, studentID uint, quiz models.Quiz) (bool, error) {
	return s.enrollments.Exists(ctx, studentID, quiz.SubjectID, quiz.ClassIDs())
}

// Enroll registers a student for a subject within a class. The directory
// is a set: duplicate registrations are absorbed, including the loser of
// a concurrent insert hitting the unique index.
func (s *enrollmentService) Enroll(ctx context.Context, studentID, subjectID, classID uint) error {
	exists, err := s.enrollments.Exists(ctx, studentID, subjectID, []uint{classID})
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	enrollment := models.Enrollment{StudentID: studentID, SubjectID: subjectID, ClassID: classID}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	s.logger.Info().
		Uint("student_id", studentID).
		Uint("subject_id", subjectID).
		Uint("class_id", classID).
		Msg("student enrolled")

	return nil
}

func (s *enrollmentService) ListForStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}

func (s *enrollmentService) IsTeacherAssigned(ctx context.Context, teacherID, subjectID uint, classIDs []uint) (bool, error) {
	return s.assignments.Assigned(ctx, teacherID, subjectID, classIDs)
}

// AssignTeacher records that a teacher teaches a subject to a class.
// Like Enroll, the directory is a set.
func (s *enrollmentService) AssignTeacher(ctx context.Context, teacherID, subjectID, classID uint) error {
	assignment := models.TeacherAssignment{TeacherID: teacherID, SubjectID: subjectID, ClassID: classID}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	s.logger.Info().
		Uint("teacher_id", teacherID).
		Uint("subject_id", subjectID).
		Uint("class_id", classID).
		Msg("teacher assigned")

	return nil
}
