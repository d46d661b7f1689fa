package services

import (
	"context"

	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
)

// Store contracts consumed by the enrollment guard.
type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

type BatchStore interface {
	GetByID(ctx context.Context, id int64) (*models.Batch, error)
}

type SubjectStore interface {
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	ListElectives(ctx context.Context, courseID int64, semester int) ([]*models.Subject, error)
}

type SelectionStore interface {
	ListSubjectIDsByStudent(ctx context.Context, studentID int64) ([]int64, error)
	// Create must guarantee that committed selections per (student, semester)
	// never exceed limit and that (student, subject) pairs stay unique, even
	// under concurrent calls.
	Create(ctx context.Context, studentID, subjectID int64, semester, limit int) (*models.Selection, error)
}

// EnrollmentService lets a student select electives for their current
// semester under a per-semester capacity limit.
type EnrollmentService struct {
	studentStore   StudentStore
	batchStore     BatchStore
	subjectStore   SubjectStore
	selectionStore SelectionStore
	limit          int
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(studentStore StudentStore, batchStore BatchStore, subjectStore SubjectStore, selectionStore SelectionStore, limit int) *EnrollmentService {
	return &EnrollmentService{
		studentStore:   studentStore,
		batchStore:     batchStore,
		subjectStore:   subjectStore,
		selectionStore: selectionStore,
		limit:          limit,
	}
}

// Limit returns the configured per-semester elective limit.
func (s *EnrollmentService) Limit() int {
	return s.limit
}

// resolveBatch loads a student and the batch that determines their current
// course and semester.
func (s *EnrollmentService) resolveBatch(ctx context.Context, studentID int64) (*models.Student, *models.Batch, error) {
	student, err := s.studentStore.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	if student.BatchID == nil {
		return nil, nil, apperrors.NewCustomError(apperrors.ErrResourceNotFound, "student is not assigned to a batch").
			WithDetail("studentId", studentID)
	}

	batch, err := s.batchStore.GetByID(ctx, *student.BatchID)
	if err != nil {
		return nil, nil, err
	}
	return student, batch, nil
}

// ListAvailable returns every elective of the student's course and current
// semester, annotated with whether the student already selected it.
func (s *EnrollmentService) ListAvailable(ctx context.Context, studentID int64) ([]models.ElectiveOption, error) {
	if studentID <= 0 {
		return nil, apperrors.NewValidationError("student id must be positive")
	}

	_, batch, err := s.resolveBatch(ctx, studentID)
	if err != nil {
		return nil, err
	}

	electives, err := s.subjectStore.ListElectives(ctx, batch.CourseID, batch.AcademicUnit)
	if err != nil {
		return nil, err
	}

	selectedIDs, err := s.selectionStore.ListSubjectIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	selected := make(map[int64]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}

	options := make([]models.ElectiveOption, 0, len(electives))
	for _, subject := range electives {
		_, isSelected := selected[subject.ID]
		options = append(options, models.ElectiveOption{Subject: *subject, Selected: isSelected})
	}
	return options, nil
}

// Select records the student's choice of one elective for their current
// semester. Fails with a conflict error when the subject is already selected
// or the semester's limit is reached; the storage layer guarantees neither
// invariant breaks under concurrent calls.
func (s *EnrollmentService) Select(ctx context.Context, studentID, subjectID int64) (*models.Selection, error) {
	if studentID <= 0 || subjectID <= 0 {
		return nil, apperrors.NewValidationError("student id and subject id must be positive")
	}

	_, batch, err := s.resolveBatch(ctx, studentID)
	if err != nil {
		return nil, err
	}

	subject, err := s.subjectStore.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if subject.Type != models.SubjectTypeElective {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "subject is not an elective").
			WithDetail("subjectId", subjectID)
	}
	if subject.CourseID != batch.CourseID || subject.Semester != batch.AcademicUnit {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "subject does not belong to the student's current semester").
			WithDetails(map[string]interface{}{"subjectId": subjectID, "semester": batch.AcademicUnit})
	}

	return s.selectionStore.Create(ctx, studentID, subjectID, batch.AcademicUnit, s.limit)
}
