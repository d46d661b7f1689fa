package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
)

// fakeEnrollmentStore backs all four store contracts of the enrollment
// guard. Create holds a single lock for its check-then-insert, mirroring the
// row lock the real repository takes, so the capacity and uniqueness
// invariants hold under concurrent calls.
type fakeEnrollmentStore struct {
	mu         sync.Mutex
	students   map[int64]*models.Student
	batches    map[int64]*models.Batch
	subjects   map[int64]*models.Subject
	selections []models.Selection
	nextID     int64
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{
		students: make(map[int64]*models.Student),
		batches:  make(map[int64]*models.Batch),
		subjects: make(map[int64]*models.Subject),
		nextID:   1,
	}
}

func (f *fakeEnrollmentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, "student not found").WithDetail("studentId", id)
}

// fakeBatchStore and fakeSubjectStore wrap the shared fixture so the three
// GetByID contracts don't collide on one method set.
type fakeBatchStore struct{ f *fakeEnrollmentStore }

func (b fakeBatchStore) GetByID(ctx context.Context, id int64) (*models.Batch, error) {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	if batch, ok := b.f.batches[id]; ok {
		return batch, nil
	}
	return nil, apperrors.NewCustomError(apperrors.ErrBatchNotFound, "batch not found").WithDetail("batchId", id)
}

type fakeSubjectStore struct{ f *fakeEnrollmentStore }

func (s fakeSubjectStore) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	if subject, ok := s.f.subjects[id]; ok {
		return subject, nil
	}
	return nil, apperrors.NewCustomError(apperrors.ErrSubjectNotFound, "subject not found").WithDetail("subjectId", id)
}

func (s fakeSubjectStore) ListElectives(ctx context.Context, courseID int64, semester int) ([]*models.Subject, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var out []*models.Subject
	for _, subject := range s.f.subjects {
		if subject.CourseID == courseID && subject.Semester == semester && subject.Type == models.SubjectTypeElective {
			out = append(out, subject)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) ListSubjectIDsByStudent(ctx context.Context, studentID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for _, sel := range f.selections {
		if sel.StudentID == studentID {
			ids = append(ids, sel.SubjectID)
		}
	}
	return ids, nil
}

func (f *fakeEnrollmentStore) Create(ctx context.Context, studentID, subjectID int64, semester, limit int) (*models.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, sel := range f.selections {
		if sel.StudentID == studentID && sel.SubjectID == subjectID {
			return nil, apperrors.ErrDuplicateSelection
		}
		if sel.StudentID == studentID && sel.Semester == semester {
			count++
		}
	}
	if count >= limit {
		return nil, apperrors.ErrCapacityExceeded
	}

	sel := models.Selection{
		ID:         f.nextID,
		StudentID:  studentID,
		SubjectID:  subjectID,
		Semester:   semester,
		SelectedAt: time.Now(),
	}
	f.nextID++
	f.selections = append(f.selections, sel)
	return &sel, nil
}

// newEnrollmentFixture seeds one student in a semester-1 BCA batch with two
// core subjects and the given number of electives.
func newEnrollmentFixture(electives, limit int) (*EnrollmentService, *fakeEnrollmentStore) {
	store := newFakeEnrollmentStore()

	store.batches[1] = &models.Batch{ID: 1, CourseID: 1, AcademicUnit: 1}
	batchID := int64(1)
	store.students[10] = &models.Student{ID: 10, BatchID: &batchID}
	store.students[11] = &models.Student{ID: 11} // unassigned

	store.subjects[1] = &models.Subject{ID: 1, CourseID: 1, Semester: 1, Code: "BCA101", Type: models.SubjectTypeCore}
	store.subjects[2] = &models.Subject{ID: 2, CourseID: 1, Semester: 2, Code: "BCA201", Type: models.SubjectTypeElective}
	for i := 0; i < electives; i++ {
		id := int64(100 + i)
		store.subjects[id] = &models.Subject{
			ID:       id,
			CourseID: 1,
			Semester: 1,
			Code:     fmt.Sprintf("BCA11%d", i),
			Type:     models.SubjectTypeElective,
		}
	}

	svc := NewEnrollmentService(store, fakeBatchStore{store}, fakeSubjectStore{store}, store, limit)
	return svc, store
}

func TestListAvailableAnnotatesSelections(t *testing.T) {
	svc, _ := newEnrollmentFixture(3, 2)
	ctx := context.Background()

	if _, err := svc.Select(ctx, 10, 100); err != nil {
		t.Fatalf("Select: %v", err)
	}

	options, err := svc.ListAvailable(ctx, 10)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}

	if len(options) != 3 {
		t.Fatalf("got %d options, want 3", len(options))
	}
	for _, opt := range options {
		wantSelected := opt.ID == 100
		if opt.Selected != wantSelected {
			t.Errorf("subject %d selected = %v, want %v", opt.ID, opt.Selected, wantSelected)
		}
		if opt.Type != models.SubjectTypeElective {
			t.Errorf("subject %d is %s, want only electives listed", opt.ID, opt.Type)
		}
	}
}

func TestListAvailableRequiresBatch(t *testing.T) {
	svc, _ := newEnrollmentFixture(1, 2)

	_, err := svc.ListAvailable(context.Background(), 11)
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("got %v, want resource not found for unassigned student", err)
	}
}

func TestSelectRecordsSelection(t *testing.T) {
	svc, _ := newEnrollmentFixture(2, 2)

	sel, err := svc.Select(context.Background(), 10, 100)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.StudentID != 10 || sel.SubjectID != 100 || sel.Semester != 1 {
		t.Errorf("selection = %+v, want student 10, subject 100, semester 1", sel)
	}
}

func TestSelectRejectsCoreSubject(t *testing.T) {
	svc, _ := newEnrollmentFixture(1, 2)

	_, err := svc.Select(context.Background(), 10, 1)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("got %v, want validation failure for core subject", err)
	}
}

func TestSelectRejectsOtherSemester(t *testing.T) {
	svc, _ := newEnrollmentFixture(1, 2)

	_, err := svc.Select(context.Background(), 10, 2)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("got %v, want validation failure for semester mismatch", err)
	}
}

func TestSelectRejectsDuplicate(t *testing.T) {
	svc, _ := newEnrollmentFixture(2, 2)
	ctx := context.Background()

	if _, err := svc.Select(ctx, 10, 100); err != nil {
		t.Fatalf("first Select: %v", err)
	}

	_, err := svc.Select(ctx, 10, 100)
	if !errors.Is(err, apperrors.ErrDuplicateSelection) {
		t.Errorf("got %v, want duplicate selection", err)
	}
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("duplicate selection should unwrap to conflict, got %v", err)
	}
}

func TestSelectEnforcesCapacityUnderConcurrency(t *testing.T) {
	const attempts = 10
	svc, store := newEnrollmentFixture(attempts, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(subjectID int64) {
			defer wg.Done()
			_, err := svc.Select(ctx, 10, subjectID)
			results <- err
		}(int64(100 + i))
	}
	wg.Wait()
	close(results)

	succeeded, capacity := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrCapacityExceeded):
			capacity++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 2 {
		t.Errorf("%d selections succeeded, want exactly 2", succeeded)
	}
	if capacity != attempts-2 {
		t.Errorf("%d capacity rejections, want %d", capacity, attempts-2)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.selections) != 2 {
		t.Errorf("%d selections committed, want 2", len(store.selections))
	}
}
