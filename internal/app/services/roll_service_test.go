package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/app/repositories"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
)

// fakeRollStore is an in-memory RollStore honoring the repository contract:
// renumbering reads the full membership of a batch and persists the rolls
// the injected renumber function produces, atomically under one lock.
type fakeRollStore struct {
	mu       sync.Mutex
	courses  map[int64]*models.Course
	batches  map[int64]*models.Batch
	students map[int64]*models.Student

	lastAssignIDs []int64
}

func newFakeRollStore() *fakeRollStore {
	return &fakeRollStore{
		courses:  make(map[int64]*models.Course),
		batches:  make(map[int64]*models.Batch),
		students: make(map[int64]*models.Student),
	}
}

// checkRollIndex enforces the same invariant as the partial unique index on
// (batch_id, roll): no two students of one batch may hold the same roll.
func (f *fakeRollStore) checkRollIndex() error {
	seen := make(map[string]struct{})
	for _, s := range f.students {
		if s.BatchID == nil || s.Roll == nil {
			continue
		}
		key := fmt.Sprintf("%d/%s", *s.BatchID, *s.Roll)
		if _, dup := seen[key]; dup {
			return apperrors.NewConflictError("duplicate roll within batch")
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (f *fakeRollStore) renumberLocked(batchID int64, renumber repositories.RenumberFn) ([]models.RollAssignment, error) {
	batch, ok := f.batches[batchID]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrBatchNotFound, "batch not found").WithDetail("batchId", batchID)
	}
	course := f.courses[batch.CourseID]

	var members []*models.Student
	for _, s := range f.students {
		if s.BatchID != nil && *s.BatchID == batchID {
			members = append(members, s)
		}
	}

	assignments := renumber(batch, course, members)
	for _, s := range members {
		s.Roll = nil
	}
	for _, a := range assignments {
		roll := a.Roll
		f.students[a.StudentID].Roll = &roll
	}
	if err := f.checkRollIndex(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (f *fakeRollStore) RenumberBatch(ctx context.Context, batchID int64, renumber repositories.RenumberFn) ([]models.RollAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renumberLocked(batchID, renumber)
}

func (f *fakeRollStore) AssignAndRenumber(ctx context.Context, studentIDs []int64, batchID int64, renumber repositories.RenumberFn) ([]models.RollAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastAssignIDs = append([]int64(nil), studentIDs...)

	if _, ok := f.batches[batchID]; !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrBatchNotFound, "batch not found").WithDetail("batchId", batchID)
	}

	affected := map[int64]struct{}{batchID: {}}
	for _, id := range studentIDs {
		s, ok := f.students[id]
		if !ok {
			return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, "student not found").WithDetail("studentId", id)
		}
		if s.BatchID != nil {
			affected[*s.BatchID] = struct{}{}
		}
	}

	// Mirror the repository's move statement: the roll is cleared together
	// with the batch change so the uniqueness index never sees a moved
	// student's old roll inside the target batch.
	for _, id := range studentIDs {
		b := batchID
		f.students[id].BatchID = &b
		f.students[id].Roll = nil
	}
	if err := f.checkRollIndex(); err != nil {
		return nil, err
	}

	var target []models.RollAssignment
	for affectedID := range affected {
		assignments, err := f.renumberLocked(affectedID, renumber)
		if err != nil {
			return nil, err
		}
		if affectedID == batchID {
			target = assignments
		}
	}
	return target, nil
}

func (f *fakeRollStore) rollOf(t *testing.T, studentID int64) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.students[studentID]
	if s == nil || s.Roll == nil {
		t.Fatalf("student %d has no roll", studentID)
	}
	return *s.Roll
}

func seedRollFixture(store *fakeRollStore) {
	store.courses[1] = &models.Course{ID: 1, Name: "Bachelor of Computer Applications", Code: "BCA"}
	store.batches[1] = &models.Batch{ID: 1, CourseID: 1, AcademicUnit: 1, Section: "A"}
	store.batches[2] = &models.Batch{ID: 2, CourseID: 1, AcademicUnit: 2, Section: "A"}

	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []int64{101, 102, 103} {
		batchID := int64(1)
		store.students[id] = &models.Student{
			ID:         id,
			BatchID:    &batchID,
			AdmittedAt: base.AddDate(0, 0, i),
		}
	}
}

func TestRecalculateAssignsSequentialRolls(t *testing.T) {
	store := newFakeRollStore()
	seedRollFixture(store)
	svc := NewRollService(store)

	got, err := svc.Recalculate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}

	want := map[int64]string{101: "BCA1-001", 102: "BCA1-002", 103: "BCA1-003"}
	if len(got) != len(want) {
		t.Fatalf("got %d assignments, want %d", len(got), len(want))
	}
	for _, a := range got {
		if want[a.StudentID] != a.Roll {
			t.Errorf("student %d got roll %q, want %q", a.StudentID, a.Roll, want[a.StudentID])
		}
	}
}

func TestRecalculateIsIdempotent(t *testing.T) {
	store := newFakeRollStore()
	seedRollFixture(store)
	svc := NewRollService(store)

	first, err := svc.Recalculate(context.Background(), 1)
	if err != nil {
		t.Fatalf("first Recalculate: %v", err)
	}
	second, err := svc.Recalculate(context.Background(), 1)
	if err != nil {
		t.Fatalf("second Recalculate: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	rolls := make(map[int64]string, len(first))
	for _, a := range first {
		rolls[a.StudentID] = a.Roll
	}
	for _, a := range second {
		if rolls[a.StudentID] != a.Roll {
			t.Errorf("student %d roll changed between runs: %q vs %q", a.StudentID, rolls[a.StudentID], a.Roll)
		}
	}
}

func TestAssignMembershipRenumbersSourceAndTarget(t *testing.T) {
	store := newFakeRollStore()
	seedRollFixture(store)
	svc := NewRollService(store)

	if _, err := svc.Recalculate(context.Background(), 1); err != nil {
		t.Fatalf("seed Recalculate: %v", err)
	}

	// Move the middle student out of batch 1.
	got, err := svc.AssignMembership(context.Background(), []int64{102}, 2)
	if err != nil {
		t.Fatalf("AssignMembership: %v", err)
	}

	if len(got) != 1 || got[0].StudentID != 102 || got[0].Roll != "BCA2-001" {
		t.Errorf("target assignments = %+v, want student 102 with roll BCA2-001", got)
	}

	// Source batch closes the gap left by the departure.
	if roll := store.rollOf(t, 101); roll != "BCA1-001" {
		t.Errorf("student 101 roll = %q, want BCA1-001", roll)
	}
	if roll := store.rollOf(t, 103); roll != "BCA1-002" {
		t.Errorf("student 103 roll = %q, want BCA1-002", roll)
	}
}

func TestAssignMembershipBetweenSamePrefixBatches(t *testing.T) {
	store := newFakeRollStore()
	store.courses[1] = &models.Course{ID: 1, Name: "Bachelor of Computer Applications", Code: "BCA"}
	// Two sections of the same course and semester share the roll prefix.
	store.batches[1] = &models.Batch{ID: 1, CourseID: 1, AcademicUnit: 1, Section: "A"}
	store.batches[2] = &models.Batch{ID: 2, CourseID: 1, AcademicUnit: 1, Section: "B"}

	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []int64{201, 202} {
		batchID := int64(2)
		store.students[id] = &models.Student{ID: id, BatchID: &batchID, AdmittedAt: base.AddDate(0, 0, i)}
	}
	// Section A students admitted after section B's, so a mover sorts last
	// in the target batch.
	for i, id := range []int64{101, 102} {
		batchID := int64(1)
		store.students[id] = &models.Student{ID: id, BatchID: &batchID, AdmittedAt: base.AddDate(0, 0, 5+i)}
	}

	svc := NewRollService(store)
	ctx := context.Background()

	// Both sections now hold BCA1-001, BCA1-002.
	if _, err := svc.Recalculate(ctx, 1); err != nil {
		t.Fatalf("Recalculate section A: %v", err)
	}
	if _, err := svc.Recalculate(ctx, 2); err != nil {
		t.Fatalf("Recalculate section B: %v", err)
	}

	// Moving a student whose roll ordinal already exists in the target
	// section must succeed, not trip the per-batch roll uniqueness.
	got, err := svc.AssignMembership(ctx, []int64{102}, 2)
	if err != nil {
		t.Fatalf("AssignMembership across sections: %v", err)
	}

	want := map[int64]string{201: "BCA1-001", 202: "BCA1-002", 102: "BCA1-003"}
	if len(got) != len(want) {
		t.Fatalf("got %d target assignments, want %d", len(got), len(want))
	}
	for _, a := range got {
		if want[a.StudentID] != a.Roll {
			t.Errorf("student %d got roll %q, want %q", a.StudentID, a.Roll, want[a.StudentID])
		}
	}

	if roll := store.rollOf(t, 101); roll != "BCA1-001" {
		t.Errorf("remaining section A student roll = %q, want BCA1-001", roll)
	}
}

func TestAssignMembershipDeduplicatesStudentIDs(t *testing.T) {
	store := newFakeRollStore()
	seedRollFixture(store)
	svc := NewRollService(store)

	if _, err := svc.AssignMembership(context.Background(), []int64{102, 102, 102}, 2); err != nil {
		t.Fatalf("AssignMembership: %v", err)
	}

	if len(store.lastAssignIDs) != 1 || store.lastAssignIDs[0] != 102 {
		t.Errorf("store received ids %v, want [102]", store.lastAssignIDs)
	}
}

func TestAssignMembershipValidation(t *testing.T) {
	store := newFakeRollStore()
	seedRollFixture(store)
	svc := NewRollService(store)
	ctx := context.Background()

	tests := []struct {
		name       string
		studentIDs []int64
		batchID    int64
	}{
		{"zero batch id", []int64{101}, 0},
		{"negative batch id", []int64{101}, -3},
		{"no students", nil, 1},
		{"invalid student id", []int64{101, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AssignMembership(ctx, tt.studentIDs, tt.batchID)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("got %v, want validation failure", err)
			}
		})
	}
}

func TestRollServiceNotFound(t *testing.T) {
	store := newFakeRollStore()
	seedRollFixture(store)
	svc := NewRollService(store)
	ctx := context.Background()

	if _, err := svc.Recalculate(ctx, 99); !errors.Is(err, apperrors.ErrBatchNotFound) {
		t.Errorf("Recalculate(99) = %v, want batch not found", err)
	}
	if _, err := svc.AssignMembership(ctx, []int64{999}, 1); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("AssignMembership(999) = %v, want student not found", err)
	}
}
