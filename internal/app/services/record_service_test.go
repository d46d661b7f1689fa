package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
)

type attendanceKey struct {
	studentID int64
	date      string
	classID   int64
}

type marksKey struct {
	studentID int64
	classID   int64
	examType  string
}

// fakeRecordStore keeps one row per composite key, like the database's
// ON CONFLICT DO UPDATE upserts.
type fakeRecordStore struct {
	attendance map[attendanceKey]models.AttendanceRecord
	marks      map[marksKey]models.MarksRecord
	calls      int
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		attendance: make(map[attendanceKey]models.AttendanceRecord),
		marks:      make(map[marksKey]models.MarksRecord),
	}
}

func (f *fakeRecordStore) UpsertAttendance(ctx context.Context, records []models.AttendanceRecord) (int, error) {
	f.calls++
	for _, rec := range records {
		key := attendanceKey{rec.StudentID, rec.Date.Format("2006-01-02"), rec.ClassID}
		f.attendance[key] = rec
	}
	return len(records), nil
}

func (f *fakeRecordStore) UpsertMarks(ctx context.Context, records []models.MarksRecord) (int, error) {
	f.calls++
	for _, rec := range records {
		key := marksKey{rec.StudentID, rec.ClassID, rec.ExamType}
		f.marks[key] = rec
	}
	return len(records), nil
}

func (f *fakeRecordStore) AttendanceSummary(ctx context.Context, classID int64) ([]models.AttendanceSummary, error) {
	return nil, nil
}

func attendanceRecord(studentID int64, status models.AttendanceStatus) models.AttendanceRecord {
	return models.AttendanceRecord{
		StudentID: studentID,
		ClassID:   3,
		Date:      time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Status:    status,
		MarkedBy:  7,
	}
}

func TestUpsertAttendanceOverwritesNotDuplicates(t *testing.T) {
	store := newFakeRecordStore()
	svc := NewRecordService(store)
	ctx := context.Background()

	count, err := svc.UpsertAttendance(ctx, []models.AttendanceRecord{attendanceRecord(1, models.AttendanceAbsent)})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if count != 1 {
		t.Errorf("first upsert count = %d, want 1", count)
	}

	// Resubmitting the same (student, date, class) key corrects in place.
	if _, err := svc.UpsertAttendance(ctx, []models.AttendanceRecord{attendanceRecord(1, models.AttendancePresent)}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if len(store.attendance) != 1 {
		t.Fatalf("store holds %d rows, want 1", len(store.attendance))
	}
	for _, rec := range store.attendance {
		if rec.Status != models.AttendancePresent {
			t.Errorf("status = %q, want present after overwrite", rec.Status)
		}
	}
}

func TestUpsertAttendanceValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.AttendanceRecord)
		records []models.AttendanceRecord
	}{
		{name: "empty batch"},
		{name: "zero student", mutate: func(r *models.AttendanceRecord) { r.StudentID = 0 }},
		{name: "zero class", mutate: func(r *models.AttendanceRecord) { r.ClassID = 0 }},
		{name: "zero date", mutate: func(r *models.AttendanceRecord) { r.Date = time.Time{} }},
		{name: "no marking actor", mutate: func(r *models.AttendanceRecord) { r.MarkedBy = 0 }},
		{name: "unknown status", mutate: func(r *models.AttendanceRecord) { r.Status = "excused" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeRecordStore()
			svc := NewRecordService(store)

			records := tt.records
			if tt.mutate != nil {
				rec := attendanceRecord(1, models.AttendancePresent)
				tt.mutate(&rec)
				records = []models.AttendanceRecord{rec}
			}

			_, err := svc.UpsertAttendance(context.Background(), records)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("got %v, want validation failure", err)
			}
			if store.calls != 0 {
				t.Errorf("store was called %d times, want rejection before storage", store.calls)
			}
		})
	}
}

func TestUpsertAttendanceRejectsWholeBatchOnOneBadRecord(t *testing.T) {
	store := newFakeRecordStore()
	svc := NewRecordService(store)

	records := []models.AttendanceRecord{
		attendanceRecord(1, models.AttendancePresent),
		attendanceRecord(2, "excused"), // invalid
		attendanceRecord(3, models.AttendanceLate),
	}

	_, err := svc.UpsertAttendance(context.Background(), records)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("got %v, want validation failure", err)
	}
	if len(store.attendance) != 0 {
		t.Errorf("store holds %d rows, want none after rejected batch", len(store.attendance))
	}

	var custom *apperrors.CustomError
	if !errors.As(err, &custom) {
		t.Fatalf("error %v carries no details", err)
	}
	if custom.Details["index"] != 1 {
		t.Errorf("offending index = %v, want 1", custom.Details["index"])
	}
}

func marksRecord(studentID int64, obtained, total int) models.MarksRecord {
	return models.MarksRecord{
		StudentID:     studentID,
		ClassID:       3,
		ExamType:      "midterm",
		MarksObtained: obtained,
		TotalMarks:    total,
	}
}

func TestUpsertMarksOverwritesNotDuplicates(t *testing.T) {
	store := newFakeRecordStore()
	svc := NewRecordService(store)
	ctx := context.Background()

	if _, err := svc.UpsertMarks(ctx, []models.MarksRecord{marksRecord(1, 30, 50)}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := svc.UpsertMarks(ctx, []models.MarksRecord{marksRecord(1, 42, 50)}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if len(store.marks) != 1 {
		t.Fatalf("store holds %d rows, want 1", len(store.marks))
	}
	for _, rec := range store.marks {
		if rec.MarksObtained != 42 {
			t.Errorf("marks = %d, want 42 after overwrite", rec.MarksObtained)
		}
	}
}

func TestUpsertMarksValidation(t *testing.T) {
	tests := []struct {
		name   string
		record models.MarksRecord
	}{
		{"obtained above total", marksRecord(1, 60, 50)},
		{"negative obtained", marksRecord(1, -1, 50)},
		{"zero total", marksRecord(1, 0, 0)},
		{"blank exam type", models.MarksRecord{StudentID: 1, ClassID: 3, ExamType: "  ", MarksObtained: 10, TotalMarks: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeRecordStore()
			svc := NewRecordService(store)

			_, err := svc.UpsertMarks(context.Background(), []models.MarksRecord{tt.record})
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("got %v, want validation failure", err)
			}
			if store.calls != 0 {
				t.Errorf("store was called %d times, want rejection before storage", store.calls)
			}
		})
	}
}

func TestAttendanceSummaryValidation(t *testing.T) {
	svc := NewRecordService(newFakeRecordStore())

	_, err := svc.AttendanceSummary(context.Background(), 0)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("got %v, want validation failure", err)
	}
}
