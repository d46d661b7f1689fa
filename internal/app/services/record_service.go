package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
)

// RecordStore is the storage contract for keyed record merges. Both upserts
// apply their whole batch atomically.
type RecordStore interface {
	UpsertAttendance(ctx context.Context, records []models.AttendanceRecord) (int, error)
	UpsertMarks(ctx context.Context, records []models.MarksRecord) (int, error)
	AttendanceSummary(ctx context.Context, classID int64) ([]models.AttendanceSummary, error)
}

// RecordService merges attendance and marks submissions into storage so that
// resubmission for an already-recorded key overwrites rather than duplicates.
type RecordService struct {
	store RecordStore
}

// NewRecordService creates a new record service instance
func NewRecordService(store RecordStore) *RecordService {
	return &RecordService{store: store}
}

// UpsertAttendance validates and applies a batch of attendance entries.
// All records commit or none do.
func (s *RecordService) UpsertAttendance(ctx context.Context, records []models.AttendanceRecord) (int, error) {
	if len(records) == 0 {
		return 0, apperrors.NewValidationError("at least one attendance record is required")
	}

	for i, rec := range records {
		switch {
		case rec.StudentID <= 0:
			return 0, recordValidationError(i, "student id must be positive", rec.StudentID)
		case rec.ClassID <= 0:
			return 0, recordValidationError(i, "class id must be positive", rec.StudentID)
		case rec.Date.IsZero():
			return 0, recordValidationError(i, "date is required", rec.StudentID)
		case rec.MarkedBy <= 0:
			return 0, recordValidationError(i, "marking actor is required", rec.StudentID)
		case !models.ValidAttendanceStatus(rec.Status):
			return 0, recordValidationError(i, fmt.Sprintf("status must be one of present, absent, late; got %q", rec.Status), rec.StudentID)
		}
	}

	return s.store.UpsertAttendance(ctx, records)
}

// UpsertMarks validates and applies a batch of marks entries.
// All records commit or none do.
func (s *RecordService) UpsertMarks(ctx context.Context, records []models.MarksRecord) (int, error) {
	if len(records) == 0 {
		return 0, apperrors.NewValidationError("at least one marks record is required")
	}

	for i, rec := range records {
		switch {
		case rec.StudentID <= 0:
			return 0, recordValidationError(i, "student id must be positive", rec.StudentID)
		case rec.ClassID <= 0:
			return 0, recordValidationError(i, "class id must be positive", rec.StudentID)
		case strings.TrimSpace(rec.ExamType) == "":
			return 0, recordValidationError(i, "exam type is required", rec.StudentID)
		case rec.TotalMarks <= 0:
			return 0, recordValidationError(i, "total marks must be positive", rec.StudentID)
		case rec.MarksObtained < 0 || rec.MarksObtained > rec.TotalMarks:
			return 0, recordValidationError(i, "marks obtained must be between 0 and total marks", rec.StudentID)
		}
	}

	return s.store.UpsertMarks(ctx, records)
}

// AttendanceSummary aggregates per-student attendance for one class.
func (s *RecordService) AttendanceSummary(ctx context.Context, classID int64) ([]models.AttendanceSummary, error) {
	if classID <= 0 {
		return nil, apperrors.NewValidationError("class id must be positive")
	}
	return s.store.AttendanceSummary(ctx, classID)
}

func recordValidationError(index int, msg string, studentID int64) error {
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, msg).
		WithDetails(map[string]interface{}{"index": index, "studentId": studentID})
}
