package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/db"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
	"github.com/meric/acadbatch/internal/pkg/dberrors"
)

// RecordRepository persists attendance and marks records with an
// insert-or-overwrite contract on their composite natural keys.
type RecordRepository struct {
	db *pgxpool.Pool
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

const upsertAttendanceSQL = `
	INSERT INTO attendance_records (student_id, class_id, date, status, marked_by)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (student_id, date, class_id)
	DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by`

const upsertMarksSQL = `
	INSERT INTO marks_records (student_id, class_id, exam_type, marks_obtained, total_marks)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (student_id, class_id, exam_type)
	DO UPDATE SET marks_obtained = EXCLUDED.marks_obtained, total_marks = EXCLUDED.total_marks`

// UpsertAttendance applies a batch of attendance entries atomically: every
// record either inserts a new row or overwrites the row with the same
// (student, date, class) key. A failure on any record rolls back the batch.
func (r *RecordRepository) UpsertAttendance(ctx context.Context, records []models.AttendanceRecord) (int, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(upsertAttendanceSQL, rec.StudentID, rec.ClassID, rec.Date, rec.Status, rec.MarkedBy)
		}
		return drainBatch(tx.SendBatch(ctx, batch), records, func(i int) map[string]interface{} {
			return map[string]interface{}{
				"index":     i,
				"studentId": records[i].StudentID,
				"classId":   records[i].ClassID,
			}
		})
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// UpsertMarks applies a batch of marks entries with the same merge contract,
// keyed by (student, class, exam type).
func (r *RecordRepository) UpsertMarks(ctx context.Context, records []models.MarksRecord) (int, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(upsertMarksSQL, rec.StudentID, rec.ClassID, rec.ExamType, rec.MarksObtained, rec.TotalMarks)
		}
		return drainBatch(tx.SendBatch(ctx, batch), records, func(i int) map[string]interface{} {
			return map[string]interface{}{
				"index":     i,
				"studentId": records[i].StudentID,
				"classId":   records[i].ClassID,
			}
		})
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// drainBatch executes every queued upsert and classifies the first failure,
// reporting which record caused it.
func drainBatch[T any](br pgx.BatchResults, records []T, details func(i int) map[string]interface{}) error {
	defer br.Close()
	for i := range records {
		if _, err := br.Exec(); err != nil {
			if constraint, ok := dberrors.IsForeignKeyViolation(err); ok {
				return apperrors.NewCustomError(apperrors.ErrValidationFailed, "record references an unknown entity").
					WithDetails(details(i)).WithDetail("constraint", constraint)
			}
			if dberrors.IsCheckViolation(err) {
				return apperrors.NewCustomError(apperrors.ErrValidationFailed, "record violates a storage constraint").
					WithDetails(details(i))
			}
			return fmt.Errorf("error upserting record %d: %w", i, err)
		}
	}
	return nil
}

// AttendanceSummary aggregates per-student attendance counts for one class.
func (r *RecordRepository) AttendanceSummary(ctx context.Context, classID int64) ([]models.AttendanceSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.full_name, s.roll,
		       COUNT(a.id) AS total_classes,
		       COUNT(*) FILTER (WHERE a.status = 'present') AS present_classes
		FROM attendance_records a
		JOIN students s ON s.id = a.student_id
		WHERE a.class_id = $1
		GROUP BY s.id, s.full_name, s.roll
		ORDER BY s.roll NULLS LAST, s.id`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.AttendanceSummary
	for rows.Next() {
		var s models.AttendanceSummary
		if err := rows.Scan(&s.StudentID, &s.StudentName, &s.Roll, &s.TotalClasses, &s.PresentClasses); err != nil {
			return nil, err
		}
		if s.TotalClasses > 0 {
			s.Percentage = (s.PresentClasses*100 + s.TotalClasses/2) / s.TotalClasses
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
