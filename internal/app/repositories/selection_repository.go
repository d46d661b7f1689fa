package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/db"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
	"github.com/meric/acadbatch/internal/pkg/dberrors"
	"github.com/meric/acadbatch/internal/pkg/logger"
)

// SelectionRepository handles database operations for elective selections
type SelectionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSelectionRepository creates a new selection repository
func NewSelectionRepository(db *pgxpool.Pool) *SelectionRepository {
	return &SelectionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListSubjectIDsByStudent returns the subject ids a student has selected.
func (r *SelectionRepository) ListSubjectIDsByStudent(ctx context.Context, studentID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("subject_id").
		From("selections").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list selections query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Create inserts one elective selection, enforcing the per-semester limit.
// The student row is locked FOR UPDATE for the duration of the transaction,
// which serializes the count-then-insert against concurrent selects by the
// same student; the unique constraint on (student_id, subject_id) rejects
// duplicates, and the capacity trigger in the schema backs the limit even
// for writers that bypass this path.
func (r *SelectionRepository) Create(ctx context.Context, studentID, subjectID int64, semester, limit int) (*models.Selection, error) {
	selection := &models.Selection{
		StudentID: studentID,
		SubjectID: subjectID,
		Semester:  semester,
	}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, studentID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "student does not exist").
					WithDetail("studentId", studentID)
			}
			return fmt.Errorf("error locking student: %w", err)
		}

		var count int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM selections WHERE student_id = $1 AND semester = $2`,
			studentID, semester).Scan(&count)
		if err != nil {
			return fmt.Errorf("error counting selections: %w", err)
		}
		if count >= limit {
			return apperrors.NewCustomError(apperrors.ErrCapacityExceeded, "elective selection limit reached").
				WithDetails(map[string]interface{}{"studentId": studentID, "semester": semester, "limit": limit})
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO selections (student_id, subject_id, semester)
			VALUES ($1, $2, $3)
			RETURNING id, selected_at`,
			studentID, subjectID, semester).Scan(&selection.ID, &selection.SelectedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "selections_student_id_subject_id_key") {
				return apperrors.NewCustomError(apperrors.ErrDuplicateSelection, "subject already selected").
					WithDetails(map[string]interface{}{"studentId": studentID, "subjectId": subjectID})
			}
			if dberrors.IsRaisedException(err) {
				// Capacity trigger fired: another writer won the race.
				return apperrors.NewCustomError(apperrors.ErrCapacityExceeded, "elective selection limit reached").
					WithDetails(map[string]interface{}{"studentId": studentID, "semester": semester, "limit": limit})
			}
			if constraint, ok := dberrors.IsForeignKeyViolation(err); ok {
				return apperrors.NewCustomError(apperrors.ErrSubjectNotFound, "subject does not exist").
					WithDetail("constraint", constraint)
			}
			return fmt.Errorf("error inserting selection: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("studentId", studentID).Int64("subjectId", subjectID).
		Int("semester", semester).Msg("Elective selection recorded")
	return selection, nil
}
