package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/db"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
	"github.com/meric/acadbatch/internal/pkg/dberrors"
	"github.com/meric/acadbatch/internal/pkg/logger"
)

// StudentRepository handles student database operations, including the
// transactional roll renumbering of whole batches.
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = "id, full_name, email, batch_id, roll, admitted_at, created_at"

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID, &student.FullName, &student.Email, &student.BatchID,
		&student.Roll, &student.AdmittedAt, &student.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	row := r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	student, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// ListByBatch retrieves every student linked to a batch, in roll order.
func (r *StudentRepository) ListByBatch(ctx context.Context, batchID int64) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+studentColumns+` FROM students WHERE batch_id = $1 ORDER BY roll NULLS LAST, id`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// RenumberFn computes the roll assignments for a batch from its current
// membership. It is injected by the service layer so the ordering and
// formatting rules live in one place.
type RenumberFn func(batch *models.Batch, course *models.Course, students []*models.Student) []models.RollAssignment

// RenumberBatch recomputes the rolls of one batch inside a single
// transaction. The batch row is locked FOR UPDATE for the whole
// read-compute-write cycle, so two renumbering runs for the same batch
// serialize while different batches proceed independently.
func (r *StudentRepository) RenumberBatch(ctx context.Context, batchID int64, renumber RenumberFn) ([]models.RollAssignment, error) {
	var assignments []models.RollAssignment
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		assignments, err = renumberLocked(ctx, tx, batchID, renumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// AssignAndRenumber re-assigns the given students to batchID and renumbers
// every affected batch (the target plus any batch a student moved out of)
// in one transaction. Returns the target batch's new roll assignments.
func (r *StudentRepository) AssignAndRenumber(ctx context.Context, studentIDs []int64, batchID int64, renumber RenumberFn) ([]models.RollAssignment, error) {
	var assignments []models.RollAssignment
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		// Lock the student rows first so concurrent moves of the same
		// students serialize.
		rows, err := tx.Query(ctx,
			`SELECT id, batch_id FROM students WHERE id = ANY($1) ORDER BY id FOR UPDATE`, studentIDs)
		if err != nil {
			return fmt.Errorf("error locking students: %w", err)
		}
		sources := make(map[int64]struct{})
		found := make(map[int64]struct{})
		for rows.Next() {
			var id int64
			var source *int64
			if err := rows.Scan(&id, &source); err != nil {
				rows.Close()
				return err
			}
			found[id] = struct{}{}
			if source != nil && *source != batchID {
				sources[*source] = struct{}{}
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		var missing []int64
		for _, id := range studentIDs {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "one or more students do not exist").
				WithDetail("studentIds", missing)
		}

		// Lock every affected batch in ascending id order to keep
		// concurrent assigns from deadlocking on each other.
		affected := []int64{batchID}
		for id := range sources {
			affected = append(affected, id)
		}
		sort.Slice(affected, func(i, j int) bool { return affected[i] < affected[j] })

		locked, err := lockBatches(ctx, tx, affected)
		if err != nil {
			return err
		}
		if _, ok := locked[batchID]; !ok {
			return apperrors.NewCustomError(apperrors.ErrBatchNotFound, "target batch does not exist").
				WithDetail("batchId", batchID)
		}

		// Roll is cleared in the same statement: a moved student's old roll
		// can collide with the target batch's rolls when both batches share
		// a prefix (same course and academic unit), and the per-batch
		// uniqueness index would reject the move before renumbering runs.
		if _, err := tx.Exec(ctx,
			`UPDATE students SET batch_id = $1, roll = NULL WHERE id = ANY($2)`, batchID, studentIDs); err != nil {
			return fmt.Errorf("error assigning students to batch: %w", err)
		}

		for _, id := range affected {
			a, err := renumberLocked(ctx, tx, id, renumber)
			if err != nil {
				return err
			}
			if id == batchID {
				assignments = a
			}
		}

		logger.Info().Int64("batchId", batchID).Int("students", len(studentIDs)).
			Int("affectedBatches", len(affected)).Msg("Batch membership assigned and renumbered")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// lockBatches locks the given batch rows FOR UPDATE and reports which ids
// actually exist. The caller passes ids in ascending order.
func lockBatches(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]struct{}, error) {
	rows, err := tx.Query(ctx, `SELECT id FROM batches WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("error locking batches: %w", err)
	}
	defer rows.Close()

	locked := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		locked[id] = struct{}{}
	}
	return locked, rows.Err()
}

// renumberLocked runs the renumbering of one batch on an open transaction.
// The batch row must already be locked, or is locked here for the
// single-batch path.
func renumberLocked(ctx context.Context, tx pgx.Tx, batchID int64, renumber RenumberFn) ([]models.RollAssignment, error) {
	var batch models.Batch
	var course models.Course
	err := tx.QueryRow(ctx, `
		SELECT b.id, b.course_id, b.academic_unit, b.section, b.admission_year, b.is_active, b.created_at,
		       c.id, c.name, c.code, c.duration
		FROM batches b
		JOIN courses c ON c.id = b.course_id
		WHERE b.id = $1
		FOR UPDATE OF b`, batchID).Scan(
		&batch.ID, &batch.CourseID, &batch.AcademicUnit, &batch.Section, &batch.AdmissionYear, &batch.IsActive, &batch.CreatedAt,
		&course.ID, &course.Name, &course.Code, &course.Duration,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewCustomError(apperrors.ErrBatchNotFound, "batch does not exist").
				WithDetail("batchId", batchID)
		}
		return nil, fmt.Errorf("error locking batch for renumbering: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT `+studentColumns+` FROM students WHERE batch_id = $1`, batchID)
	if err != nil {
		return nil, fmt.Errorf("error reading batch members: %w", err)
	}
	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		students = append(students, student)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	assignments := renumber(&batch, &course, students)

	// Clear current rolls first: a new member sorting ahead of existing ones
	// shifts every later roll, and the per-batch uniqueness index would
	// reject the intermediate states.
	if _, err := tx.Exec(ctx, `UPDATE students SET roll = NULL WHERE batch_id = $1`, batchID); err != nil {
		return nil, fmt.Errorf("error clearing batch rolls: %w", err)
	}

	batchWrite := &pgx.Batch{}
	for _, a := range assignments {
		batchWrite.Queue(`UPDATE students SET roll = $1 WHERE id = $2`, a.Roll, a.StudentID)
	}
	br := tx.SendBatch(ctx, batchWrite)
	for range assignments {
		if _, err := br.Exec(); err != nil {
			br.Close()
			if dberrors.IsUniqueViolation(err) {
				return nil, apperrors.NewConflictError("concurrent roll assignment detected")
			}
			return nil, fmt.Errorf("error writing roll assignment: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("error completing roll assignment batch: %w", err)
	}

	return assignments, nil
}
