package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
)

// BatchRepository handles database operations for batches
type BatchRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a batch by ID together with its course
func (r *BatchRepository) GetByID(ctx context.Context, id int64) (*models.Batch, error) {
	sql, args, err := r.sb.Select(
		"b.id", "b.course_id", "b.academic_unit", "b.section", "b.admission_year", "b.is_active", "b.created_at",
		"c.id", "c.name", "c.code", "c.duration").
		From("batches b").
		Join("courses c ON c.id = b.course_id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get batch query: %w", err)
	}

	var batch models.Batch
	var course models.Course
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&batch.ID, &batch.CourseID, &batch.AcademicUnit, &batch.Section, &batch.AdmissionYear, &batch.IsActive, &batch.CreatedAt,
		&course.ID, &course.Name, &course.Code, &course.Duration,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("error retrieving batch: %w", err)
	}

	batch.Course = &course
	return &batch, nil
}

// List retrieves batches, optionally filtered by course and active flag,
// newest admission year first.
func (r *BatchRepository) List(ctx context.Context, filter models.BatchFilter) ([]*models.Batch, error) {
	q := r.sb.Select(
		"b.id", "b.course_id", "b.academic_unit", "b.section", "b.admission_year", "b.is_active", "b.created_at",
		"c.id", "c.name", "c.code", "c.duration").
		From("batches b").
		Join("courses c ON c.id = b.course_id").
		OrderBy("b.admission_year DESC", "b.created_at DESC")

	if filter.CourseID > 0 {
		q = q.Where(squirrel.Eq{"b.course_id": filter.CourseID})
	}
	if filter.IsActive != nil {
		q = q.Where(squirrel.Eq{"b.is_active": *filter.IsActive})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list batches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		var batch models.Batch
		var course models.Course
		if err := rows.Scan(
			&batch.ID, &batch.CourseID, &batch.AcademicUnit, &batch.Section, &batch.AdmissionYear, &batch.IsActive, &batch.CreatedAt,
			&course.ID, &course.Name, &course.Code, &course.Duration,
		); err != nil {
			return nil, err
		}
		batch.Course = &course
		batches = append(batches, &batch)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return batches, nil
}
