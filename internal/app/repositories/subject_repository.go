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

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const subjectColumns = "id, course_id, name, code, semester, credits, type, description"

func scanSubject(row pgx.Row) (*models.Subject, error) {
	var subject models.Subject
	err := row.Scan(
		&subject.ID, &subject.CourseID, &subject.Name, &subject.Code,
		&subject.Semester, &subject.Credits, &subject.Type, &subject.Description,
	)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	sql, args, err := r.sb.Select(subjectColumns).
		From("subjects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subject query: %w", err)
	}

	subject, err := scanSubject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}
	return subject, nil
}

// List retrieves subjects filtered by course, semester and type.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]*models.Subject, error) {
	q := r.sb.Select(subjectColumns).From("subjects").OrderBy("semester", "code")
	if filter.CourseID > 0 {
		q = q.Where(squirrel.Eq{"course_id": filter.CourseID})
	}
	if filter.Semester > 0 {
		q = q.Where(squirrel.Eq{"semester": filter.Semester})
	}
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": filter.Type})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

// ListElectives retrieves the elective subjects of one course semester.
func (r *SubjectRepository) ListElectives(ctx context.Context, courseID int64, semester int) ([]*models.Subject, error) {
	return r.List(ctx, models.SubjectFilter{
		CourseID: courseID,
		Semester: semester,
		Type:     models.SubjectTypeElective,
	})
}
