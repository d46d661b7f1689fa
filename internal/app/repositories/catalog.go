package repositories

import (
	"context"

	"github.com/meric/acadbatch/internal/app/models"
)

// Catalog bundles the read-only listings the catalog service consumes.
type Catalog struct {
	batches  *BatchRepository
	students *StudentRepository
	subjects *SubjectRepository
}

// NewCatalog creates a catalog view over the repositories
func NewCatalog(r *Repositories) *Catalog {
	return &Catalog{
		batches:  r.BatchRepository,
		students: r.StudentRepository,
		subjects: r.SubjectRepository,
	}
}

func (c *Catalog) GetBatch(ctx context.Context, id int64) (*models.Batch, error) {
	return c.batches.GetByID(ctx, id)
}

func (c *Catalog) ListBatches(ctx context.Context, filter models.BatchFilter) ([]*models.Batch, error) {
	return c.batches.List(ctx, filter)
}

func (c *Catalog) ListBatchStudents(ctx context.Context, batchID int64) ([]*models.Student, error) {
	return c.students.ListByBatch(ctx, batchID)
}

func (c *Catalog) ListSubjects(ctx context.Context, filter models.SubjectFilter) ([]*models.Subject, error) {
	return c.subjects.List(ctx, filter)
}
