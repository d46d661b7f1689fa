package services

import (
	"context"

	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
)

// CatalogStore provides the read-only listings callers of the engine need.
type CatalogStore interface {
	GetBatch(ctx context.Context, id int64) (*models.Batch, error)
	ListBatches(ctx context.Context, filter models.BatchFilter) ([]*models.Batch, error)
	ListBatchStudents(ctx context.Context, batchID int64) ([]*models.Student, error)
	ListSubjects(ctx context.Context, filter models.SubjectFilter) ([]*models.Subject, error)
}

// CatalogService exposes batch and subject reads. Catalog mutation is owned
// by the administrative layer and is not part of this engine.
type CatalogService struct {
	store CatalogStore
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// ListBatches retrieves batches matching the filter.
func (s *CatalogService) ListBatches(ctx context.Context, filter models.BatchFilter) ([]*models.Batch, error) {
	return s.store.ListBatches(ctx, filter)
}

// ListBatchStudents retrieves a batch's members in roll order.
func (s *CatalogService) ListBatchStudents(ctx context.Context, batchID int64) ([]*models.Student, error) {
	if batchID <= 0 {
		return nil, apperrors.NewValidationError("batch id must be positive")
	}
	if _, err := s.store.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}
	return s.store.ListBatchStudents(ctx, batchID)
}

// ListSubjects retrieves subjects matching the filter.
func (s *CatalogService) ListSubjects(ctx context.Context, filter models.SubjectFilter) ([]*models.Subject, error) {
	return s.store.ListSubjects(ctx, filter)
}
