package services

import (
	"context"
	"fmt"

	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/app/repositories"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
	"github.com/meric/acadbatch/internal/pkg/rollnum"
)

// RollStore is the storage contract the roll sequencer needs. Both methods
// run as one serialized transaction per affected batch; the injected
// RenumberFn supplies the ordering and formatting rules.
type RollStore interface {
	RenumberBatch(ctx context.Context, batchID int64, renumber repositories.RenumberFn) ([]models.RollAssignment, error)
	AssignAndRenumber(ctx context.Context, studentIDs []int64, batchID int64, renumber repositories.RenumberFn) ([]models.RollAssignment, error)
}

// RollService maintains unique, contiguous, deterministically formatted roll
// numbers for the students of every batch. Renumbering a batch twice with
// unchanged membership yields byte-identical assignments.
type RollService struct {
	store RollStore
}

// NewRollService creates a new roll service instance
func NewRollService(store RollStore) *RollService {
	return &RollService{store: store}
}

// AssignMembership moves the given students into batchID and renumbers the
// target batch and every batch a student left, closing numbering gaps.
// Returns the target batch's new assignments.
func (s *RollService) AssignMembership(ctx context.Context, studentIDs []int64, batchID int64) ([]models.RollAssignment, error) {
	if batchID <= 0 {
		return nil, apperrors.NewValidationError("batch id must be positive")
	}
	if len(studentIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one student id is required")
	}

	seen := make(map[int64]struct{}, len(studentIDs))
	ids := make([]int64, 0, len(studentIDs))
	for _, id := range studentIDs {
		if id <= 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid student id %d", id))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return s.store.AssignAndRenumber(ctx, ids, batchID, rollnum.Assign)
}

// Recalculate renumbers one batch from its current membership.
func (s *RollService) Recalculate(ctx context.Context, batchID int64) ([]models.RollAssignment, error) {
	if batchID <= 0 {
		return nil, apperrors.NewValidationError("batch id must be positive")
	}
	return s.store.RenumberBatch(ctx, batchID, rollnum.Assign)
}
