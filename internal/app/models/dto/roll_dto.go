package dto

import "github.com/meric/acadbatch/internal/app/models"

// AssignMembershipRequest moves students into a batch
type AssignMembershipRequest struct {
	StudentIDs []int64 `json:"studentIds" binding:"required,min=1,dive,gt=0" example:"1,2,3"`
	BatchID    int64   `json:"batchId" binding:"required,gt=0" example:"7"`
}

// RollAssignmentsResponse carries the recomputed rolls of a batch
type RollAssignmentsResponse struct {
	Updated []models.RollAssignment `json:"updated"`
}
