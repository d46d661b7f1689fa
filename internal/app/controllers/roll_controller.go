package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meric/acadbatch/internal/app/models/dto"
	"github.com/meric/acadbatch/internal/app/services"
	"github.com/meric/acadbatch/internal/middleware"
)

// RollController handles batch membership and roll sequencing operations
type RollController struct {
	rollService *services.RollService
}

// NewRollController creates a new RollController
func NewRollController(rollService *services.RollService) *RollController {
	return &RollController{rollService: rollService}
}

// AssignMembership moves students into a batch and renumbers every affected batch
// @Summary Assign students to a batch
// @Description Sets the batch of the listed students and recomputes roll numbers for the target batch and any batch a student moved out of
// @Tags rolls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignMembershipRequest true "Students and target batch"
// @Success 200 {object} dto.APIResponse{data=dto.RollAssignmentsResponse} "New roll assignments of the target batch"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Batch or student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/assign [post]
func (c *RollController) AssignMembership(ctx *gin.Context) {
	var req dto.AssignMembershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	updated, err := c.rollService.AssignMembership(ctx, req.StudentIDs, req.BatchID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.RollAssignmentsResponse{Updated: updated}))
}

// Recalculate renumbers one batch from its current membership
// @Summary Recalculate a batch's roll numbers
// @Description Recomputes deterministic roll numbers for every student of the batch; repeated calls with unchanged membership produce identical assignments
// @Tags rolls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse{data=dto.RollAssignmentsResponse} "New roll assignments"
// @Failure 400 {object} dto.ErrorResponse "Invalid batch ID"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /batches/{id}/recalculate [post]
func (c *RollController) Recalculate(ctx *gin.Context) {
	batchID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Batch ID must be a valid number").WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	updated, err := c.rollService.Recalculate(ctx, batchID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.RollAssignmentsResponse{Updated: updated}))
}
