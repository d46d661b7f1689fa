package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meric/acadbatch/internal/app/models/dto"
	"github.com/meric/acadbatch/internal/app/services"
	"github.com/meric/acadbatch/internal/middleware"
)

// ElectiveController handles elective listing and selection for the
// authenticated student.
type ElectiveController struct {
	enrollmentService *services.EnrollmentService
}

// NewElectiveController creates a new ElectiveController
func NewElectiveController(enrollmentService *services.EnrollmentService) *ElectiveController {
	return &ElectiveController{enrollmentService: enrollmentService}
}

// ListAvailable lists the electives of the caller's current semester
// @Summary List available electives
// @Description Returns every elective of the authenticated student's course and semester, annotated with whether it is already selected
// @Tags electives
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ElectivesResponse} "Electives with the selection limit"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student has no batch assignment"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /electives [get]
func (c *ElectiveController) ListAvailable(ctx *gin.Context) {
	studentID := middleware.CallerID(ctx)

	electives, err := c.enrollmentService.ListAvailable(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ElectivesResponse{
		Electives: electives,
		Limit:     c.enrollmentService.Limit(),
	}))
}

// Select records one elective choice for the caller
// @Summary Select an elective
// @Description Records the authenticated student's elective choice; rejects duplicates and selections beyond the per-semester limit
// @Tags electives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SelectElectiveRequest true "Subject to select"
// @Success 201 {object} dto.APIResponse{data=dto.SelectionResponse} "Committed selection"
// @Failure 400 {object} dto.ErrorResponse "Subject is not an elective or wrong semester"
// @Failure 404 {object} dto.ErrorResponse "Student or subject not found"
// @Failure 409 {object} dto.ErrorResponse "Already selected or selection limit reached"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /electives [post]
func (c *ElectiveController) Select(ctx *gin.Context) {
	var req dto.SelectElectiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	selection, err := c.enrollmentService.Select(ctx, middleware.CallerID(ctx), req.SubjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.SelectionResponse{Selection: selection}))
}
