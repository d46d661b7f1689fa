package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meric/acadbatch/internal/app/models"
	"github.com/meric/acadbatch/internal/app/models/dto"
	"github.com/meric/acadbatch/internal/app/services"
	"github.com/meric/acadbatch/internal/middleware"
)

// CatalogController exposes read-only batch and subject listings
type CatalogController struct {
	catalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ListBatches lists batches
// @Summary List batches
// @Description Retrieves batches, optionally filtered by course and active flag
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Filter by course ID"
// @Param isActive query bool false "Filter by active flag"
// @Success 200 {object} dto.APIResponse{data=[]models.Batch} "Batches"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /batches [get]
func (c *CatalogController) ListBatches(ctx *gin.Context) {
	var filter models.BatchFilter
	if v := ctx.Query("courseId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "courseId must be a valid number").WithField("courseId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}
		filter.CourseID = id
	}
	if v := ctx.Query("isActive"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	batches, err := c.catalogService.ListBatches(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(batches))
}

// ListBatchStudents lists a batch's members with their rolls
// @Summary List the students of a batch
// @Description Retrieves every student of the batch in roll order
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /batches/{id}/students [get]
func (c *CatalogController) ListBatchStudents(ctx *gin.Context) {
	batchID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Batch ID must be a valid number").WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	students, err := c.catalogService.ListBatchStudents(ctx, batchID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(students))
}

// ListSubjects lists subjects
// @Summary List subjects
// @Description Retrieves subjects, optionally filtered by course, semester and type
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Filter by course ID"
// @Param semester query int false "Filter by semester"
// @Param type query string false "Filter by subject type" Enums(Core, Elective)
// @Success 200 {object} dto.APIResponse{data=[]models.Subject} "Subjects"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [get]
func (c *CatalogController) ListSubjects(ctx *gin.Context) {
	var filter models.SubjectFilter
	if v := ctx.Query("courseId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "courseId must be a valid number").WithField("courseId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}
		filter.CourseID = id
	}
	if v := ctx.Query("semester"); v != "" {
		semester, err := strconv.Atoi(v)
		if err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "semester must be a valid number").WithField("semester")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}
		filter.Semester = semester
	}
	filter.Type = models.SubjectType(ctx.Query("type"))

	subjects, err := c.catalogService.ListSubjects(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(subjects))
}
