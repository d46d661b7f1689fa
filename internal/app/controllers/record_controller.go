package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/meric/acadbatch/internal/app/models/dto"
	"github.com/meric/acadbatch/internal/app/services"
	"github.com/meric/acadbatch/internal/middleware"
)

// RecordController handles attendance and marks submissions
type RecordController struct {
	recordService *services.RecordService
}

// NewRecordController creates a new RecordController
func NewRecordController(recordService *services.RecordService) *RecordController {
	return &RecordController{recordService: recordService}
}

// UpsertAttendance applies a batch of attendance entries
// @Summary Upsert attendance records
// @Description Inserts or overwrites attendance keyed by (student, date, class); the whole batch commits or none of it does
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertAttendanceRequest true "Attendance entries"
// @Success 200 {object} dto.APIResponse{data=dto.UpsertCountResponse} "Number of records applied"
// @Failure 400 {object} dto.ErrorResponse "Malformed record, with its index"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance [post]
func (c *RecordController) UpsertAttendance(ctx *gin.Context) {
	var req dto.UpsertAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	records, err := req.ToModels(middleware.CallerID(ctx))
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid attendance date").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	count, err := c.recordService.UpsertAttendance(ctx, records)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.UpsertCountResponse{Count: count}))
}

// UpsertMarks applies a batch of marks entries
// @Summary Upsert marks records
// @Description Inserts or overwrites marks keyed by (student, class, exam type); the whole batch commits or none of it does
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertMarksRequest true "Marks entries"
// @Success 200 {object} dto.APIResponse{data=dto.UpsertCountResponse} "Number of records applied"
// @Failure 400 {object} dto.ErrorResponse "Malformed record, with its index"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks [post]
func (c *RecordController) UpsertMarks(ctx *gin.Context) {
	var req dto.UpsertMarksRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	count, err := c.recordService.UpsertMarks(ctx, req.ToModels())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.UpsertCountResponse{Count: count}))
}

// AttendanceSummary aggregates attendance per student for one class
// @Summary Attendance summary for a class
// @Description Returns per-student total and present counts with a percentage for the given class
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param classId query int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceSummary} "Per-student summary"
// @Failure 400 {object} dto.ErrorResponse "Invalid class ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/summary [get]
func (c *RecordController) AttendanceSummary(ctx *gin.Context) {
	classID, err := strconv.ParseInt(ctx.Query("classId"), 10, 64)
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "classId must be a valid number").WithField("classId")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	summaries, err := c.recordService.AttendanceSummary(ctx, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(summaries))
}
