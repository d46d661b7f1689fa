package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meric/acadbatch/internal/app/models/dto"
	"github.com/meric/acadbatch/internal/pkg/apperrors"
	"github.com/meric/acadbatch/internal/pkg/logger"
)

// HandleAPIError maps the engine's error taxonomy onto HTTP responses.
// Conflict subtypes are reported to the specific caller who lost the race;
// anything unclassified surfaces as a persistence failure.
func HandleAPIError(c *gin.Context, err error) {
	details := apperrors.DetailsOf(err)

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error(), details)

	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrBatchNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrSubjectNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error(), details)

	case errors.Is(err, apperrors.ErrCapacityExceeded):
		respond(c, http.StatusConflict, dto.ErrorCodeCapacityExceeded, err.Error(), details)

	case errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, err.Error(), details)

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", nil)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unclassified error reached the API boundary")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "Internal server error", nil)
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string, details map[string]interface{}) {
	detail := dto.NewErrorDetail(code, message)
	if details != nil {
		detail = detail.WithDetails(details)
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}
