package dto

import "github.com/meric/acadbatch/internal/app/models"

// SelectElectiveRequest records one elective choice for the calling student
type SelectElectiveRequest struct {
	SubjectID int64 `json:"subjectId" binding:"required,gt=0" example:"42"`
}

// ElectivesResponse lists the electives available to a student
type ElectivesResponse struct {
	Electives []models.ElectiveOption `json:"electives"`
	Limit     int                     `json:"limit" example:"2"`
}

// SelectionResponse wraps a committed selection
type SelectionResponse struct {
	Selection *models.Selection `json:"selection"`
}
