package dto

import (
	"time"

	"github.com/meric/acadbatch/internal/app/models"
)

// attendanceDateLayout is the wire format for attendance dates.
const attendanceDateLayout = "2006-01-02"

// AttendanceEntry is one day's status for one student in one class
type AttendanceEntry struct {
	StudentID int64  `json:"studentId" binding:"required,gt=0" example:"1"`
	ClassID   int64  `json:"classId" binding:"required,gt=0" example:"3"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02" example:"2026-03-12"`
	Status    string `json:"status" binding:"required,oneof=present absent late" example:"present"`
}

// UpsertAttendanceRequest applies a batch of attendance entries atomically
type UpsertAttendanceRequest struct {
	Records []AttendanceEntry `json:"records" binding:"required,min=1,dive"`
}

// ToModels converts the wire entries into domain records, stamping the
// marking actor resolved from the caller's identity.
func (r *UpsertAttendanceRequest) ToModels(markedBy int64) ([]models.AttendanceRecord, error) {
	records := make([]models.AttendanceRecord, 0, len(r.Records))
	for _, e := range r.Records {
		date, err := time.Parse(attendanceDateLayout, e.Date)
		if err != nil {
			return nil, err
		}
		records = append(records, models.AttendanceRecord{
			StudentID: e.StudentID,
			ClassID:   e.ClassID,
			Date:      date,
			Status:    models.AttendanceStatus(e.Status),
			MarkedBy:  markedBy,
		})
	}
	return records, nil
}

// MarksEntry is one exam result for one student in one class
type MarksEntry struct {
	StudentID     int64  `json:"studentId" binding:"required,gt=0" example:"1"`
	ClassID       int64  `json:"classId" binding:"required,gt=0" example:"3"`
	ExamType      string `json:"examType" binding:"required" example:"midterm"`
	MarksObtained int    `json:"marksObtained" binding:"min=0" example:"42"`
	TotalMarks    int    `json:"totalMarks" binding:"required,gt=0" example:"50"`
}

// UpsertMarksRequest applies a batch of marks entries atomically
type UpsertMarksRequest struct {
	Records []MarksEntry `json:"records" binding:"required,min=1,dive"`
}

// ToModels converts the wire entries into domain records.
func (r *UpsertMarksRequest) ToModels() []models.MarksRecord {
	records := make([]models.MarksRecord, 0, len(r.Records))
	for _, e := range r.Records {
		records = append(records, models.MarksRecord{
			StudentID:     e.StudentID,
			ClassID:       e.ClassID,
			ExamType:      e.ExamType,
			MarksObtained: e.MarksObtained,
			TotalMarks:    e.TotalMarks,
		})
	}
	return records
}

// UpsertCountResponse reports how many records a batch applied
type UpsertCountResponse struct {
	Count int `json:"count" example:"30"`
}
