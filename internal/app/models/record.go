package models

import "time"

// AttendanceStatus is the per-day state recorded for a student in a class.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// ValidAttendanceStatus reports whether s is one of the recordable states.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// AttendanceRecord is keyed by (StudentID, Date, ClassID). Resubmission for
// the same key overwrites Status and MarkedBy, never duplicates the row.
type AttendanceRecord struct {
	ID        int64            `json:"id" db:"id"`
	StudentID int64            `json:"studentId" db:"student_id"`
	ClassID   int64            `json:"classId" db:"class_id"`
	Date      time.Time        `json:"date" db:"date"`
	Status    AttendanceStatus `json:"status" db:"status"`
	MarkedBy  int64            `json:"markedBy" db:"marked_by"`
}

// MarksRecord is keyed by (StudentID, ClassID, ExamType) with the same
// overwrite contract as AttendanceRecord.
type MarksRecord struct {
	ID            int64  `json:"id" db:"id"`
	StudentID     int64  `json:"studentId" db:"student_id"`
	ClassID       int64  `json:"classId" db:"class_id"`
	ExamType      string `json:"examType" db:"exam_type"`
	MarksObtained int    `json:"marksObtained" db:"marks_obtained"`
	TotalMarks    int    `json:"totalMarks" db:"total_marks"`
}

// AttendanceSummary aggregates a student's attendance for one class.
type AttendanceSummary struct {
	StudentID      int64   `json:"studentId" db:"student_id"`
	StudentName    string  `json:"studentName" db:"student_name"`
	Roll           *string `json:"roll,omitempty" db:"roll"`
	TotalClasses   int     `json:"totalClasses" db:"total_classes"`
	PresentClasses int     `json:"presentClasses" db:"present_classes"`
	Percentage     int     `json:"percentage"`
}
