package models

import "time"

// Selection represents one elective chosen by one student for one semester.
// The pair (StudentID, SubjectID) is unique; the number of selections per
// (student, semester) never exceeds the configured elective limit.
type Selection struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	SubjectID  int64     `json:"subjectId" db:"subject_id"`
	Semester   int       `json:"semester" db:"semester"`
	SelectedAt time.Time `json:"selectedAt" db:"selected_at"`
}
