package models

import "time"

// Batch identifies a cohort of students sharing a course, academic unit,
// section and admission year. Immutable after creation except for IsActive.
type Batch struct {
	ID            int64     `json:"id" db:"id"`
	CourseID      int64     `json:"courseId" db:"course_id"`
	AcademicUnit  int       `json:"academicUnit" db:"academic_unit"` // semester or year index
	Section       string    `json:"section" db:"section"`
	AdmissionYear int       `json:"admissionYear" db:"admission_year"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}

// BatchFilter narrows batch listings.
type BatchFilter struct {
	CourseID int64
	IsActive *bool
}
