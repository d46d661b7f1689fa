package models

// SubjectType distinguishes compulsory subjects from capacity-limited electives.
type SubjectType string

const (
	SubjectTypeCore     SubjectType = "Core"
	SubjectTypeElective SubjectType = "Elective"
)

// Subject belongs to a course and an academic unit. Only Elective subjects
// participate in capacity-limited selection.
type Subject struct {
	ID          int64       `json:"id" db:"id"`
	CourseID    int64       `json:"courseId" db:"course_id"`
	Name        string      `json:"name" db:"name"`
	Code        string      `json:"code" db:"code"`
	Semester    int         `json:"semester" db:"semester"`
	Credits     int         `json:"credits" db:"credits"`
	Type        SubjectType `json:"type" db:"type"`
	Description *string     `json:"description,omitempty" db:"description"` // Nullable
}

// ElectiveOption is an elective annotated with whether the student has
// already selected it.
type ElectiveOption struct {
	Subject
	Selected bool `json:"selected"`
}

// SubjectFilter narrows subject listings.
type SubjectFilter struct {
	CourseID int64
	Semester int
	Type     SubjectType
}
