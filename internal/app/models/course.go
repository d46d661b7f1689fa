package models

// Course represents a degree programme (e.g. BCA, BSc) offered by the
// institution. Owned by the administrative catalog; read-only for this engine.
type Course struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Code     string `json:"code" db:"code"`
	Duration int    `json:"duration" db:"duration"` // number of academic units
}
