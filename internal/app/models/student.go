package models

import "time"

// Student defines the student model based on the 'students' table.
// Roll is nil until the roll sequencer has run for the student's batch;
// the sequencer is the sole writer of Roll.
type Student struct {
	ID         int64     `json:"id" db:"id"`
	FullName   string    `json:"fullName" db:"full_name"`
	Email      string    `json:"email" db:"email"`
	BatchID    *int64    `json:"batchId,omitempty" db:"batch_id"` // nil until assigned to a batch
	Roll       *string   `json:"roll,omitempty" db:"roll"`
	AdmittedAt time.Time `json:"admittedAt" db:"admitted_at"` // stable ordering key for roll assignment
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Batch *Batch `json:"batch,omitempty"`
}

// RollAssignment is the (student, roll) pair produced by a renumbering run.
type RollAssignment struct {
	StudentID int64  `json:"studentId"`
	Roll      string `json:"roll"`
}
