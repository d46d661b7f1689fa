package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	BatchRepository     *BatchRepository
	StudentRepository   *StudentRepository
	SubjectRepository   *SubjectRepository
	SelectionRepository *SelectionRepository
	RecordRepository    *RecordRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		BatchRepository:     NewBatchRepository(db),
		StudentRepository:   NewStudentRepository(db),
		SubjectRepository:   NewSubjectRepository(db),
		SelectionRepository: NewSelectionRepository(db),
		RecordRepository:    NewRecordRepository(db),
	}
}
