package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SyncElectiveLimit pushes the configured per-semester elective limit into the
// settings table so the database trigger enforces the same threshold as the
// application.
func SyncElectiveLimit(ctx context.Context, dbPool *pgxpool.Pool, limit int, lgr zerolog.Logger) error {
	_, err := dbPool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ('elective_limit', $1)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, limit)
	if err != nil {
		lgr.Error().Err(err).Int("limit", limit).Msg("Error syncing elective limit setting")
		return err
	}
	lgr.Info().Int("limit", limit).Msg("Elective limit setting synced")
	return nil
}

// CreateDefaultData creates a default course, batch and subject catalog if
// they don't exist, so a fresh install can exercise every endpoint.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Course/Batch/Subjects)...")
	var finalErr error

	// --- Default course --- //
	var courseID int64
	err := dbPool.QueryRow(ctx,
		`INSERT INTO courses (name, code, duration) VALUES ($1, $2, $3)
		 ON CONFLICT (code) DO NOTHING
		 RETURNING id`,
		"Bachelor of Computer Applications", "BCA", 6).Scan(&courseID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = dbPool.QueryRow(ctx, `SELECT id FROM courses WHERE code = $1`, "BCA").Scan(&courseID)
	}
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default course")
		return errors.Join(finalErr, err)
	}

	// --- Default batch (semester 1, current intake) --- //
	var batchID int64
	err = dbPool.QueryRow(ctx,
		`INSERT INTO batches (course_id, academic_unit, section, admission_year) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (course_id, academic_unit, section, admission_year) DO NOTHING
		 RETURNING id`,
		courseID, 1, "A", 2026).Scan(&batchID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = dbPool.QueryRow(ctx,
			`SELECT id FROM batches WHERE course_id = $1 AND academic_unit = $2 AND section = $3 AND admission_year = $4`,
			courseID, 1, "A", 2026).Scan(&batchID)
	}
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default batch")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Default subjects --- //
	subjects := []struct {
		Name     string
		Code     string
		Semester int
		Credits  int
		Type     string
	}{
		{"Programming Fundamentals", "BCA101", 1, 4, "Core"},
		{"Digital Logic", "BCA102", 1, 4, "Core"},
		{"Mathematics I", "BCA103", 1, 3, "Core"},
		{"Web Design Basics", "BCA111", 1, 2, "Elective"},
		{"Open Source Tools", "BCA112", 1, 2, "Elective"},
		{"Technical Communication", "BCA113", 1, 2, "Elective"},
	}
	for _, s := range subjects {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO subjects (course_id, name, code, semester, credits, type) VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (course_id, code) DO NOTHING`,
			courseID, s.Name, s.Code, s.Semester, s.Credits, s.Type)
		if err != nil {
			lgr.Error().Err(err).Str("code", s.Code).Msg("Error creating default subject")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Default classes for core subjects of the default batch --- //
	if batchID > 0 {
		_, err = dbPool.Exec(ctx,
			`INSERT INTO classes (batch_id, subject_id, name)
			 SELECT $1, s.id, s.name
			 FROM subjects s
			 WHERE s.course_id = $2 AND s.semester = 1 AND s.type = 'Core'
			 ON CONFLICT (batch_id, subject_id) DO NOTHING`,
			batchID, courseID)
		if err != nil {
			lgr.Error().Err(err).Msg("Error creating default classes")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation complete.")
	}
	return finalErr
}
