package services

// Services defined in this package:
// - RollService: batch membership assignment and deterministic roll renumbering
// - EnrollmentService: capacity-limited elective selection
// - RecordService: idempotent upsert of attendance and marks records
// - CatalogService: read-only batch and subject listings for callers
//
// Each service declares the narrow store interface it consumes; the
// repositories package provides the PostgreSQL implementations.
