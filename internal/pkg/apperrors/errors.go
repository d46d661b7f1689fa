package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Storage errors
	ErrPersistence = errors.New("persistence failure")

	// Authentication errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrUnauthorized = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
)

// Roll sequencing errors
var (
	ErrBatchNotFound   = errors.New("batch not found")
	ErrStudentNotFound = errors.New("student not found")
)

// Enrollment errors. ErrDuplicateSelection and ErrCapacityExceeded are
// conflict subtypes: errors.Is(err, ErrConflict) holds for both.
var (
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrDuplicateSelection = &CustomError{Err: ErrConflict, Message: "subject already selected"}
	ErrCapacityExceeded   = &CustomError{Err: ErrConflict, Message: "elective selection limit reached"}
)

// NewNotFoundError creates a resource-not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewValidationError creates a validation error with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewPersistenceError wraps a storage-layer failure
func NewPersistenceError(cause error) error {
	return &CustomError{
		Err:     ErrPersistence,
		Cause:   cause,
		Message: "storage operation failed",
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Cause   error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithDetail is a convenience for a single key/value detail
func (e *CustomError) WithDetail(key string, value interface{}) *CustomError {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

// DetailsOf extracts the structured details from err, if it carries any.
func DetailsOf(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}
