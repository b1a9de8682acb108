package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
	ErrPreconditionFailed    = errors.New("precondition failed")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUnauthorized       = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Exam errors
var (
	ErrExamNotFound         = errors.New("exam not found")
	ErrExamAlreadyPublished = errors.New("exam results already published")
	ErrExamNotPublished     = errors.New("exam results not published yet")
	ErrExamHasResults       = errors.New("exam has results entered, archive instead of deleting")
	ErrInvalidTransition    = errors.New("exam status cannot move backwards")
)

// Schedule errors
var (
	ErrScheduleNotFound = errors.New("exam schedule not found")
	ErrScheduleExists   = errors.New("schedule already exists for this exam, subject and class")
	ErrScheduleConflict = errors.New("schedule overlaps an existing slot for this class")
	ErrNoSchedules      = errors.New("exam has no schedules to publish")
	ErrExamNotScheduled = errors.New("exam timetable is not published")
)

// Marks and result errors
var (
	ErrResultNotFound = errors.New("exam result not found")
	ErrDraftsRemain   = errors.New("draft results remain, finalize all marks before publishing")
	ErrMarksExceedMax = errors.New("marks obtained exceed maximum marks")
)

// Student errors
var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrClassNotTargeted = errors.New("class is not a target of this exam")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewPreconditionFailedError creates a new custom error for unmet preconditions with a message
func NewPreconditionFailedError(message string) error {
	return &CustomError{
		Err:     ErrPreconditionFailed,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
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

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
