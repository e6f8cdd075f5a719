package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
)

// AppError represents an application error with HTTP status code and error code.
// Validation errors additionally carry a per-field message map; all other kinds
// carry a single top-level message.
type AppError struct {
	Code    string            // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string            // Human-readable error message
	Status  int               // HTTP status code
	Fields  map[string]string // Per-field validation messages (validation errors only)
	Err     error             // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a NOT_FOUND error. The message is the same whether
// the resource is absent or owned by someone else, so existence of other
// users' resources is never leaked.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found or access denied", resource),
		Status:  404,
	}
}

// NewValidationError creates a VALIDATION_ERROR carrying per-field messages.
func NewValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "validation failed",
		Status:  400,
		Fields:  fields,
	}
}

// NewUnauthorizedError creates an UNAUTHORIZED error.
func NewUnauthorizedError() *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: "unauthorized",
		Status:  401,
	}
}

// NewInternalError creates an INTERNAL_ERROR wrapping err.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a BAD_REQUEST error.
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}
