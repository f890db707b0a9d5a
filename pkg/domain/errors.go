package domain

import (
	"fmt"
	"net/http"
)

// AppErrorCode represents a machine-readable error code for API responses.
type AppErrorCode string

const (
	// ErrCodeValidation indicates a validation error.
	ErrCodeValidation AppErrorCode = "VALIDATION_ERROR"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound AppErrorCode = "NOT_FOUND"
	// ErrCodeUnauthorized indicates an authentication error.
	ErrCodeUnauthorized AppErrorCode = "UNAUTHORIZED"
	// ErrCodeBadRequest indicates a malformed request.
	ErrCodeBadRequest AppErrorCode = "BAD_REQUEST"
	// ErrCodeRequestTooLarge indicates the request body is too large.
	ErrCodeRequestTooLarge AppErrorCode = "REQUEST_TOO_LARGE"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal AppErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with context for API responses.
type AppError struct {
	// Machine-readable error code
	Code AppErrorCode `json:"code"`

	// Human-readable error message
	Message string `json:"message"`

	// HTTP status code
	StatusCode int `json:"-"`

	// Additional error details
	Details map[string]interface{} `json:"details,omitempty"`

	// Original error
	Err error `json:"-"`
}

// NewAppError creates a new application error.
func NewAppError(code AppErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: GetHTTPStatus(code),
		Details:    make(map[string]interface{}),
	}
}

// Error implements error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds additional details to error.
func (e *AppError) WithDetails(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	if e.Message == "" && err != nil {
		e.Message = err.Error()
	}
	return e
}

// GetHTTPStatus maps error code to HTTP status.
func GetHTTPStatus(code AppErrorCode) int {
	switch code {
	// Oversize uploads are a size-validation failure and share the 400
	// client-error status with the other validation rejections.
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeRequestTooLarge:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
