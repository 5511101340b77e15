// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation_error"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeError      ErrorType = "processing_error"
	ErrorTypeUpstream   ErrorType = "upstream_error" // external AI backend failures
)

// AppError wraps an error with a type, a user-facing message and an error code.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     cause,
		Code:    generateErrorCode(errType),
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeValidation, message, cause)
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, cause)
}

// NewProcessingError creates a processing error.
func NewProcessingError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeError, message, cause)
}

// NewUpstreamError creates an error for a failed external AI call. These are
// recovered locally and reported through the notification sink, never raised
// as fatal.
func NewUpstreamError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeUpstream, message, cause)
}

// IsValidationError reports whether err is a validation AppError.
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsNotFoundError reports whether err is a not-found AppError.
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsUpstreamError reports whether err is an upstream AppError.
func IsUpstreamError(err error) bool {
	return isType(err, ErrorTypeUpstream)
}

func isType(err error, t ErrorType) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == t
	}
	return false
}

// generateErrorCode derives the wire error code from the error type.
func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeUpstream:
		return "UPSTREAM_ERROR"
	default:
		return "PROCESSING_ERROR"
	}
}
