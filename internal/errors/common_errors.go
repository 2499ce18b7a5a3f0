package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeTransport  ErrorType = "TRANSPORT"
	ErrTypeTimeout    ErrorType = "TIMEOUT"
	ErrTypePayload    ErrorType = "PAYLOAD"
	ErrTypeSource     ErrorType = "SOURCE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeExport     ErrorType = "EXPORT"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewTransportError creates an error for a fetch that could not complete
func NewTransportError(message string, cause error) *AppError {
	return NewAppError(ErrTypeTransport, message, cause)
}

// NewTimeoutError creates an error for a fetch that exceeded its deadline
func NewTimeoutError(message string, cause error) *AppError {
	return NewAppError(ErrTypeTimeout, message, cause)
}

// NewPayloadError creates an error for a response that could not be unwrapped
func NewPayloadError(message string, cause error) *AppError {
	return NewAppError(ErrTypePayload, message, cause)
}

// NewSourceError creates an error for a failure reported by the data source itself
func NewSourceError(message string) *AppError {
	return NewAppError(ErrTypeSource, message, nil)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewExportError creates an error for a failed CSV or XLSX rendition
func NewExportError(message string, cause error) *AppError {
	return NewAppError(ErrTypeExport, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in the chain, or "" when there is none
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// UserMessage returns the human-readable message of an AppError, falling back to err.Error()
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// IsIngestionFailure reports whether err is one of the four fetch failure kinds
func IsIngestionFailure(err error) bool {
	switch TypeOf(err) {
	case ErrTypeTransport, ErrTypeTimeout, ErrTypePayload, ErrTypeSource:
		return true
	}
	return false
}
