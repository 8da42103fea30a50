package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeConfig            ErrorType = "CONFIG"
	ErrTypeSourceUnavailable ErrorType = "SOURCE_UNAVAILABLE"
	ErrTypeParsing           ErrorType = "PARSING"
	ErrTypeColumnCount       ErrorType = "COLUMN_COUNT"
	ErrTypeSchema            ErrorType = "SCHEMA"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeStorage           ErrorType = "STORAGE"
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

// Helper functions for common error types

// NewConfigError creates a configuration error. Missing or invalid connection
// parameters are reported this way before any network call is made.
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewSourceUnavailableError creates an error for a missing file or an
// unreachable database
func NewSourceUnavailableError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSourceUnavailable, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewColumnCountError reports an input line with the wrong number of fields
func NewColumnCountError(line, want, got int) *AppError {
	return NewAppError(ErrTypeColumnCount,
		fmt.Sprintf("line %d has %d fields, expected %d", line, got, want), nil).
		WithContext("line", line).
		WithContext("expected", want).
		WithContext("actual", got)
}

// NewSchemaError reports a column a stage needs that is not in the table
func NewSchemaError(stage, column string) *AppError {
	return NewAppError(ErrTypeSchema, fmt.Sprintf("%s requires column %q", stage, column), nil).
		WithContext("stage", stage).
		WithContext("column", column)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// TypeOf returns the type of the first AppError in the chain, or "" if none
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether any AppError in the chain has the given type
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Type == errType {
			return true
		}
		err = appErr.Cause
	}
	return false
}
