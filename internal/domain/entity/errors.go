package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrParse indicates that a single feed item or timestamp could not be parsed.
	// The offending item is dropped; the error is never fatal for a pipeline run.
	ErrParse = errors.New("parse error")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is allows errors.Is(err, ErrValidationFailed) for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
