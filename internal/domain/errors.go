package domain

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrInvalidID  = errors.New("invalid id")
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a missing or malformed input field.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for a required field
func NewValidationError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Required %q field is missing", field),
	}
}
