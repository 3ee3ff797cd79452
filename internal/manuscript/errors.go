package manuscript

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput covers empty scene lists and inconsistent offsets.
	ErrMalformedInput = errors.New("malformed manuscript input")
	// ErrCycleDetected is the cause recorded when a prerequisite edge is dropped.
	ErrCycleDetected = errors.New("reveal graph cycle detected")
	// ErrThresholdMisconfiguration marks configuration rejected at load time.
	ErrThresholdMisconfiguration = errors.New("threshold misconfiguration")
)

// ValidationError describes which field of the input failed a sanity check.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a ValidationError classified as malformed input.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Cause:   ErrMalformedInput,
	}
}

// IsMalformed reports whether err stems from malformed scene input.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
