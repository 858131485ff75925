package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a screening request the caller must fix before ranking.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedFormat signals a source file the extractor cannot read.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExtractionFailed signals that a source yielded no text.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrTooLarge signals an input over the configured size limit.
	ErrTooLarge = errors.New("input too large")
)

// ValidationError wraps ErrInvalidInput with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidation creates a validation error for field.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
