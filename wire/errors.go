package wire

import (
	"errors"
	"fmt"
)

// ErrValidation classifies every rejection of malformed request input.
var ErrValidation = errors.New("validation error")

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidRole  = errors.New("unknown signing role")
)

// ValidationError names the request field that failed to parse.
type ValidationError struct {
	Field string
	Err   error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func missing(field string) error {
	return NewValidationError(field, ErrMissingField)
}
