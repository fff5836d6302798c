package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is wrapped by every error raised for a platform record that
// breaks its schema contract.
var ErrInvalidRecord = errors.New("invalid platform record")

// MissingFieldError reports a required field absent from a platform record.
type MissingFieldError struct {
	Record string // "course", "course_work", "announcement"
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Record, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrInvalidRecord
}

// InvalidIDError reports a platform ID that is not a positive 128-bit decimal.
type InvalidIDError struct {
	Value  string
	Reason string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %q: %s", e.Value, e.Reason)
}

func (e *InvalidIDError) Unwrap() error {
	return ErrInvalidRecord
}
