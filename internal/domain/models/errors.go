package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the record does not exist in the store.
	ErrNotFound = errors.New("record not found")
	// ErrActiveStopExists rejects a second active stop for the same sector.
	ErrActiveStopExists = errors.New("active stop already exists for this sector")
	// ErrStopNotActive rejects ending a stop that was already ended.
	ErrStopNotActive = errors.New("stop is not active")
	// ErrInvalidStopWindow rejects an end instant that precedes the start.
	ErrInvalidStopWindow = errors.New("stop ends before it starts")
	// ErrExportDisabled is returned when the spreadsheet exporter is not configured.
	ErrExportDisabled = errors.New("spreadsheet export is not configured")
)

// ValidationError describes why an input was rejected before reaching the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
