package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrUnavailable   = errors.New("infrastructure unavailable")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// GeocodingError is returned when an address cannot be resolved to
// coordinates. By the time callers see it, transient upstream failures
// have already been retried and exhausted; the error is terminal for the
// given address.
type GeocodingError struct {
	Address string // normalized form of the address that failed
	Detail  string // human-readable failure description
	Err     error  // underlying cause, may be nil
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocoding %q: %s: %v", e.Address, e.Detail, e.Err)
	}
	return fmt.Sprintf("geocoding %q: %s", e.Address, e.Detail)
}

func (e *GeocodingError) Unwrap() error { return e.Err }

// NewGeocodingError creates a GeocodingError for the given address.
func NewGeocodingError(address, detail string, err error) *GeocodingError {
	return &GeocodingError{Address: address, Detail: detail, Err: err}
}
