package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any storage or network call
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an update or delete against a missing row
	ErrNotFound = errors.New("not found")
)

// ValidationError describes one rejected field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for field
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing row by entity and id
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NotFound builds a NotFoundError
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err is a not-found failure
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
