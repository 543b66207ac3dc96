package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a user or show does not exist, or the
	// show belongs to someone else
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when creating a user whose username is taken
	ErrConflict = errors.New("already exists")
)

// ValidationError describes a malformed request field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err wraps a ValidationError
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
