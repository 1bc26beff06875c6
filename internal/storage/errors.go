package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update, delete, or lookup references an ID
// that does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports caller-supplied data that violates a precondition.
// It is detected before any mutation is attempted, so no partial state is
// ever written. The message is suitable for direct display.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateError reports an insert that would violate a uniqueness rule,
// such as a shopping-list item already added by the same person. Callers
// treat it as an expected outcome, not an exceptional one.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string {
	return e.Message
}

// Duplicatef builds a DuplicateError from a format string.
func Duplicatef(format string, args ...any) error {
	return &DuplicateError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicate reports whether err is a DuplicateError.
func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}
