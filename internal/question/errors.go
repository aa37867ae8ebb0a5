package question

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a question does not exist or belongs to another user.
	ErrNotFound = errors.New("question not found")
	// ErrConflict is returned when a question with the same title already exists.
	ErrConflict = errors.New("question already exists")
)

// ValidationError reports a malformed create/update payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation error: %s", e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
