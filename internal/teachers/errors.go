package teachers

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("teacher not found")
	ErrInvalidCredentials      = errors.New("invalid registration number or password")
	ErrDuplicateRegisterNumber = errors.New("register number already exists")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
