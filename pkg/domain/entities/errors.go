package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNilEntity is returned when a nil part or product is passed in.
	ErrNilEntity = errors.New("entity cannot be nil")
	// ErrInvalidParameter is returned for bad indexes, mismatched ids and wrong part kinds.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNotFound is returned by callers that turn an absent lookup into a failure.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a field value that violates a domain constraint
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidKeyError reports a negative or otherwise unusable identifier
type InvalidKeyError struct {
	ID int
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("Invalid Key: %d", e.ID)
}

// DuplicateKeyError reports an identifier already used by another member of the collection
type DuplicateKeyError struct {
	ID int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("Key Already Exists: %d", e.ID)
}
