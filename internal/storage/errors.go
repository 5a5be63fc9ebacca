package storage

import (
	"errors"
	"fmt"
)

// Common storage errors
var (
	// ErrMissingConnectionString is returned when no storage connection
	// string is configured.
	ErrMissingConnectionString = errors.New("missing storage connection string")

	// ErrEmptyPayload is returned when there is nothing to upload.
	ErrEmptyPayload = errors.New("empty upload payload")
)

// StorageError wraps errors with context about the upload failure.
type StorageError struct {
	// Op is the operation that failed.
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("storage: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("storage: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *StorageError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapStorageError wraps an error as a StorageError if it isn't already one.
func WrapStorageError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var stErr *StorageError
	if errors.As(err, &stErr) {
		return err
	}

	return &StorageError{Op: op, Err: err, Details: details}
}
