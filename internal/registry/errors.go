package registry

import (
	"errors"
	"fmt"
)

// Common registry errors
var (
	// ErrNotFound is returned when the registry does not know the CNPJ or
	// division code.
	ErrNotFound = errors.New("registry record not found")

	// ErrUnavailable is returned when the registry endpoint cannot be reached.
	ErrUnavailable = errors.New("registry endpoint unavailable")

	// ErrMalformedResponse is returned when the registry answer cannot be decoded.
	ErrMalformedResponse = errors.New("malformed registry response")
)

// RegistryError wraps errors with context about the enrichment failure.
type RegistryError struct {
	// Op is the operation that failed.
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("registry: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("registry: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RegistryError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *RegistryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapRegistryError wraps an error as a RegistryError if it isn't already one.
func WrapRegistryError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var regErr *RegistryError
	if errors.As(err, &regErr) {
		return err
	}

	return &RegistryError{Op: op, Err: err, Details: details}
}
