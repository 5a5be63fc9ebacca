package fetch

import (
	"errors"
	"fmt"
)

// Common image loading errors
var (
	// ErrDownloadFailed is returned when the image host cannot be reached or
	// answers with a non-success status.
	ErrDownloadFailed = errors.New("image download failed")

	// ErrImageTooLarge is returned when the payload exceeds MaxImageSizeBytes.
	ErrImageTooLarge = errors.New("image exceeds maximum size limit")

	// ErrUndecodableImage is returned when the payload is not a decodable
	// image format.
	ErrUndecodableImage = errors.New("image data could not be decoded")
)

// FetchError wraps errors with context about the image loading failure.
type FetchError struct {
	// Op is the operation that failed.
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("fetch: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("fetch: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *FetchError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapFetchError wraps an error as a FetchError if it isn't already one.
func WrapFetchError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return err
	}

	return &FetchError{Op: op, Err: err, Details: details}
}
