package imgproc

import (
	"errors"
	"fmt"
)

// Common normalization errors
var (
	// ErrEmptyImage is returned when the source image has no pixels.
	ErrEmptyImage = errors.New("empty source image")

	// ErrNoRegion is returned when the binarized image contains no white
	// component to select as the receipt boundary.
	ErrNoRegion = errors.New("no receipt region detected")

	// ErrEmptyRegion is returned when the selected bounding box has no area.
	ErrEmptyRegion = errors.New("detected region has no area")
)

// ImageError wraps errors with context about the normalization failure.
type ImageError struct {
	// Op is the operation that failed.
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ImageError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("imgproc: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("imgproc: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ImageError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ImageError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapImageError wraps an error as an ImageError if it isn't already one.
func WrapImageError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var imgErr *ImageError
	if errors.As(err, &imgErr) {
		return err
	}

	return &ImageError{Op: op, Err: err, Details: details}
}
