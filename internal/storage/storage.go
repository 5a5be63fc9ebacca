// Package storage persists processed receipt images so the response can
// reference a stable URL instead of the caller's original link.
package storage

import "context"

// Uploader stores a processed image and returns its public URL.
type Uploader interface {
	// Upload writes data under the given blob name and returns the blob URL.
	Upload(ctx context.Context, name string, data []byte) (string, error)
}
