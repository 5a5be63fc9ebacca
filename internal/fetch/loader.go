// Package fetch downloads receipt photographs and decodes them into
// in-memory pixel buffers for the normalization stage.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"receiptscan/internal/logger"
)

// MaxImageSizeBytes caps the downloaded payload (20MB, matching the
// recognition service's synchronous limit).
const MaxImageSizeBytes = 20 * 1024 * 1024

// Loader fetches and decodes images over HTTP.
type Loader struct {
	client *http.Client
	log    zerolog.Logger
}

// NewLoader creates a loader. A nil client falls back to http.DefaultClient.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		client: client,
		log:    logger.WithComponent("fetch"),
	}
}

// Fetch downloads the image at imgURL and decodes it. JPEG, PNG, GIF, TIFF
// and BMP payloads are accepted; anything undecodable is an error.
func (l *Loader) Fetch(ctx context.Context, imgURL string) (image.Image, error) {
	const op = "Fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return nil, WrapFetchError(op, err, "invalid image URL")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, WrapFetchError(op, ErrDownloadFailed, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, WrapFetchError(op, ErrDownloadFailed, fmt.Sprintf("status %d from image host", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageSizeBytes+1))
	if err != nil {
		return nil, WrapFetchError(op, ErrDownloadFailed, "reading image body failed")
	}
	if len(data) > MaxImageSizeBytes {
		return nil, WrapFetchError(op, ErrImageTooLarge, fmt.Sprintf("payload exceeds %d bytes", MaxImageSizeBytes))
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, WrapFetchError(op, ErrUndecodableImage, err.Error())
	}

	l.log.Debug().
		Str("url", imgURL).
		Int("bytes", len(data)).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("Image downloaded and decoded")

	return img, nil
}
