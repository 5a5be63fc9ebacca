package fetch

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDecodesJPEG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	got, err := NewLoader(srv.Client()).Fetch(context.Background(), srv.URL+"/r.jpg")
	require.NoError(t, err)
	assert.Equal(t, 40, got.Bounds().Dx())
	assert.Equal(t, 30, got.Bounds().Dy())
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewLoader(srv.Client()).Fetch(context.Background(), srv.URL+"/missing.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
}

func TestFetchUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewLoader(nil).Fetch(context.Background(), srv.URL+"/r.jpg")
	assert.ErrorIs(t, err, ErrDownloadFailed)
}

func TestFetchUndecodablePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer srv.Close()

	_, err := NewLoader(srv.Client()).Fetch(context.Background(), srv.URL+"/r.jpg")
	assert.ErrorIs(t, err, ErrUndecodableImage)
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := NewLoader(nil).Fetch(context.Background(), "://not-a-url")
	assert.Error(t, err)
}
