package raster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroclim/wapor-fetch/internal/observability"
)

func TestHTTPDownloader_Success(t *testing.T) {
	payload := []byte("not really a tiff but good enough")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload) //nolint:errcheck
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.tif")
	d := NewHTTPDownloader(0, observability.NewTestLogger())

	require.NoError(t, d.Download(context.Background(), srv.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestHTTPDownloader_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.tif")
	d := NewHTTPDownloader(0, observability.NewTestLogger())

	require.Error(t, d.Download(context.Background(), srv.URL, dest))
	assert.NoFileExists(t, dest)
}

func TestHTTPDownloader_TruncatedBodyRemovesPartialFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Advertise more bytes than are sent so the client sees an
		// unexpected EOF mid-stream.
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("short")) //nolint:errcheck
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.tif")
	d := NewHTTPDownloader(0, observability.NewTestLogger())

	require.Error(t, d.Download(context.Background(), srv.URL, dest))
	assert.NoFileExists(t, dest)
}

func TestVSICurlPath(t *testing.T) {
	assert.Equal(t, "/vsicurl/https://example.org/a.tif",
		VSICurlPath("https://example.org/a.tif"))
}
