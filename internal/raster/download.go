package raster

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

const defaultDownloadTimeout = 5 * time.Minute

// HTTPDownloader streams source rasters to local files.
type HTTPDownloader struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPDownloader creates a downloader. A zero timeout selects the default
// 5 minute per-download bound.
func NewHTTPDownloader(timeout time.Duration, logger *slog.Logger) *HTTPDownloader {
	if timeout <= 0 {
		timeout = defaultDownloadTimeout
	}
	return &HTTPDownloader{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Download streams the resource at url to dest. On any failure the partial
// file is removed before returning.
func (d *HTTPDownloader) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return fmt.Errorf("write %s: %w", dest, err)
	}

	d.logger.Debug("downloaded source raster", "url", url, "bytes", n)
	return nil
}
