// Package catalog lists rasters and mapsets from the WaPOR v3 public catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hydroclim/wapor-fetch/internal/domain"
	"github.com/hydroclim/wapor-fetch/internal/observability"
)

// DefaultBaseURL is the anonymous WaPOR v3 mapset catalog root.
const DefaultBaseURL = "https://data.apps.fao.org/gismgr/api/v2/catalog/workspaces/WAPOR-3/mapsets"

const (
	defaultTimeout = 30 * time.Second
	maxAttempts    = 3
	retryDelay     = 2 * time.Second
)

// ErrUnreachable is returned when not a single catalog page could be fetched.
var ErrUnreachable = errors.New("catalog unreachable")

// Mapset describes one dataset collection in the catalog.
type Mapset struct {
	Code    string
	Caption string
}

// Client traverses the paginated catalog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	retryDelay time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a catalog client. A zero timeout selects the default
// 30 s per-request bound.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		clock:      clockwork.NewRealClock(),
		retryDelay: retryDelay,
		logger:     logger,
		metrics:    metrics,
	}
}

// ListMapsets returns every mapset in the catalog, sorted lexicographically
// by (code, caption).
func (c *Client) ListMapsets(ctx context.Context) ([]Mapset, error) {
	items, err := c.collectPages(ctx, c.baseURL)
	if err != nil {
		return nil, err
	}

	mapsets := make([]Mapset, 0, len(items))
	for _, raw := range items {
		var it item
		if err := json.Unmarshal(raw, &it); err != nil {
			c.logger.Warn("skipping undecodable catalog item", "error", err)
			continue
		}
		mapsets = append(mapsets, Mapset{Code: it.Code, Caption: it.Caption})
	}
	sort.Slice(mapsets, func(i, j int) bool {
		if mapsets[i].Code != mapsets[j].Code {
			return mapsets[i].Code < mapsets[j].Code
		}
		return mapsets[i].Caption < mapsets[j].Caption
	})
	return mapsets, nil
}

// ListRasters returns every raster asset of a mapset, sorted
// lexicographically by (identifier, location). Server-side ordering is not
// trusted; the sort makes listings deterministic across runs.
func (c *Client) ListRasters(ctx context.Context, mapsetCode string) ([]domain.AssetRecord, error) {
	items, err := c.collectPages(ctx, fmt.Sprintf("%s/%s/rasters", c.baseURL, mapsetCode))
	if err != nil {
		return nil, err
	}

	assets := make([]domain.AssetRecord, 0, len(items))
	for _, raw := range items {
		var it item
		if err := json.Unmarshal(raw, &it); err != nil {
			c.logger.Warn("skipping undecodable raster item", "mapset", mapsetCode, "error", err)
			continue
		}
		assets = append(assets, domain.AssetRecord{
			Identifier: it.Code,
			Location:   it.downloadLocation(),
		})
	}
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].Identifier != assets[j].Identifier {
			return assets[i].Identifier < assets[j].Identifier
		}
		return assets[i].Location < assets[j].Location
	})
	return assets, nil
}

// ListRasterInfo returns the complete raster records of a mapset in server
// order, for callers that need metadata beyond code and download location.
func (c *Client) ListRasterInfo(ctx context.Context, mapsetCode string) ([]json.RawMessage, error) {
	return c.collectPages(ctx, fmt.Sprintf("%s/%s/rasters", c.baseURL, mapsetCode))
}

// collectPages walks the pagination chain starting at url, following the
// link tagged rel="next" until a page has no next link or no items. Each
// page is attempted up to maxAttempts times with a fixed delay between
// attempts. A page that exhausts its attempts ends traversal: accumulated
// items are returned as a partial (logged) result, or ErrUnreachable when
// nothing was accumulated at all.
func (c *Client) collectPages(ctx context.Context, url string) ([]json.RawMessage, error) {
	var out []json.RawMessage
	next := url

	for next != "" {
		page, err := c.fetchPage(ctx, next)
		if err != nil {
			if len(out) == 0 {
				return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
			}
			c.logger.Warn("catalog traversal truncated, returning partial listing",
				"url", next, "items", len(out), "error", err)
			if c.metrics != nil {
				c.metrics.CatalogTruncations.Inc()
			}
			return out, nil
		}

		if len(page.Response.Items) == 0 {
			break
		}
		out = append(out, page.Response.Items...)
		next = page.nextLink()
	}

	return out, nil
}

// fetchPage GETs one catalog page with retry.
func (c *Client) fetchPage(ctx context.Context, url string) (*envelope, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-c.clock.After(c.retryDelay):
			}
		}

		env, err := c.getPage(ctx, url)
		if err == nil {
			return env, nil
		}
		lastErr = err
		c.logger.Warn("catalog page fetch failed",
			"url", url, "attempt", attempt, "error", err)
		if c.metrics != nil {
			c.metrics.CatalogRetries.Inc()
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) getPage(ctx context.Context, url string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.CatalogRequestDuration.Observe(time.Since(start).Seconds())
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog API error: status %d: %s", resp.StatusCode, body)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &env, nil
}

// Catalog API response types. Payloads nest the page under a "response" key.

type envelope struct {
	Response struct {
		Items []json.RawMessage `json:"items"`
		Links []link            `json:"links"`
	} `json:"response"`
}

type link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

func (e *envelope) nextLink() string {
	for _, l := range e.Response.Links {
		if l.Rel == "next" {
			return l.Href
		}
	}
	return ""
}

type item struct {
	Code        string `json:"code"`
	Caption     string `json:"caption"`
	DownloadURL string `json:"downloadUrl"`
	// Some mapsets publish the download location one level down instead of
	// as a direct field.
	Info struct {
		DownloadURL string `json:"downloadUrl"`
	} `json:"info"`
}

func (it item) downloadLocation() string {
	if it.DownloadURL != "" {
		return it.DownloadURL
	}
	return it.Info.DownloadURL
}
