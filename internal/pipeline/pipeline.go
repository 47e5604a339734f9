// Package pipeline drives the per-asset fetch, crop, scale, persist cycle
// for one WaPOR mapset over a date window.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hydroclim/wapor-fetch/internal/domain"
	"github.com/hydroclim/wapor-fetch/internal/observability"
)

// Lister returns the raster assets of a mapset.
type Lister interface {
	ListRasters(ctx context.Context, mapsetCode string) ([]domain.AssetRecord, error)
}

// Downloader streams a source raster to a local file.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// RasterOps performs the GDAL-backed raster steps. Paths follow GDAL
// conventions, so remote sources may be addressed as /vsicurl/ paths.
type RasterOps interface {
	Extent(path string) (domain.BoundingBox, error)
	Crop(src, dst string, bbox domain.BoundingBox) error
	Read(path string) (*domain.RasterBuffer, error)
	Write(path string, buf *domain.RasterBuffer) error
}

// ResultSink receives the outcome of each processed asset. Pass nil to
// disable outcome publishing.
type ResultSink interface {
	Publish(ctx context.Context, res Result) error
}

// Options configures one batch run.
type Options struct {
	Mapset     string
	OutputRoot string
	Window     domain.DateWindow
	BBox       domain.BoundingBox

	// DirectRead opens sources through GDAL's /vsicurl/ instead of
	// downloading to a temporary file first. The two-step download is the
	// default because it tolerates flaky connections better.
	DirectRead bool

	// SkipExtentCheck disables the pre-crop intersection test. With the
	// check enabled, a bounding box fully outside a source raster's extent
	// is a benign skip rather than a warp of pure no-data.
	SkipExtentCheck bool

	// Workers bounds concurrent asset processing. Values below 2 select
	// the sequential path.
	Workers int
}

// Pipeline lists, selects, and processes the assets of one mapset.
type Pipeline struct {
	opts       Options
	scale      float64
	outputDir  string
	lister     Lister
	downloader Downloader
	raster     RasterOps
	progress   ProgressSink
	sink       ResultSink
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Pipeline. progress and sink may be nil for silent callers.
func New(opts Options, lister Lister, downloader Downloader, raster RasterOps,
	progress ProgressSink, sink ResultSink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Pipeline{
		opts:       opts,
		scale:      domain.ScaleFactor(opts.Mapset),
		outputDir:  filepath.Join(opts.OutputRoot, opts.Mapset),
		lister:     lister,
		downloader: downloader,
		raster:     raster,
		progress:   progress,
		sink:       sink,
		logger:     logger,
		metrics:    metrics,
	}
}

// Summary aggregates the per-asset outcomes of one batch.
type Summary struct {
	OutputDir       string
	Total           int
	Written         int
	SkippedExisting int
	SkippedExtent   int
	Failed          int
}

// Run lists the mapset, selects assets inside the window, and processes each
// one. Per-asset failures never abort the batch; only an invalid window, an
// unreachable catalog, or an unusable output directory do. Cancellation is
// honored between assets and the summary covers everything processed up to
// that point.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	if err := p.opts.Window.Validate(); err != nil {
		return Summary{}, err
	}
	if err := p.opts.BBox.Validate(); err != nil {
		return Summary{}, err
	}

	assets, err := p.lister.ListRasters(ctx, p.opts.Mapset)
	if err != nil {
		return Summary{}, fmt.Errorf("list %s: %w", p.opts.Mapset, err)
	}

	selected := domain.SelectAssets(assets, p.opts.Window)
	if len(selected) == 0 {
		p.logger.Info("no assets in date range",
			"mapset", p.opts.Mapset,
			"start", p.opts.Window.Start.Format("2006-01-02"),
			"end", p.opts.Window.End.Format("2006-01-02"))
		return Summary{}, nil
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}

	p.logger.Info("batch starting",
		"mapset", p.opts.Mapset, "assets", len(selected), "scale", p.scale)
	if p.metrics != nil {
		p.metrics.BatchRunning.Set(1)
		defer p.metrics.BatchRunning.Set(0)
	}
	p.progress.Begin(len(selected))

	summary := Summary{OutputDir: p.outputDir, Total: len(selected)}
	results := p.processAll(ctx, selected)
	for _, res := range results {
		summary.count(res)
	}

	p.logger.Info("batch finished",
		"mapset", p.opts.Mapset,
		"written", summary.Written,
		"skipped_existing", summary.SkippedExisting,
		"skipped_extent", summary.SkippedExtent,
		"failed", summary.Failed)

	return summary, ctx.Err()
}

func (s *Summary) count(res Result) {
	switch res.Outcome {
	case Written:
		s.Written++
	case SkippedExisting:
		s.SkippedExisting++
	case SkippedOutOfExtent:
		s.SkippedExtent++
	case Failed:
		s.Failed++
	}
}

// processAll runs the per-asset pipeline sequentially or, when configured,
// across a bounded worker pool. Assets are fully independent: disjoint
// destinations and disjoint temporary names.
func (p *Pipeline) processAll(ctx context.Context, selected []domain.SelectedAsset) []Result {
	if p.opts.Workers < 2 {
		results := make([]Result, 0, len(selected))
		for _, asset := range selected {
			if ctx.Err() != nil {
				break
			}
			results = append(results, p.handle(ctx, asset))
		}
		return results
	}

	jobs := make(chan domain.SelectedAsset)
	out := make(chan Result)

	var wg sync.WaitGroup
	for range p.opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for asset := range jobs {
				out <- p.handle(ctx, asset)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, asset := range selected {
			if ctx.Err() != nil {
				return
			}
			select {
			case jobs <- asset:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	var results []Result
	for res := range out {
		results = append(results, res)
	}
	return results
}

// handle processes one asset and performs the shared bookkeeping around it.
func (p *Pipeline) handle(ctx context.Context, asset domain.SelectedAsset) Result {
	start := time.Now()
	res := p.Process(ctx, asset)
	if p.metrics != nil {
		p.metrics.AssetsProcessed.WithLabelValues(res.Outcome.String()).Inc()
		p.metrics.ProcessDuration.Observe(time.Since(start).Seconds())
	}
	p.progress.Advance(1)

	switch res.Outcome {
	case Failed:
		p.logger.Warn("asset failed",
			"asset", asset.Record.Identifier, "stage", res.Stage, "error", res.Err)
	case SkippedOutOfExtent:
		p.logger.Info("asset outside bounding box, skipped",
			"asset", asset.Record.Identifier)
	default:
		p.logger.Debug("asset done",
			"asset", asset.Record.Identifier, "outcome", res.Outcome.String())
	}

	if p.sink != nil {
		if err := p.sink.Publish(ctx, res); err != nil {
			p.logger.Warn("publish outcome failed",
				"asset", asset.Record.Identifier, "error", err)
		}
	}
	return res
}

// Process runs the per-asset pipeline: idempotent destination check,
// acquire, extent check, crop, clean+scale, persist. Every intermediate file
// is removed on every exit path, and a failed persist never leaves a partial
// destination behind.
func (p *Pipeline) Process(ctx context.Context, asset domain.SelectedAsset) Result {
	res := Result{Asset: asset}

	dest := filepath.Join(p.outputDir, domain.OutputFilename(p.opts.Mapset, asset))
	if _, err := os.Stat(dest); err == nil {
		res.Outcome = SkippedExisting
		return res
	}

	var cleanup []string
	defer func() {
		for _, f := range cleanup {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				p.logger.Warn("could not remove intermediate file", "path", f, "error", err)
			}
		}
	}()

	// Acquire the source raster: temp download by default, direct remote
	// read when configured.
	var src string
	if p.opts.DirectRead {
		src = "/vsicurl/" + asset.Record.Location
	} else {
		tmp := p.tempPath("download", asset)
		dlStart := time.Now()
		if err := p.downloader.Download(ctx, asset.Record.Location, tmp); err != nil {
			return res.fail(StageDownload, err)
		}
		if p.metrics != nil {
			p.metrics.DownloadDuration.Observe(time.Since(dlStart).Seconds())
		}
		cleanup = append(cleanup, tmp)
		src = tmp
	}

	if !p.opts.SkipExtentCheck {
		ext, err := p.raster.Extent(src)
		if err != nil {
			return res.fail(StageCrop, err)
		}
		if !p.opts.BBox.Intersects(ext) {
			res.Outcome = SkippedOutOfExtent
			return res
		}
	}

	cropped := p.tempPath("cropped", asset)
	cleanup = append(cleanup, cropped)
	if err := p.raster.Crop(src, cropped, p.opts.BBox); err != nil {
		return res.fail(StageCrop, err)
	}

	buf, err := p.raster.Read(cropped)
	if err != nil {
		return res.fail(StageProcessing, err)
	}
	buf.CleanScale(p.scale)

	if err := p.raster.Write(dest, buf); err != nil {
		// Never leave a partially written destination behind.
		if rmErr := os.Remove(dest); rmErr != nil && !os.IsNotExist(rmErr) {
			p.logger.Warn("could not remove partial destination", "path", dest, "error", rmErr)
		}
		return res.fail(StageProcessing, err)
	}

	res.Outcome = Written
	return res
}

// tempPath builds a per-asset intermediate filename unique across in-flight
// assets and concurrent processes.
func (p *Pipeline) tempPath(kind string, asset domain.SelectedAsset) string {
	token := strings.NewReplacer(".", "_", "/", "_").Replace(asset.Record.Identifier)
	return filepath.Join(p.outputDir, fmt.Sprintf("_%s_%s_%d.tif", kind, token, os.Getpid()))
}
