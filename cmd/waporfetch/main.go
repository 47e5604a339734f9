// Command waporfetch downloads WaPOR v3 rasters for one mapset, date range,
// and bounding box, producing cropped, scaled GeoTIFFs in an output
// directory. Re-runs are safe: existing output files are skipped.
//
// Usage:
//
//	waporfetch -out ./data -mapset L1-PCP-M \
//	  -start 2018-01-01 -end 2018-12-31 \
//	  -lat -40.05,40.05 -lon -30.5,65.05
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hydroclim/wapor-fetch/internal/catalog"
	"github.com/hydroclim/wapor-fetch/internal/config"
	"github.com/hydroclim/wapor-fetch/internal/domain"
	"github.com/hydroclim/wapor-fetch/internal/notify"
	"github.com/hydroclim/wapor-fetch/internal/observability"
	"github.com/hydroclim/wapor-fetch/internal/pipeline"
	"github.com/hydroclim/wapor-fetch/internal/raster"
)

func main() {
	out := flag.String("out", "", "output root directory (required)")
	mapset := flag.String("mapset", "", "mapset code, e.g. L1-PCP-M (required)")
	start := flag.String("start", "2018-01-01", "start date, inclusive (YYYY-MM-DD)")
	end := flag.String("end", "2024-12-31", "end date, inclusive (YYYY-MM-DD)")
	lat := flag.String("lat", "-40.05,40.05", "latitude range min,max")
	lon := flag.String("lon", "-30.5,65.05", "longitude range min,max")
	quiet := flag.Bool("quiet", false, "suppress per-asset progress output")
	flag.Parse()

	if *out == "" || *mapset == "" {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(*out, *mapset, *start, *end, *lat, *lon, *quiet))
}

func run(out, mapset, start, end, lat, lon string, quiet bool) int {
	// Best-effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return 1
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	window, bbox, err := parseRunArgs(start, end, lat, lon)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	metrics := observability.NewMetrics()
	raster.Init()

	lister := catalog.NewClient(cfg.BaseURL, cfg.ListTimeout, logger, metrics)
	downloader := raster.NewHTTPDownloader(cfg.DownloadTimeout, logger)

	var progress pipeline.ProgressSink
	if !quiet {
		progress = pipeline.NewConsoleProgress(os.Stdout)
	}

	// Outcome publishing is feature-flagged via KAFKA_ENABLED.
	var sink pipeline.ResultSink
	if cfg.KafkaEnabled {
		notifier := notify.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, mapset, logger)
		defer func() {
			if err := notifier.Close(); err != nil {
				logger.Error("kafka notifier close error", "error", err)
			}
		}()
		sink = notifier
		logger.Info("kafka outcome publishing enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(pipeline.Options{
		Mapset:          mapset,
		OutputRoot:      out,
		Window:          window,
		BBox:            bbox,
		DirectRead:      cfg.DirectRead,
		SkipExtentCheck: cfg.SkipExtentCheck,
		Workers:         cfg.Workers,
	}, lister, downloader, raster.GDAL{}, progress, sink, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := observability.NewServer(cfg.MetricsAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	summary, err := p.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("fetch failed", "mapset", mapset, "error", err)
		return 1
	}

	fmt.Printf("%s: %d written, %d already present, %d outside extent, %d failed (of %d)\n",
		mapset, summary.Written, summary.SkippedExisting, summary.SkippedExtent,
		summary.Failed, summary.Total)
	if summary.OutputDir != "" {
		fmt.Println("output:", summary.OutputDir)
	}
	return 0
}

func parseRunArgs(start, end, lat, lon string) (domain.DateWindow, domain.BoundingBox, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return domain.DateWindow{}, domain.BoundingBox{}, fmt.Errorf("invalid -start %q: %w", start, err)
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return domain.DateWindow{}, domain.BoundingBox{}, fmt.Errorf("invalid -end %q: %w", end, err)
	}
	window := domain.DateWindow{Start: startDate, End: endDate}
	if err := window.Validate(); err != nil {
		return domain.DateWindow{}, domain.BoundingBox{}, err
	}

	minLat, maxLat, err := parseRange(lat)
	if err != nil {
		return domain.DateWindow{}, domain.BoundingBox{}, fmt.Errorf("invalid -lat %q: %w", lat, err)
	}
	minLon, maxLon, err := parseRange(lon)
	if err != nil {
		return domain.DateWindow{}, domain.BoundingBox{}, fmt.Errorf("invalid -lon %q: %w", lon, err)
	}
	bbox := domain.BoundingBox{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
	if err := bbox.Validate(); err != nil {
		return domain.DateWindow{}, domain.BoundingBox{}, err
	}
	return window, bbox, nil
}

// parseRange parses "min,max" into two floats.
func parseRange(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, errors.New("expected min,max")
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return min, max, nil
}
