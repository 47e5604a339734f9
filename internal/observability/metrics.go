package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// raster acquisition batch.
type Metrics struct {
	AssetsProcessed *prometheus.CounterVec // label: outcome={written,skipped_existing,skipped_extent,failed}
	BatchRunning    prometheus.Gauge

	DownloadDuration prometheus.Histogram
	ProcessDuration  prometheus.Histogram

	// Catalog traversal metrics.
	CatalogRequestDuration prometheus.Histogram
	CatalogRetries         prometheus.Counter
	CatalogTruncations     prometheus.Counter
}

// NewMetrics creates and registers all batch metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AssetsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wapor_fetch",
			Name:      "assets_processed_total",
			Help:      "Assets handled by the pipeline, by outcome.",
		}, []string{"outcome"}),
		BatchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wapor_fetch",
			Name:      "batch_running",
			Help:      "1 while a batch is being processed, 0 otherwise.",
		}),
		DownloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wapor_fetch",
			Name:      "download_duration_seconds",
			Help:      "Duration of one source raster download.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		ProcessDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wapor_fetch",
			Name:      "asset_processing_duration_seconds",
			Help:      "Duration of a complete per-asset download-crop-scale-persist cycle.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		CatalogRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wapor_fetch",
			Name:      "catalog_request_duration_seconds",
			Help:      "Duration of one catalog page request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CatalogRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wapor_fetch",
			Name:      "catalog_retries_total",
			Help:      "Failed catalog page attempts that were retried.",
		}),
		CatalogTruncations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wapor_fetch",
			Name:      "catalog_truncations_total",
			Help:      "Listings returned partially after a page exhausted its retries.",
		}),
	}

	prometheus.MustRegister(
		m.AssetsProcessed,
		m.BatchRunning,
		m.DownloadDuration,
		m.ProcessDuration,
		m.CatalogRequestDuration,
		m.CatalogRetries,
		m.CatalogTruncations,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can construct as many instances as they like.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AssetsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wapor_fetch", Name: "assets_processed_total"}, []string{"outcome"}),
		BatchRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wapor_fetch", Name: "batch_running"}),
		DownloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wapor_fetch", Name: "download_duration_seconds"}),
		ProcessDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wapor_fetch", Name: "asset_processing_duration_seconds"}),
		CatalogRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wapor_fetch", Name: "catalog_request_duration_seconds"}),
		CatalogRetries:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wapor_fetch", Name: "catalog_retries_total"}),
		CatalogTruncations: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wapor_fetch", Name: "catalog_truncations_total"}),
	}
}
