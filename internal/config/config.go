// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hydroclim/wapor-fetch/internal/catalog"
)

// Config holds all batch settings, populated from environment variables.
// Per-run parameters (mapset, dates, bounding box, output directory) come
// from CLI flags instead.
type Config struct {
	BaseURL         string
	ListTimeout     time.Duration
	DownloadTimeout time.Duration

	LogLevel  string
	LogFormat string

	// MetricsAddr enables the /healthz + /metrics server when non-empty.
	MetricsAddr     string
	ShutdownTimeout time.Duration

	Workers         int
	DirectRead      bool
	SkipExtentCheck bool

	// Kafka outcome publishing (feature-flagged via KAFKA_ENABLED).
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	listTimeout, err := parseDuration("LIST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	downloadTimeout, err := parseDuration("DOWNLOAD_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	workers, err := parseInt("WORKERS", 1)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, errors.New("WORKERS must be at least 1")
	}

	cfg := &Config{
		BaseURL:         envOrDefault("WAPOR_BASE_URL", catalog.DefaultBaseURL),
		ListTimeout:     listTimeout,
		DownloadTimeout: downloadTimeout,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,
		Workers:         workers,
		DirectRead:      envBool("DIRECT_READ"),
		SkipExtentCheck: envBool("SKIP_EXTENT_CHECK"),
		KafkaEnabled:    envBool("KAFKA_ENABLED"),
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      envOrDefault("KAFKA_TOPIC", "raster-fetch-outcomes"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	return os.Getenv(key) == "true"
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
