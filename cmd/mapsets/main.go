// Command mapsets lists the dataset collections available in the WaPOR v3
// catalog, one "code - caption" line per mapset.
//
// Usage:
//
//	go run ./cmd/mapsets
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hydroclim/wapor-fetch/internal/catalog"
	"github.com/hydroclim/wapor-fetch/internal/config"
	"github.com/hydroclim/wapor-fetch/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := catalog.NewClient(cfg.BaseURL, cfg.ListTimeout, logger, nil)
	mapsets, err := client.ListMapsets(ctx)
	if err != nil {
		logger.Error("could not list mapsets", "error", err)
		os.Exit(1)
	}

	for _, m := range mapsets {
		fmt.Printf("%-20s - %s\n", m.Code, m.Caption)
	}
	fmt.Printf("\ntotal: %d mapsets\n", len(mapsets))
}
