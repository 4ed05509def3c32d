package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/dergi-arsiv/pkg/catalog"
	"github.com/hazyhaar/dergi-arsiv/pkg/fetcher"
)

// datasetSourceID is the tracked source id of the published article index.
const datasetSourceID = "dergi-index"

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := loadConfig(*cfgPath, logger)
	if cfg.DatasetURL == "" {
		logger.Error("dataset_url not configured")
		os.Exit(1)
	}

	manifest, err := catalog.LoadManifest(filepath.Join(cfg.DatasetDir, "manifest.yaml"))
	if err != nil {
		logger.Error("read manifest", "error", err)
		os.Exit(1)
	}

	state, err := fetcher.OpenStateDB(filepath.Join(cfg.DatasetDir, "fetch.db"))
	if err != nil {
		logger.Error("open fetch state", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if err := state.Seed(datasetSourceID, cfg.DatasetURL); err != nil {
		logger.Error("seed source", "error", err)
		os.Exit(1)
	}
	// The configured URL wins over whatever was seeded earlier.
	if err := state.SetURL(datasetSourceID, cfg.DatasetURL); err != nil {
		logger.Error("update source url", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	dest := filepath.Join(cfg.DatasetDir, manifest.DataFile)
	result, err := fetcher.New(state, logger).Fetch(ctx, datasetSourceID, dest)
	if err != nil {
		logger.Error("fetch failed", "error", err)
		os.Exit(1)
	}
	if !result.Changed {
		logger.Info("dataset already up to date", "path", result.Path)
		return
	}

	records, err := catalog.LoadDataset(cfg.DatasetDir)
	if err != nil {
		logger.Error("downloaded dataset does not parse", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset updated", "path", result.Path, "records", len(records))
}

// runChecker probes the dataset source URL periodically while the server
// runs, so stale or vanished sources show up in the logs and state DB.
func runChecker(ctx context.Context, cfg config, logger *slog.Logger) {
	state, err := fetcher.OpenStateDB(filepath.Join(cfg.DatasetDir, "fetch.db"))
	if err != nil {
		logger.Error("open fetch state", "error", err)
		return
	}
	defer state.Close()

	if err := state.Seed(datasetSourceID, cfg.DatasetURL); err != nil {
		logger.Error("seed source", "error", err)
		return
	}

	fetcher.New(state, logger).Watch(ctx, datasetSourceID, cfg.CheckInterval)
}
