package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/dergi-arsiv/pkg/api"
	"github.com/hazyhaar/dergi-arsiv/pkg/catalog"
	"github.com/hazyhaar/dergi-arsiv/pkg/gamemap"
	"gopkg.in/yaml.v3"
)

type config struct {
	Addr           string `yaml:"addr"`
	DatasetDir     string `yaml:"dataset_dir"`
	UploadPassword string `yaml:"upload_password"`
	DatasetURL     string `yaml:"dataset_url"`
	GamemapURL     string `yaml:"gamemap_url"`
	// CheckInterval is how often the background checker probes the
	// dataset source for updates. Zero disables the checker.
	CheckInterval time.Duration `yaml:"check_interval"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "fetch":
		cmdFetch(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: arsiv <command>\n\nCommands:\n  serve   Start the HTTP server\n  fetch   Download the dataset from its source\n  mcp     Serve the catalog over MCP on stdio\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := loadConfig(*cfgPath, logger)

	cat, err := catalog.Load(cfg.DatasetDir)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset loaded", "records", cat.Len(), "dir", cfg.DatasetDir)

	games := gamemap.New()
	if cfg.GamemapURL != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := games.Fetch(ctx, cfg.GamemapURL); err != nil {
				logger.Warn("game map fetch failed", "error", err)
				return
			}
			logger.Info("game map loaded", "games", games.Len())
		}()
	}

	router := api.NewRouter(api.Config{
		Catalog:        cat,
		Games:          games,
		Logger:         logger,
		DatasetDir:     cfg.DatasetDir,
		UploadPassword: cfg.UploadPassword,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	// SIGHUP: hot reload the dataset.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading dataset")
			if err := cat.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
			} else {
				logger.Info("dataset reloaded", "records", cat.Len(), "version", cat.Version())
			}
		}
	}()

	if cfg.CheckInterval > 0 && cfg.DatasetURL != "" {
		go runChecker(ctx, cfg, logger)
	}

	go func() {
		logger.Info("arsiv listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:       ":8430",
		DatasetDir: "dataset",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
