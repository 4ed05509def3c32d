package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/hazyhaar/dergi-arsiv/pkg/api"
	"github.com/hazyhaar/dergi-arsiv/pkg/catalog"
	"github.com/hazyhaar/dergi-arsiv/pkg/gamemap"
	"github.com/mark3labs/mcp-go/server"
)

// cmdMCP serves the catalog tools over MCP on stdio. Logs go to stderr;
// stdout belongs to the protocol.
func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := loadConfig(*cfgPath, logger)

	cat, err := catalog.Load(cfg.DatasetDir)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	srv := server.NewMCPServer("dergi-arsiv", "1.0.0",
		server.WithToolCapabilities(false),
	)
	api.RegisterMCPTools(srv, cat, gamemap.New())

	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
