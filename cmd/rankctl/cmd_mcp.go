package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rankdex/internal/app"
	logpkg "github.com/kailas-cloud/rankdex/internal/logger"
	"github.com/kailas-cloud/rankdex/internal/transport/mcp"
)

func handleMCP(args []string) int {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)

	var (
		configPath string
		verbose    bool
	)
	fs.StringVar(&configPath, "config", "", "Config file (default config/$ENV.yaml when present)")
	fs.BoolVar(&verbose, "v", false, "Verbose logging on stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    rankctl mcp [options]

DESCRIPTION:
    Run an MCP stdio server exposing:
      - %s

OPTIONS:
`, mcp.ToolName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// stdout carries the protocol; logs go to stderr.
	logger := logpkg.NewCLI(verbose)
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	a, err := app.New(cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("serving MCP over stdio", zap.String("tool", mcp.ToolName))
	if err := mcp.RunStdio(ctx, mcp.NewServer(a.Screening, logger)); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
