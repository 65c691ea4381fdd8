package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/studypadi/internal/bootstrap"
	"github.com/akolanti/studypadi/internal/config"
	"github.com/akolanti/studypadi/internal/mcpserver"
	"github.com/akolanti/studypadi/pkg/logger_i"
)

// stdout carries the MCP protocol, so logs go to stderr.
func main() {
	logger_i.InitWriter(os.Stderr)
	logger := logger_i.NewLogger("mcp main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Build(ctx, config.Load())
	if err != nil {
		logger.Error("Could not start the ingestion pipeline", "error", err)
		os.Exit(1)
	}
	defer components.Close()

	server, err := mcpserver.NewServer(components.Pipeline, components.Documents)
	if err != nil {
		logger.Error("Could not create MCP server", "error", err)
		os.Exit(1)
	}
	logger.Info("MCP server ready on stdio", "version", mcpserver.Version)
	if err := server.Run(ctx); err != nil {
		logger.Error("MCP server stopped", "error", err)
	}
}
