// Command componentdoc serves A2UI component documentation over MCP.
//
// Every top-level *.md file in the docs directory is one component; the file
// name without extension is the component name. Files are re-read on each
// call, so edits show up without a restart.
//
// Tools: list_components, get_component(name), search_components(keyword, top_k).
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	COMPONENT_DOC_ADDR      - Listen address (default: 127.0.0.1:9527)
//	COMPONENT_DOC_PATH      - MCP endpoint path (default: /mcp)
//	COMPONENT_DOCS_DIR      - Documentation directory (default: docs)
//	COMPONENT_DOC_TRANSPORT - http or stdio (default: http)
//
// Usage:
//
//	COMPONENT_DOCS_DIR=./docs/components go run ./cmd/componentdoc
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spetersoncode/a2gate/mcp"
	"github.com/spetersoncode/a2gate/tool"
)

const (
	serverName    = "a2gate-component-docs"
	serverVersion = "0.1.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "componentdoc: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	godotenv.Load() // Load .env file if present

	addr := getEnvOrDefault("COMPONENT_DOC_ADDR", "127.0.0.1:9527")
	path := getEnvOrDefault("COMPONENT_DOC_PATH", mcp.DefaultEndpointPath)
	dir := getEnvOrDefault("COMPONENT_DOCS_DIR", "docs")
	transport := getEnvOrDefault("COMPONENT_DOC_TRANSPORT", "http")

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("docs directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("docs directory: %s is not a directory", dir)
	}

	store := mcp.NewDocStore(os.DirFS(dir))
	registry := tool.NewRegistry().Add(mcp.DocTools(store)...)
	opts := []mcp.ServerOption{
		mcp.WithName(serverName),
		mcp.WithVersion(serverVersion),
		mcp.WithEndpointPath(path),
	}

	switch transport {
	case "stdio":
		// stdout carries the protocol; keep logs on stderr.
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		slog.Info("component doc server on stdio", "dir", dir, "components", len(store.List()))
		return mcp.ServeStdio(registry, opts...)
	case "http":
	default:
		return fmt.Errorf("unknown transport: %s (must be http or stdio)", transport)
	}

	server := &http.Server{
		Addr:        addr,
		Handler:     mcp.NewHTTPHandler(registry, opts...),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("component doc server starting",
			"addr", addr,
			"path", path,
			"dir", dir,
			"components", len(store.List()),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
