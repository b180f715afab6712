// Command gateway serves the A2UI streaming gateway.
//
// It runs a tool-calling model loop per request and streams the normalized
// protocol over Server-Sent Events, with embedded A2UI messages extracted
// from the final text.
//
// Endpoints:
//
//	POST /api/chat/stream  {"message": "...", "conversation_id": "..."}
//	POST /api/agui/stream  same body, or an AG-UI run request
//	GET  /api/health
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	GATEWAY_PORT          - Server port (default: 8000)
//	GATEWAY_LOG_LEVEL     - debug, info, warn, error (default: info)
//	GATEWAY_LOG_FORMAT    - text or json (default: text)
//	GATEWAY_PROVIDER      - anthropic, openai, google, vertex (default: openai)
//	MODEL_NAME            - Model override (optional, uses provider default)
//	OPENAI_BASE_URL       - OpenAI-compatible endpoint (optional)
//	GATEWAY_TEMPERATURE   - Sampling temperature (default: 0.7)
//	GATEWAY_MAX_STEPS     - Max model turns per request (default: 10)
//	GATEWAY_TIMEOUT       - Per-request timeout (default: 2m)
//	GATEWAY_TOOL_TIMEOUT  - Per-tool timeout (default: 30s)
//	GATEWAY_RATE_LIMIT    - Stream requests per second, 0 disables (default: 0)
//	GATEWAY_RATE_BURST    - Rate limiter burst (default: 5)
//	SKILLS_DIR            - Skill root (default: .claude/skills)
//	SKILL_NAME            - Skill used for the system prompt (default: a2ui)
//	COMPONENT_DOC_URL     - MCP component doc server (default: http://127.0.0.1:9527/mcp)
//	COMPONENT_DOC_TIMEOUT - MCP call timeout (default: 10s)
//	ANTHROPIC_API_KEY, OPENAI_API_KEY, GOOGLE_API_KEY, VERTEX_PROJECT, VERTEX_LOCATION
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

	"golang.org/x/time/rate"

	ai "github.com/spetersoncode/a2gate"
	"github.com/spetersoncode/a2gate/client"
	"github.com/spetersoncode/a2gate/engine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	registry, remote := setupTools(cfg)
	defer remote.Close()

	chatClient := client.New(client.Config{
		Provider: ai.Provider(cfg.Provider),
		Model:    cfg.Model,
		APIKeys: client.APIKeys{
			Anthropic: cfg.AnthropicKey,
			OpenAI:    cfg.OpenAIKey,
			Google:    cfg.GoogleKey,
		},
		OpenAIBaseURL:  cfg.OpenAIBaseURL,
		VertexProject:  cfg.VertexProject,
		VertexLocation: cfg.VertexLocation,
		Logger:         logger,
	})

	eng := engine.New(chatClient, registry,
		engine.WithSystemPrompt(systemPrompt(cfg, logger)),
		engine.WithMaxSteps(cfg.MaxSteps),
		engine.WithTimeout(cfg.Timeout),
		engine.WithHandlerTimeout(cfg.ToolTimeout),
		engine.WithTemperature(cfg.Temperature),
		engine.WithLogger(logger),
	)

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewGateway(eng, logger).Routes(limiter),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway starting",
			"addr", server.Addr,
			"provider", cfg.Provider,
			"model", cfg.Model,
			"tools", registry.Names(),
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newLogger(cfg *Config) *slog.Logger {
	level, _ := parseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
