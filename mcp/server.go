package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	ai "github.com/spetersoncode/a2gate"
	"github.com/spetersoncode/a2gate/tool"
)

// DefaultEndpointPath is where the streamable HTTP transport is mounted.
const DefaultEndpointPath = "/mcp"

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name         string
	version      string
	endpointPath string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithEndpointPath sets the HTTP path of the streamable transport.
func WithEndpointPath(path string) ServerOption {
	return func(c *serverConfig) {
		c.endpointPath = path
	}
}

func applyServerOpts(opts []ServerOption) *serverConfig {
	cfg := &serverConfig{
		name:         "a2gate-mcp-server",
		version:      "0.1.0",
		endpointPath: DefaultEndpointPath,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewServer creates an MCP server that exposes every tool in registry.
// Calls go through Registry.Execute, so arguments are validated the same
// way as for the engine.
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := applyServerOpts(opts)

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, t := range registry.Tools() {
		s.AddTool(ToMCPTool(t), createMCPHandler(registry, t.Name))
	}

	return s
}

// NewHTTPHandler serves registry over the MCP streamable HTTP transport at
// the configured endpoint path. Other paths return 404.
func NewHTTPHandler(registry *tool.Registry, opts ...ServerOption) http.Handler {
	cfg := applyServerOpts(opts)
	streamable := server.NewStreamableHTTPServer(NewServer(registry, opts...),
		server.WithEndpointPath(cfg.endpointPath),
	)
	mux := http.NewServeMux()
	mux.Handle(cfg.endpointPath, streamable)
	return mux
}

// ServeStdio serves registry over stdin/stdout until stdin closes or the
// process is signalled.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}

// createMCPHandler routes an MCP call to the named registry tool.
func createMCPHandler(registry *tool.Registry, toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsJSON := "{}"
		if args := req.GetArguments(); len(args) > 0 {
			data, err := json.Marshal(args)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			argsJSON = string(data)
		}

		result, err := registry.Execute(ctx, ai.ToolCall{Name: toolName, Arguments: argsJSON})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if result.IsError {
			return mcp.NewToolResultError(result.Content), nil
		}
		return mcp.NewToolResultText(result.Content), nil
	}
}
