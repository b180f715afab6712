package mcp

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/a2gate"
)

// DefaultCallTimeout bounds a single remote tool call.
const DefaultCallTimeout = 10 * time.Second

// RemoteRegistry provides access to tools from an MCP server.
// It mirrors the read side of [tool.Registry] but proxies tool calls to the
// remote server.
//
// The session is opened lazily on first use, so a gateway can start before
// its MCP server does. A failed connect is retried on the next call.
//
// RemoteRegistry is safe for concurrent use.
type RemoteRegistry struct {
	newClient func() (*client.Client, error)
	timeout   time.Duration

	mu     sync.RWMutex
	client *client.Client
	tools  map[string]ai.Tool
}

// RemoteOption configures a RemoteRegistry.
type RemoteOption func(*RemoteRegistry)

// WithCallTimeout bounds each remote call, including the connect handshake.
// Zero disables the bound.
func WithCallTimeout(d time.Duration) RemoteOption {
	return func(r *RemoteRegistry) {
		r.timeout = d
	}
}

// Dial returns a RemoteRegistry for the streamable HTTP MCP endpoint at url.
// No connection is made until the first call.
func Dial(url string, opts ...RemoteOption) *RemoteRegistry {
	r := &RemoteRegistry{timeout: DefaultCallTimeout}
	for _, opt := range opts {
		opt(r)
	}
	timeout := r.timeout
	r.newClient = func() (*client.Client, error) {
		var topts []transport.StreamableHTTPCOption
		if timeout > 0 {
			topts = append(topts, transport.WithHTTPTimeout(timeout))
		}
		c, err := client.NewStreamableHttpClient(url, topts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create MCP client: %w", err)
		}
		return c, nil
	}
	return r
}

// NewRemoteRegistryFromClient wraps an existing, unstarted MCP client.
// It is started and initialized on first use.
func NewRemoteRegistryFromClient(c *client.Client, opts ...RemoteOption) *RemoteRegistry {
	r := &RemoteRegistry{timeout: DefaultCallTimeout}
	for _, opt := range opts {
		opt(r)
	}
	r.newClient = func() (*client.Client, error) { return c, nil }
	return r
}

func (r *RemoteRegistry) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// connect returns the live client, opening the session if needed.
func (r *RemoteRegistry) connect(ctx context.Context) (*client.Client, error) {
	r.mu.RLock()
	c := r.client
	r.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return r.client, nil
	}

	c, err := r.newClient()
	if err != nil {
		return nil, err
	}
	// The session outlives this call.
	if err := c.Start(context.WithoutCancel(ctx)); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "a2gate-mcp-client",
				Version: "0.1.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	r.client = c
	return c, nil
}

// Close closes the session if one is open.
func (r *RemoteRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

// Refresh fetches the current list of tools from the MCP server.
func (r *RemoteRegistry) Refresh(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	c, err := r.connect(ctx)
	if err != nil {
		return err
	}
	result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}

	tools := make(map[string]ai.Tool, len(result.Tools))
	for _, t := range result.Tools {
		tools[t.Name] = FromMCPTool(t)
	}

	r.mu.Lock()
	r.tools = tools
	r.mu.Unlock()
	return nil
}

// Tools returns the cached tool list, sorted by name.
// It is empty until Refresh succeeds.
func (r *RemoteRegistry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	slices.SortFunc(tools, func(a, b ai.Tool) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return tools
}

// Has reports whether the cached tool list contains name.
func (r *RemoteRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Call invokes a remote tool and returns its text content.
// A result flagged IsError is returned as an error.
func (r *RemoteRegistry) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	c, err := r.connect(ctx)
	if err != nil {
		return "", err
	}
	if args == nil {
		args = map[string]any{}
	}
	result, err := c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}
	text := ResultText(result)
	if result.IsError {
		return "", fmt.Errorf("call %s: %s", name, text)
	}
	return text, nil
}

// Execute calls a tool on the remote MCP server.
// Transport failures are reported in the result so the model can recover.
func (r *RemoteRegistry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	c, err := r.connect(ctx)
	if err == nil {
		var result *mcp.CallToolResult
		result, err = c.CallTool(ctx, ToMCPCallToolRequest(call))
		if err == nil {
			return FromMCPCallToolResult(call.ID, result), nil
		}
	}
	return ai.ToolResult{
		ToolCallID: call.ID,
		Content:    err.Error(),
		IsError:    true,
	}, nil
}
