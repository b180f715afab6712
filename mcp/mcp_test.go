package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/a2gate"
	"github.com/spetersoncode/a2gate/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMCPTool(t *testing.T) {
	t.Run("keeps parameters as raw schema", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}}}`)
		mcpTool := ToMCPTool(ai.Tool{Name: "greet", Description: "Greet someone", Parameters: schema})

		assert.Equal(t, "greet", mcpTool.Name)
		assert.Equal(t, "Greet someone", mcpTool.Description)
		assert.Equal(t, schema, mcpTool.RawInputSchema)
	})

	t.Run("nil parameters become an empty object schema", func(t *testing.T) {
		mcpTool := ToMCPTool(ai.Tool{Name: "simple"})
		assert.JSONEq(t, `{"type":"object"}`, string(mcpTool.RawInputSchema))
	})
}

func TestFromMCPTool(t *testing.T) {
	t.Run("prefers raw schema", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object"}`)
		got := FromMCPTool(mcp.NewToolWithRawSchema("x", "desc", schema))
		assert.Equal(t, "x", got.Name)
		assert.Equal(t, "desc", got.Description)
		assert.Equal(t, schema, got.Parameters)
	})

	t.Run("falls back to structured input schema", func(t *testing.T) {
		got := FromMCPTool(mcp.NewTool("y", mcp.WithString("city", mcp.Required())))
		assert.Contains(t, string(got.Parameters), "city")
	})
}

func TestToMCPCallToolRequest(t *testing.T) {
	req := ToMCPCallToolRequest(ai.ToolCall{ID: "c1", Name: "get_weather", Arguments: `{"city":"tokyo"}`})
	assert.Equal(t, "get_weather", req.Params.Name)
	assert.Equal(t, map[string]any{"city": "tokyo"}, req.GetArguments())

	empty := ToMCPCallToolRequest(ai.ToolCall{Name: "list"})
	assert.Equal(t, map[string]any{}, empty.GetArguments())
}

func TestFromMCPCallToolResult(t *testing.T) {
	t.Run("text result", func(t *testing.T) {
		got := FromMCPCallToolResult("c1", mcp.NewToolResultText("sunny"))
		assert.Equal(t, ai.ToolResult{ToolCallID: "c1", Content: "sunny"}, got)
	})

	t.Run("error result", func(t *testing.T) {
		got := FromMCPCallToolResult("c2", mcp.NewToolResultError("boom"))
		assert.True(t, got.IsError)
		assert.Equal(t, "boom", got.Content)
	})

	t.Run("nil result", func(t *testing.T) {
		got := FromMCPCallToolResult("c3", nil)
		assert.True(t, got.IsError)
	})

	t.Run("multiple text parts are joined", func(t *testing.T) {
		result := &mcp.CallToolResult{Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: "a"},
			mcp.TextContent{Type: "text", Text: "b"},
		}}
		assert.Equal(t, "a\nb", ResultText(result))
	})
}

type greetArgs struct {
	Name string `json:"name" jsonschema:"required"`
}

func newGreetRegistry() *tool.Registry {
	return tool.NewRegistry().Add(
		tool.Func("greet", "Greet someone", func(ctx context.Context, args greetArgs) (string, error) {
			return "Hello, " + args.Name + "!", nil
		}),
	)
}

func newInProcessRemote(t *testing.T, registry *tool.Registry) *RemoteRegistry {
	t.Helper()
	c, err := client.NewInProcessClient(NewServer(registry))
	require.NoError(t, err)
	remote := NewRemoteRegistryFromClient(c)
	t.Cleanup(func() { remote.Close() })
	return remote
}

func TestRemoteRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("lists remote tools after refresh", func(t *testing.T) {
		remote := newInProcessRemote(t, newGreetRegistry())
		assert.Empty(t, remote.Tools())

		require.NoError(t, remote.Refresh(ctx))
		tools := remote.Tools()
		require.Len(t, tools, 1)
		assert.Equal(t, "greet", tools[0].Name)
		assert.True(t, remote.Has("greet"))
	})

	t.Run("executes remote tool", func(t *testing.T) {
		remote := newInProcessRemote(t, newGreetRegistry())
		result, err := remote.Execute(ctx, ai.ToolCall{ID: "c1", Name: "greet", Arguments: `{"name":"Ada"}`})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, "c1", result.ToolCallID)
		assert.Equal(t, "Hello, Ada!", result.Content)
	})

	t.Run("validation failures come back as error results", func(t *testing.T) {
		remote := newInProcessRemote(t, newGreetRegistry())
		result, err := remote.Execute(ctx, ai.ToolCall{ID: "c2", Name: "greet", Arguments: `{}`})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("call returns text and surfaces tool errors", func(t *testing.T) {
		remote := newInProcessRemote(t, newGreetRegistry())
		text, err := remote.Call(ctx, "greet", map[string]any{"name": "Lin"})
		require.NoError(t, err)
		assert.Equal(t, "Hello, Lin!", text)

		_, err = remote.Call(ctx, "greet", nil)
		assert.Error(t, err)
	})

	t.Run("close without a session is a no-op", func(t *testing.T) {
		assert.NoError(t, Dial("http://127.0.0.1:1/mcp").Close())
	})
}

func TestHTTPHandler(t *testing.T) {
	handler := NewHTTPHandler(newGreetRegistry())
	srv := httptest.NewServer(handler)
	defer srv.Close()

	remote := Dial(srv.URL + DefaultEndpointPath)
	defer remote.Close()

	text, err := remote.Call(context.Background(), "greet", map[string]any{"name": "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Grace!", text)
}

func TestDialUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	remote := Dial(srv.URL + DefaultEndpointPath)
	_, err := remote.Call(context.Background(), "greet", nil)
	require.Error(t, err)

	result, err := remote.Execute(context.Background(), ai.ToolCall{ID: "x", Name: "greet"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.True(t, strings.TrimSpace(result.Content) != "")
}

func TestHTTPHandlerPath(t *testing.T) {
	srv := httptest.NewServer(NewHTTPHandler(newGreetRegistry(), WithEndpointPath("/tools")))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/elsewhere", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	remote := Dial(srv.URL + "/tools")
	defer remote.Close()
	require.NoError(t, remote.Refresh(context.Background()))
	assert.True(t, remote.Has("greet"))
}
