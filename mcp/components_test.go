package mcp

import (
	"context"
	"errors"
	"testing"

	ai "github.com/spetersoncode/a2gate"
	"github.com/spetersoncode/a2gate/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCaller struct{}

func (failingCaller) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	return "", errors.New("connection refused")
}

// newComponentRegistry wires the agent side tools to an in-process doc server.
func newComponentRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	docs := tool.NewRegistry().Add(DocTools(NewDocStore(testDocs()))...)
	remote := newInProcessRemote(t, docs)
	return tool.NewRegistry().Add(ComponentTools(remote)...)
}

func TestComponentTools(t *testing.T) {
	ctx := context.Background()
	registry := newComponentRegistry(t)

	t.Run("list_available_components", func(t *testing.T) {
		result, err := registry.Execute(ctx, ai.ToolCall{ID: "1", Name: "list_available_components"})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.JSONEq(t, `{"components":["Button","Card","Weather"],"total_count":3}`, result.Content)
		assert.Contains(t, result.Content, "\n  \"components\"")
	})

	t.Run("get_component returns content", func(t *testing.T) {
		result, err := registry.Execute(ctx, ai.ToolCall{ID: "2", Name: "get_component", Arguments: `{"name":"weather"}`})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, "# Weather\nShows a forecast card.", result.Content)
	})

	t.Run("get_component unknown name", func(t *testing.T) {
		result, err := registry.Execute(ctx, ai.ToolCall{ID: "3", Name: "get_component", Arguments: `{"name":"Slider"}`})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "error: component not found", result.Content)
	})

	t.Run("search_components found", func(t *testing.T) {
		result, err := registry.Execute(ctx, ai.ToolCall{ID: "4", Name: "search_components", Arguments: `{"keyword":"weather"}`})
		require.NoError(t, err)
		assert.Equal(t, "Found 2 components: Card, Weather", result.Content)
	})

	t.Run("search_components none", func(t *testing.T) {
		result, err := registry.Execute(ctx, ai.ToolCall{ID: "5", Name: "search_components", Arguments: `{"keyword":"slider","top_k":3}`})
		require.NoError(t, err)
		assert.Equal(t, `No components found matching "slider"`, result.Content)
	})
}

func TestComponentToolsServerDown(t *testing.T) {
	registry := tool.NewRegistry().Add(ComponentTools(failingCaller{})...)

	result, err := registry.Execute(context.Background(), ai.ToolCall{Name: "list_available_components"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "failed to list components: connection refused", result.Content)
}
