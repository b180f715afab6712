package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spetersoncode/a2gate/tool"
)

// Caller invokes a tool on an MCP server and returns its text content.
// [RemoteRegistry] implements it.
type Caller interface {
	Call(ctx context.Context, name string, args map[string]any) (string, error)
}

// ComponentTools returns the agent side component discovery tools, each
// backed by the ComponentDoc server reachable through remote.
func ComponentTools(remote Caller) []tool.Registration {
	return []tool.Registration{
		tool.Func("list_available_components",
			"List every UI component that can be rendered with A2UI",
			func(ctx context.Context, _ struct{}) (string, error) {
				return listComponents(ctx, remote)
			}),
		tool.Func("get_component",
			"Get the documentation of a UI component including its props and data shape and usage examples",
			func(ctx context.Context, args GetComponentArgs) (string, error) {
				return getComponent(ctx, remote, args.Name)
			}),
		tool.Func("search_components",
			"Search UI components whose name or documentation contains a keyword",
			func(ctx context.Context, args SearchComponentsArgs) (string, error) {
				return searchComponents(ctx, remote, args.Keyword, args.TopK)
			}),
	}
}

func listComponents(ctx context.Context, remote Caller) (string, error) {
	text, err := remote.Call(ctx, "list_components", nil)
	if err != nil {
		return "", fmt.Errorf("failed to list components: %w", err)
	}

	var payload struct {
		Components []string `json:"components"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return "", fmt.Errorf("failed to list components: %w", err)
	}
	if payload.Components == nil {
		payload.Components = []string{}
	}

	out, err := json.MarshalIndent(map[string]any{
		"components":  payload.Components,
		"total_count": len(payload.Components),
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func getComponent(ctx context.Context, remote Caller, name string) (string, error) {
	text, err := remote.Call(ctx, "get_component", map[string]any{"name": name})
	if err != nil {
		return "", fmt.Errorf("failed to get component %q: %w", name, err)
	}

	var doc ComponentDoc
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return "", fmt.Errorf("failed to get component %q: %w", name, err)
	}
	if doc.Content != nil && *doc.Content != "" {
		return *doc.Content, nil
	}
	if doc.Error == "" {
		doc.Error = ErrComponentNotFound
	}
	return "", fmt.Errorf("error: %s", doc.Error)
}

func searchComponents(ctx context.Context, remote Caller, keyword string, topK int) (string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	text, err := remote.Call(ctx, "search_components", map[string]any{
		"keyword": keyword,
		"top_k":   topK,
	})
	if err != nil {
		return "", fmt.Errorf("failed to search components: %w", err)
	}

	var result SearchResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return "", fmt.Errorf("failed to search components: %w", err)
	}

	names := make([]string, 0, len(result.Results))
	for _, hit := range result.Results {
		if hit.Name != "" {
			names = append(names, hit.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No components found matching %q", keyword), nil
	}
	return fmt.Sprintf("Found %d components: %s", len(names), strings.Join(names, ", ")), nil
}
