// Package mcp connects the gateway to Model Context Protocol servers.
//
// It works in both directions:
//
//   - Client: [RemoteRegistry] proxies tool calls to an MCP server over
//     streamable HTTP. [ComponentTools] builds the component discovery tools
//     (list_available_components, get_component, search_components) on top of
//     it.
//   - Server: [NewServer] exposes a [tool.Registry] as an MCP server, and
//     [DocTools] turns a [DocStore] of markdown component docs into the
//     registry served by cmd/componentdoc.
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/a2gate"
)

// ToMCPTool converts a Tool to an MCP Tool.
// Tool.Parameters is used as the MCP Tool's RawInputSchema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	params := t.Parameters
	if len(params) == 0 {
		params = json.RawMessage(`{"type":"object"}`)
	}
	return mcp.NewToolWithRawSchema(t.Name, t.Description, params)
}

// FromMCPTool converts an MCP Tool to a Tool.
// It extracts the JSON schema from either RawInputSchema or InputSchema.
func FromMCPTool(t mcp.Tool) ai.Tool {
	var schema json.RawMessage

	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		schema = data
	}

	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// ToMCPCallToolRequest converts a ToolCall to an MCP CallToolRequest.
func ToMCPCallToolRequest(call ai.ToolCall) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: call.ArgumentMap(),
		},
	}
}

// ResultText joins the text content of an MCP result. Non-text content is
// marshaled as JSON.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	if len(parts) == 0 && result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}
	return strings.Join(parts, "\n")
}

// FromMCPCallToolResult converts an MCP CallToolResult to a ToolResult.
func FromMCPCallToolResult(callID string, result *mcp.CallToolResult) ai.ToolResult {
	if result == nil {
		return ai.ToolResult{ToolCallID: callID, IsError: true}
	}
	return ai.ToolResult{
		ToolCallID: callID,
		Content:    ResultText(result),
		IsError:    result.IsError,
	}
}
