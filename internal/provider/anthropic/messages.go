package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/spetersoncode/a2gate"
)

// convertMessages splits the conversation into Anthropic turns and the
// system blocks. Empty text is dropped since the API rejects empty blocks.
func convertMessages(messages []ai.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var turns []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			if msg.Content != "" {
				system = append(system, anthropic.TextBlockParam{Text: msg.Content})
			}
		case ai.RoleAssistant:
			if turn, ok := assistantTurn(msg); ok {
				turns = append(turns, turn)
			}
		case ai.RoleTool:
			if turn, ok := toolResultTurn(msg.ToolResults); ok {
				turns = append(turns, turn)
			}
		default:
			if msg.Content != "" {
				turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
			}
		}
	}

	return turns, system
}

func assistantTurn(msg ai.Message) (anthropic.MessageParam, bool) {
	var blocks []anthropic.ContentBlockParamUnion
	if msg.Content != "" {
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, tc.ArgumentMap(), tc.Name))
	}
	if len(blocks) == 0 {
		return anthropic.MessageParam{}, false
	}
	return anthropic.MessageParam{Role: anthropic.MessageParamRoleAssistant, Content: blocks}, true
}

// Tool results travel in a user turn.
func toolResultTurn(results []ai.ToolResult) (anthropic.MessageParam, bool) {
	if len(results) == 0 {
		return anthropic.MessageParam{}, false
	}
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(results))
	for _, tr := range results {
		blocks = append(blocks, anthropic.NewToolResultBlock(tr.ToolCallID, tr.Content, tr.IsError))
	}
	return anthropic.MessageParam{Role: anthropic.MessageParamRoleUser, Content: blocks}, true
}
