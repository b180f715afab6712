package google

import (
	"encoding/json"
	"strings"

	ai "github.com/spetersoncode/a2gate"
	"google.golang.org/genai"
)

// systemInstruction joins system messages; Gemini takes them out of band.
func systemInstruction(messages []ai.Message) *genai.Content {
	var texts []string
	for _, msg := range messages {
		if msg.Role == ai.RoleSystem && msg.Content != "" {
			texts = append(texts, msg.Content)
		}
	}
	if len(texts) == 0 {
		return nil
	}
	return &genai.Content{Parts: []*genai.Part{{Text: strings.Join(texts, "\n\n")}}}
}

func convertMessages(messages []ai.Message) []*genai.Content {
	var contents []*genai.Content
	// Function responses are keyed by function name, not call ID.
	callNames := make(map[string]string)

	for _, msg := range messages {
		var role string
		var parts []*genai.Part

		switch msg.Role {
		case ai.RoleSystem:
			continue
		case ai.RoleAssistant:
			role = genai.RoleModel
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				callNames[tc.ID] = tc.Name
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   tc.ID,
						Name: tc.Name,
						Args: tc.ArgumentMap(),
					},
				})
			}
		case ai.RoleTool:
			role = genai.RoleUser
			for _, tr := range msg.ToolResults {
				// JSON objects pass through; anything else is wrapped.
				var result map[string]any
				if err := json.Unmarshal([]byte(tr.Content), &result); err != nil || result == nil {
					result = map[string]any{"result": tr.Content}
				}
				if tr.IsError {
					result = map[string]any{"error": tr.Content}
				}
				name := callNames[tr.ToolCallID]
				if name == "" {
					name = tr.ToolCallID
				}
				parts = append(parts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						ID:       tr.ToolCallID,
						Name:     name,
						Response: result,
					},
				})
			}
		default:
			role = genai.RoleUser
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}

	return contents
}
