package openai

import (
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
	ai "github.com/spetersoncode/a2gate"
)

// convertTools declares the registry's tools as functions. A tool whose
// schema does not decode is declared without parameters.
func convertTools(tools []ai.Tool) []openai.ChatCompletionToolParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		fn := shared.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
		}
		var params shared.FunctionParameters
		if len(t.Parameters) > 0 && json.Unmarshal(t.Parameters, &params) == nil {
			fn.Parameters = params
		}
		out = append(out, openai.ChatCompletionToolParam{Function: fn})
	}
	return out
}

var toolChoiceModes = map[ai.ToolChoice]string{
	ai.ToolChoiceNone:     "none",
	ai.ToolChoiceRequired: "required",
}

func convertToolChoice(choice ai.ToolChoice) openai.ChatCompletionToolChoiceOptionUnionParam {
	mode, ok := toolChoiceModes[choice]
	if !ok {
		mode = "auto"
	}
	return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String(mode)}
}

// extractToolCalls reads the calls accumulated from the stream's deltas.
func extractToolCalls(toolCalls []openai.ChatCompletionMessageToolCall) []ai.ToolCall {
	if len(toolCalls) == 0 {
		return nil
	}
	calls := make([]ai.ToolCall, 0, len(toolCalls))
	for _, tc := range toolCalls {
		calls = append(calls, ai.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return calls
}
