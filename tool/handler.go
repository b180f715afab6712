package tool

import (
	"context"

	ai "github.com/spetersoncode/a2gate"
)

// Handler runs one tool call. The returned text becomes the content of the
// tool result fed back to the model and surfaced as a tool_result event; a
// returned error is reported the same way with IsError set.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler receives the call's JSON arguments decoded into T.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)
