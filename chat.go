package a2gate

import "context"

// ChatProvider streams one model turn. The channel carries text deltas and
// ends with either a Done event holding the full Response or an event with
// Err set; it is closed afterwards.
type ChatProvider interface {
	ChatStream(ctx context.Context, messages []Message, opts ...Option) (<-chan StreamEvent, error)
}
