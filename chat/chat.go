// Package chat defines the chat client the engine depends on.
//
// It sits apart from the client package so the engine and its tests can
// use any implementation, including [Replay], without importing provider
// SDKs.
package chat

import (
	"context"

	ai "github.com/spetersoncode/a2gate"
)

// Client streams one model turn. The returned channel carries text deltas
// and ends with a Done event holding the full response, or an Err event.
//
// [github.com/spetersoncode/a2gate/client.Client] implements it.
type Client interface {
	ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error)
}
