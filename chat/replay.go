package chat

import (
	"context"
	"errors"
	"sync"

	ai "github.com/spetersoncode/a2gate"
)

// ErrReplayExhausted is returned when Replay runs out of turns.
var ErrReplayExhausted = errors.New("chat: replay has no more turns")

// Turn is one scripted model turn.
type Turn struct {
	// Deltas are streamed in order before the final response.
	Deltas []string
	// ToolCalls are attached to the final response.
	ToolCalls []ai.ToolCall
	// Err, when set, is sent after the deltas instead of a response.
	Err error
}

// Replay is a Client that plays back scripted turns, one per call.
// It records the messages and options of every call.
type Replay struct {
	mu    sync.Mutex
	turns []Turn
	calls [][]ai.Message
	opts  []*ai.Options
}

// NewReplay returns a Replay for turns.
func NewReplay(turns ...Turn) *Replay {
	return &Replay{turns: turns}
}

// Calls returns the messages sent on each call so far.
func (r *Replay) Calls() [][]ai.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]ai.Message(nil), r.calls...)
}

// Options returns the resolved options of each call so far.
func (r *Replay) Options() []*ai.Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*ai.Options(nil), r.opts...)
}

// ChatStream implements Client.
func (r *Replay) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]ai.Message(nil), messages...))
	r.opts = append(r.opts, ai.ApplyOptions(opts...))
	if len(r.turns) == 0 {
		r.mu.Unlock()
		return nil, ErrReplayExhausted
	}
	turn := r.turns[0]
	r.turns = r.turns[1:]
	r.mu.Unlock()

	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)
		send := func(ev ai.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var content string
		for _, d := range turn.Deltas {
			content += d
			if !send(ai.StreamEvent{Delta: d}) {
				return
			}
		}
		if turn.Err != nil {
			send(ai.StreamEvent{Err: turn.Err})
			return
		}
		finish := "stop"
		if len(turn.ToolCalls) > 0 {
			finish = "tool_calls"
		}
		send(ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      content,
				FinishReason: finish,
				ToolCalls:    turn.ToolCalls,
			},
		})
	}()
	return ch, nil
}

var _ Client = (*Replay)(nil)
