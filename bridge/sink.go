package bridge

import (
	"context"

	"github.com/spetersoncode/a2gate/protocol"
)

// Sink receives outbound events in order. A non-nil error from Send means
// the consumer is gone.
type Sink interface {
	Send(ctx context.Context, ev protocol.Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev protocol.Event) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, ev protocol.Event) error {
	return f(ctx, ev)
}

// ChannelSink delivers events to a channel, blocking until the receiver
// takes each one or ctx is done.
type ChannelSink chan<- protocol.Event

// Send implements Sink.
func (c ChannelSink) Send(ctx context.Context, ev protocol.Event) error {
	select {
	case c <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
