// Package bridge turns an engine event stream into the client protocol.
//
// [Normalize] maps single events, [Session] carries the per-request state
// (the one-shot processing flag and the accumulated text), and [Run] drives
// a whole request: it forwards events in order, extracts embedded A2UI
// messages once the stream ends, and finishes with done or error.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spetersoncode/a2gate/a2ui"
	"github.com/spetersoncode/a2gate/event"
	"github.com/spetersoncode/a2gate/protocol"
)

// ErrDisconnected is returned by Run when the consumer went away. Nothing
// is sent to the client in that case.
var ErrDisconnected = errors.New("bridge: client disconnected")

// UpstreamError is returned by Run after an upstream failure has been
// reported to the client as an error event.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream stream failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Stats summarizes one Run.
type Stats struct {
	// EventsSent counts events accepted by the sink, terminal event included.
	EventsSent int
	// UpstreamEvents counts events pulled from the stream.
	UpstreamEvents int
	// A2UIMessages counts extracted messages that were delivered.
	A2UIMessages int
	// Text is the accumulated message text.
	Text string
}

// Options configures Run.
type Options struct {
	Logger *slog.Logger
}

// Option is a functional option for Run.
type Option func(*Options)

// WithLogger sets the logger used for extraction diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func applyOptions(opts ...Option) *Options {
	o := &Options{Logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run drains stream into sink for one request.
//
// Outbound events follow upstream order. After the stream ends, every
// embedded A2UI message found in the accumulated text is sent, then one
// done event. If the stream fails, a single error event replaces done and
// Run returns an *UpstreamError. If ctx ends or the sink fails, Run stops
// pulling from the stream, sends nothing more, and returns ErrDisconnected.
func Run(ctx context.Context, stream event.Stream, sink Sink, opts ...Option) (Stats, error) {
	o := applyOptions(opts...)
	r := &runner{ctx: ctx, sink: sink, session: NewSession()}

	for ev, err := range stream {
		if ctx.Err() != nil {
			return r.stats(), ErrDisconnected
		}
		if err != nil {
			if sendErr := r.send(protocol.Error(err.Error())); sendErr != nil {
				return r.stats(), ErrDisconnected
			}
			return r.stats(), &UpstreamError{Err: err}
		}
		r.upstream++

		out, ok := r.session.Normalize(ev)
		if !ok {
			continue
		}
		if err := r.send(out); err != nil {
			return r.stats(), ErrDisconnected
		}
	}
	if ctx.Err() != nil {
		return r.stats(), ErrDisconnected
	}

	msgs, err := r.session.Close()
	switch {
	case err == nil && len(msgs) > 0:
		o.Logger.Info("a2ui messages extracted", "count", len(msgs))
	case err != nil && !errors.Is(err, a2ui.ErrNoDelimiter):
		o.Logger.Debug("a2ui payload discarded", "reason", err)
	}

	for _, msg := range msgs {
		if err := r.send(protocol.A2UI(msg)); err != nil {
			return r.stats(), ErrDisconnected
		}
		r.a2ui++
	}
	if err := r.send(protocol.Done()); err != nil {
		return r.stats(), ErrDisconnected
	}
	return r.stats(), nil
}

type runner struct {
	ctx      context.Context
	sink     Sink
	session  *Session
	sent     int
	upstream int
	a2ui     int
}

func (r *runner) send(ev protocol.Event) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	if err := r.sink.Send(r.ctx, ev); err != nil {
		return err
	}
	r.sent++
	return nil
}

func (r *runner) stats() Stats {
	return Stats{
		EventsSent:     r.sent,
		UpstreamEvents: r.upstream,
		A2UIMessages:   r.a2ui,
		Text:           r.session.Text(),
	}
}
