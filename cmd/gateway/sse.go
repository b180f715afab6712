package main

import (
	"context"
	"fmt"
	"net/http"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/a2gate/protocol"
)

// sseWriter writes named Server-Sent Events and flushes after each one.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	count   int
}

// newSSEWriter sets the SSE headers. It fails if w cannot stream.
func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	return &sseWriter{w: w, flusher: flusher}, nil
}

func (s *sseWriter) write(name string, data []byte) error {
	// Write SSE format: event: NAME\ndata: {json}\n\n
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	s.flusher.Flush()
	s.count++
	return nil
}

// Send implements bridge.Sink for the native protocol.
func (s *sseWriter) Send(ctx context.Context, ev protocol.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := ev.JSON()
	if err != nil {
		return err
	}
	return s.write(string(ev.Kind), data)
}

// writeAGUI writes an AG-UI event.
func (s *sseWriter) writeAGUI(ctx context.Context, ev aguievents.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	return s.write(string(ev.Type()), data)
}
