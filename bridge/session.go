package bridge

import (
	"strings"

	"github.com/spetersoncode/a2gate/a2ui"
	"github.com/spetersoncode/a2gate/event"
	"github.com/spetersoncode/a2gate/protocol"
)

// Session holds the state of one streaming request. It is not safe for
// concurrent use; each request owns its own.
type Session struct {
	processingSent bool
	text           strings.Builder
	closed         bool
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Normalize maps ev through Normalize using the session's processing flag
// and records the outcome.
func (s *Session) Normalize(ev event.Upstream) (protocol.Event, bool) {
	out, ok := Normalize(ev, s.processingSent)
	if ok {
		s.Observe(out)
	}
	return out, ok
}

// Observe records an emitted event. Processing and any progress event flip
// the one-shot flag, so processing never follows content. Message chunks
// are appended to the accumulated text until Close.
func (s *Session) Observe(out protocol.Event) {
	switch out.Kind {
	case protocol.KindProcessing, protocol.KindToolCall, protocol.KindToolResult:
		s.processingSent = true
	case protocol.KindMessage:
		s.processingSent = true
		if s.closed {
			return
		}
		if chunk, ok := out.Chunk(); ok {
			s.text.WriteString(chunk)
		}
	}
}

// ProcessingSent reports whether processing may no longer be emitted.
func (s *Session) ProcessingSent() bool {
	return s.processingSent
}

// Text returns the accumulated message text.
func (s *Session) Text() string {
	return s.text.String()
}

// Close freezes the accumulated text and extracts any embedded A2UI
// messages from it. The error explains an empty result and is never fatal.
func (s *Session) Close() ([]a2ui.Message, error) {
	s.closed = true
	return a2ui.Parse(s.text.String())
}
