// Package protocol defines the client-facing event schema of the gateway.
//
// Every event has a name and a JSON payload. Progress events share the
// {id, content} envelope; a2ui events carry one embedded UI message as-is;
// the stream ends with exactly one done or error event.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Kind names an outbound event.
type Kind string

const (
	KindProcessing Kind = "processing"
	KindToolCall   Kind = "tool_call"
	KindToolResult Kind = "tool_result"
	KindMessage    Kind = "message"
	KindA2UI       Kind = "a2ui"
	KindDone       Kind = "done"
	KindError      Kind = "error"
)

// DoneID is the id carried by the terminal done event.
const DoneID = "done"

// StatusProcessing is the status reported by the processing event.
const StatusProcessing = "processing"

// Event is one outbound event.
type Event struct {
	Kind Kind
	Data any
}

// Payload is the {id, content} envelope shared by progress events and done.
type Payload struct {
	ID      string `json:"id"`
	Content any    `json:"content"`
}

// Status is the content of a processing event.
type Status struct {
	Status string `json:"status"`
}

// ToolCall is the content of a tool_call event.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// ToolResult is the content of a tool_result event.
type ToolResult struct {
	Result any `json:"result"`
}

// Message is the content of a message event.
type Message struct {
	Chunk string `json:"chunk"`
}

// ErrorPayload is the payload of an error event.
type ErrorPayload struct {
	Error string `json:"error"`
}

// Processing builds the one-shot processing signal.
func Processing(id string) Event {
	return Event{Kind: KindProcessing, Data: Payload{ID: id, Content: Status{Status: StatusProcessing}}}
}

// NewToolCall builds a tool_call event. Nil args become an empty mapping.
func NewToolCall(id, name string, args map[string]any) Event {
	if args == nil {
		args = map[string]any{}
	}
	return Event{Kind: KindToolCall, Data: Payload{ID: id, Content: ToolCall{Name: name, Args: args}}}
}

// NewToolResult builds a tool_result event.
func NewToolResult(id string, result any) Event {
	return Event{Kind: KindToolResult, Data: Payload{ID: id, Content: ToolResult{Result: result}}}
}

// NewMessage builds a message event carrying one raw text chunk.
func NewMessage(id, chunk string) Event {
	return Event{Kind: KindMessage, Data: Payload{ID: id, Content: Message{Chunk: chunk}}}
}

// A2UI wraps one embedded UI message.
func A2UI(msg map[string]any) Event {
	return Event{Kind: KindA2UI, Data: msg}
}

// Done builds the terminal success event.
func Done() Event {
	return Event{Kind: KindDone, Data: Payload{ID: DoneID, Content: map[string]any{}}}
}

// Error builds the terminal failure event.
func Error(msg string) Event {
	return Event{Kind: KindError, Data: ErrorPayload{Error: msg}}
}

// Terminal reports whether the event ends a stream.
func (e Event) Terminal() bool {
	return e.Kind == KindDone || e.Kind == KindError
}

// ID returns the correlation id of envelope events, or "" for a2ui and error.
func (e Event) ID() string {
	if p, ok := e.Data.(Payload); ok {
		return p.ID
	}
	return ""
}

// Chunk returns the text of a message event.
func (e Event) Chunk() (string, bool) {
	if e.Kind != KindMessage {
		return "", false
	}
	p, ok := e.Data.(Payload)
	if !ok {
		return "", false
	}
	m, ok := p.Content.(Message)
	return m.Chunk, ok
}

// JSON encodes the event payload.
func (e Event) JSON() ([]byte, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Kind, err)
	}
	return data, nil
}

// Validate checks that the payload matches the event kind.
func (e Event) Validate() error {
	switch e.Kind {
	case KindProcessing, KindToolCall, KindToolResult, KindMessage:
		p, ok := e.Data.(Payload)
		if !ok {
			return &InvalidEventError{Kind: e.Kind, Reason: "payload must be an {id, content} envelope"}
		}
		if p.ID == "" {
			return &InvalidEventError{Kind: e.Kind, Reason: "missing id"}
		}
		if !contentMatches(e.Kind, p.Content) {
			return &InvalidEventError{Kind: e.Kind, Reason: fmt.Sprintf("unexpected content %T", p.Content)}
		}
	case KindA2UI:
		m, ok := e.Data.(map[string]any)
		if !ok || len(m) == 0 {
			return &InvalidEventError{Kind: e.Kind, Reason: "payload must be a non-empty object"}
		}
	case KindDone:
		p, ok := e.Data.(Payload)
		if !ok || p.ID != DoneID {
			return &InvalidEventError{Kind: e.Kind, Reason: `payload must be {"id":"done","content":{}}`}
		}
	case KindError:
		if _, ok := e.Data.(ErrorPayload); !ok {
			return &InvalidEventError{Kind: e.Kind, Reason: "payload must carry an error message"}
		}
	default:
		return &InvalidEventError{Kind: e.Kind, Reason: "unknown event kind"}
	}
	return nil
}

func contentMatches(kind Kind, content any) bool {
	switch kind {
	case KindProcessing:
		_, ok := content.(Status)
		return ok
	case KindToolCall:
		_, ok := content.(ToolCall)
		return ok
	case KindToolResult:
		_, ok := content.(ToolResult)
		return ok
	case KindMessage:
		_, ok := content.(Message)
		return ok
	}
	return false
}

// InvalidEventError reports an event whose payload does not fit its kind.
type InvalidEventError struct {
	Kind   Kind
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid %q event: %s", e.Kind, e.Reason)
}
