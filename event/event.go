// Package event defines the events a model-execution engine emits while it
// drives one request: model turns starting, text deltas, and tool runs.
//
// The set is closed. Each kind is its own struct implementing [Upstream], so
// consumers switch on the concrete type and treat anything unexpected as
// [Other].
package event

import "iter"

// Kind identifies the kind of upstream event.
type Kind string

const (
	KindModelStart  Kind = "model_start"
	KindModelStream Kind = "model_stream"
	KindToolStart   Kind = "tool_start"
	KindToolEnd     Kind = "tool_end"
	KindOther       Kind = "other"
)

// Upstream is one event from the execution engine.
type Upstream interface {
	// Kind reports which variant this is.
	Kind() Kind
	// Run returns the correlation id of the model turn or tool run that
	// produced the event.
	Run() string

	upstream()
}

// Stream is a pull-based feed of upstream events. A non-nil error ends the
// stream. Breaking out of a range over the stream releases it.
type Stream = iter.Seq2[Upstream, error]

// ContentCarrier is implemented by tool outputs that wrap their payload in a
// message-like object.
type ContentCarrier interface {
	OutputContent() any
}

// ModelStart fires each time the engine calls the model.
type ModelStart struct {
	RunID string
}

// ModelStreamChunk carries one text delta from the model.
type ModelStreamChunk struct {
	RunID string
	Text  string
}

// ToolStart fires before a tool handler runs.
type ToolStart struct {
	RunID string
	Name  string
	// Args may be nil when the model sent no arguments.
	Args map[string]any
}

// ToolEnd fires after a tool handler returns. Output is text, a mapping, a
// ContentCarrier, or any other value.
type ToolEnd struct {
	RunID  string
	Name   string
	Output any
}

// Other stands in for engine events this package has no variant for.
type Other struct {
	RunID string
	Name  string
}

func (ModelStart) Kind() Kind       { return KindModelStart }
func (ModelStreamChunk) Kind() Kind { return KindModelStream }
func (ToolStart) Kind() Kind        { return KindToolStart }
func (ToolEnd) Kind() Kind          { return KindToolEnd }
func (Other) Kind() Kind            { return KindOther }

func (e ModelStart) Run() string       { return e.RunID }
func (e ModelStreamChunk) Run() string { return e.RunID }
func (e ToolStart) Run() string        { return e.RunID }
func (e ToolEnd) Run() string          { return e.RunID }
func (e Other) Run() string            { return e.RunID }

func (ModelStart) upstream()       {}
func (ModelStreamChunk) upstream() {}
func (ToolStart) upstream()        {}
func (ToolEnd) upstream()          {}
func (Other) upstream()            {}

// Value returns ev with pointer variants dereferenced, so consumers can
// switch on value types only. A nil pointer variant yields nil.
func Value(ev Upstream) Upstream {
	switch e := ev.(type) {
	case *ModelStart:
		if e != nil {
			return *e
		}
	case *ModelStreamChunk:
		if e != nil {
			return *e
		}
	case *ToolStart:
		if e != nil {
			return *e
		}
	case *ToolEnd:
		if e != nil {
			return *e
		}
	case *Other:
		if e != nil {
			return *e
		}
	default:
		return ev
	}
	return nil
}

// FromSlice returns a stream that yields events in order and then ends
// with err, if err is non-nil.
func FromSlice(events []Upstream, err error) Stream {
	return func(yield func(Upstream, error) bool) {
		for _, ev := range events {
			if !yield(ev, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}
