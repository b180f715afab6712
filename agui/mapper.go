package agui

import (
	"context"
	"encoding/json"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/a2gate/bridge"
	"github.com/spetersoncode/a2gate/protocol"
)

// RoleAssistant is the AG-UI role of streamed text messages.
const RoleAssistant = "assistant"

// CustomEventA2UI names the CUSTOM events that carry A2UI messages.
const CustomEventA2UI = "a2ui"

// Mapper converts protocol events to AG-UI events for one run.
//
// Create a new Mapper for each run using NewMapper. The Mapper is not
// safe for concurrent use.
type Mapper struct {
	threadID string
	runID    string

	// messageID is the open text message, if any.
	messageID string
}

// NewMapper creates a new Mapper for a single run.
// Empty ids are generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// MapEvent converts one protocol event. It returns nil for events with no
// AG-UI rendition, such as processing.
func (m *Mapper) MapEvent(ev protocol.Event) []events.Event {
	switch ev.Kind {
	case protocol.KindMessage:
		chunk, ok := ev.Chunk()
		if !ok || chunk == "" {
			return nil
		}
		var out []events.Event
		if m.messageID == "" {
			m.messageID = events.GenerateMessageID()
			out = append(out, events.NewTextMessageStartEvent(m.messageID, events.WithRole(RoleAssistant)))
		}
		return append(out, events.NewTextMessageContentEvent(m.messageID, chunk))

	case protocol.KindToolCall:
		p, ok := ev.Data.(protocol.Payload)
		if !ok {
			return nil
		}
		call, _ := p.Content.(protocol.ToolCall)
		args, err := json.Marshal(call.Args)
		if err != nil {
			args = []byte("{}")
		}
		return append(m.closeMessage(),
			events.NewToolCallStartEvent(p.ID, call.Name),
			events.NewToolCallArgsEvent(p.ID, string(args)),
			events.NewToolCallEndEvent(p.ID),
		)

	case protocol.KindToolResult:
		p, ok := ev.Data.(protocol.Payload)
		if !ok {
			return nil
		}
		result, _ := p.Content.(protocol.ToolResult)
		return append(m.closeMessage(),
			events.NewToolCallResultEvent(events.GenerateMessageID(), p.ID, resultText(result.Result)),
		)

	case protocol.KindA2UI:
		return append(m.closeMessage(),
			events.NewCustomEvent(CustomEventA2UI, events.WithValue(ev.Data)),
		)

	case protocol.KindDone:
		return append(m.closeMessage(), events.NewRunFinishedEvent(m.threadID, m.runID))

	case protocol.KindError:
		msg := "unknown error"
		if p, ok := ev.Data.(protocol.ErrorPayload); ok && p.Error != "" {
			msg = p.Error
		}
		return append(m.closeMessage(), events.NewRunErrorEvent(msg))

	default:
		return nil
	}
}

// Sink returns a bridge.Sink that maps each event and passes the results
// to emit in order.
func (m *Mapper) Sink(emit func(ctx context.Context, ev events.Event) error) bridge.Sink {
	return bridge.SinkFunc(func(ctx context.Context, ev protocol.Event) error {
		for _, out := range m.MapEvent(ev) {
			if err := emit(ctx, out); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *Mapper) closeMessage() []events.Event {
	if m.messageID == "" {
		return nil
	}
	id := m.messageID
	m.messageID = ""
	return []events.Event{events.NewTextMessageEndEvent(id)}
}

// resultText renders a tool result as TOOL_CALL_RESULT content.
func resultText(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
