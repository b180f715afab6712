package bridge

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spetersoncode/a2gate/event"
	"github.com/spetersoncode/a2gate/protocol"
)

// placeholderChunk is the filler some models stream before a tool call.
const placeholderChunk = "..."

// Normalize maps one upstream event to at most one outbound event.
// processingSent reports whether this request already emitted processing.
// Unknown or irrelevant events yield ok == false, as does an event whose
// tool output fails while being resolved.
func Normalize(ev event.Upstream, processingSent bool) (out protocol.Event, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = protocol.Event{}, false
		}
	}()

	switch e := event.Value(ev).(type) {
	case event.ModelStart:
		if processingSent {
			return protocol.Event{}, false
		}
		return protocol.Processing(e.RunID), true
	case event.ToolStart:
		return protocol.NewToolCall(e.RunID, e.Name, e.Args), true
	case event.ToolEnd:
		return protocol.NewToolResult(e.RunID, ResolveResult(e.Output)), true
	case event.ModelStreamChunk:
		if IsNoise(e.Text) {
			return protocol.Event{}, false
		}
		return protocol.NewMessage(e.RunID, e.Text), true
	default:
		return protocol.Event{}, false
	}
}

// IsNoise reports whether a text chunk carries nothing worth forwarding:
// empty after trimming, or the "..." placeholder.
func IsNoise(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || trimmed == placeholderChunk
}

// ResolveResult picks the value reported for a tool output. A wrapped
// content field wins, mappings pass through unchanged, and anything else
// becomes text. A nil pointer of any type resolves to "".
func ResolveResult(output any) any {
	if isNilValue(output) {
		return ""
	}
	switch v := output.(type) {
	case nil:
		return ""
	case event.ContentCarrier:
		return v.OutputContent()
	case map[string]any:
		return v
	case string:
		return v
	case []byte:
		return string(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	}
	if reflect.TypeOf(output).Kind() == reflect.Map {
		return output
	}
	return fmt.Sprint(output)
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
