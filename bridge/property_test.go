package bridge

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/spetersoncode/a2gate/event"
	"github.com/spetersoncode/a2gate/protocol"
)

// upstreamFromCodes turns generated integers into a mix of upstream events.
func upstreamFromCodes(codes []int) []event.Upstream {
	texts := []string{"Hi", "...", " ", "", " ... ", "bye\n"}
	events := make([]event.Upstream, 0, len(codes))
	for i, c := range codes {
		run := fmt.Sprintf("run-%d", i/3)
		switch c % 5 {
		case 0:
			events = append(events, event.ModelStart{RunID: run})
		case 1:
			events = append(events, event.ModelStreamChunk{RunID: run, Text: texts[c%len(texts)]})
		case 2:
			events = append(events, event.ToolStart{RunID: run, Name: "calculator"})
		case 3:
			events = append(events, event.ToolEnd{RunID: run, Output: c})
		default:
			events = append(events, event.Other{RunID: run, Name: "chain"})
		}
	}
	return events
}

func TestRunProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	codes := gen.SliceOf(gen.IntRange(0, 60))

	properties.Property("processing at most once and before other progress events", prop.ForAll(
		func(codes []int) bool {
			sink := &recordingSink{}
			if _, err := Run(context.Background(), event.FromSlice(upstreamFromCodes(codes), nil), sink); err != nil {
				return false
			}
			processing := 0
			seenProgress := false
			for _, ev := range sink.events {
				switch ev.Kind {
				case protocol.KindProcessing:
					processing++
					if seenProgress {
						return false
					}
				case protocol.KindMessage, protocol.KindToolCall, protocol.KindToolResult:
					seenProgress = true
				}
			}
			return processing <= 1
		},
		codes,
	))

	properties.Property("exactly one terminal event, last", prop.ForAll(
		func(codes []int, fail bool) bool {
			var err error
			if fail {
				err = fmt.Errorf("upstream broke")
			}
			sink := &recordingSink{}
			Run(context.Background(), event.FromSlice(upstreamFromCodes(codes), err), sink)
			terminals := 0
			for _, ev := range sink.events {
				if ev.Terminal() {
					terminals++
				}
			}
			last := sink.events[len(sink.events)-1]
			if fail {
				return terminals == 1 && last.Kind == protocol.KindError
			}
			return terminals == 1 && last.Kind == protocol.KindDone
		},
		codes,
		gen.Bool(),
	))

	properties.Property("noise chunks produce nothing", prop.ForAll(
		func(pad string, dots bool) bool {
			text := ""
			for _, r := range pad {
				if r%2 == 0 {
					text += " "
				} else {
					text += "\n"
				}
			}
			if dots {
				text += "..." + text
			}
			_, ok := Normalize(event.ModelStreamChunk{RunID: "r", Text: text}, false)
			return !ok
		},
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.Property("accumulated text equals forwarded chunks", prop.ForAll(
		func(codes []int) bool {
			sink := &recordingSink{}
			stats, _ := Run(context.Background(), event.FromSlice(upstreamFromCodes(codes), nil), sink)
			joined := ""
			for _, ev := range sink.events {
				if chunk, ok := ev.Chunk(); ok {
					joined += chunk
				}
			}
			return joined == stats.Text
		},
		codes,
	))

	properties.TestingRun(t)
}
