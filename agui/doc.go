// Package agui renders the gateway's outbound stream as AG-UI protocol
// events.
//
// A [Mapper] is created per run. It turns each [protocol.Event] into zero or
// more AG-UI events: message chunks become one TEXT_MESSAGE_START /
// TEXT_MESSAGE_CONTENT... / TEXT_MESSAGE_END sequence per uninterrupted run
// of text, tool calls become TOOL_CALL_START, TOOL_CALL_ARGS, TOOL_CALL_END,
// tool results become TOOL_CALL_RESULT, embedded A2UI messages become
// CUSTOM events named "a2ui", and done/error become RUN_FINISHED/RUN_ERROR.
//
//	m := agui.NewMapper(threadID, "")
//	write(m.RunStarted())
//	sink := m.Sink(func(ctx context.Context, ev events.Event) error {
//		return write(ev)
//	})
//	bridge.Run(ctx, stream, sink)
package agui
