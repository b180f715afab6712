// Package a2gate is a streaming gateway between a tool-calling model loop and
// a client that renders A2UI surfaces.
//
// The root package holds the vocabulary shared by every layer: conversation
// messages, tool definitions and results, request options, and categorized
// provider errors. The moving parts live in sub-packages:
//
//   - [github.com/spetersoncode/a2gate/event]: the upstream engine event union
//   - [github.com/spetersoncode/a2gate/protocol]: the client-facing event schema
//   - [github.com/spetersoncode/a2gate/bridge]: normalization and stream orchestration
//   - [github.com/spetersoncode/a2gate/a2ui]: embedded A2UI message extraction
//   - [github.com/spetersoncode/a2gate/engine]: the model/tool loop that feeds the bridge
//   - [github.com/spetersoncode/a2gate/client]: provider selection and retries
//
// # Streaming a request
//
//	eng := engine.New(chatClient, registry, engine.WithSystemPrompt(prompt))
//	stream := eng.StartStream(ctx, "Show me a login form", "")
//	err := bridge.Run(ctx, stream, sink)
//
// The sink receives processing, tool_call, tool_result and message events as
// they happen, then any a2ui messages found after the ---a2ui_JSON--- marker,
// then a single done event.
package a2gate
