// Package engine runs the tool-calling model loop behind the gateway.
//
// One call to [Engine.StartStream] drives a request: the system prompt and
// the user message go to the model, requested tools are executed through a
// [tool.Registry], their results are fed back, and the loop repeats until
// the model answers without tool calls or the step limit is hit.
//
// Progress is reported as an [event.Stream]:
//
//   - event.ModelStart when a model turn begins (fresh run id per turn)
//   - event.ModelStreamChunk for each text delta of that turn
//   - event.ToolStart / event.ToolEnd around each tool run (own run id)
//
// Tool failures become error results the model can read; they never end the
// stream. Model failures, the timeout and exceeding the step limit end the
// stream with an error.
//
//	eng := engine.New(chatClient, registry,
//		engine.WithSystemPrompt(prompt),
//		engine.WithMaxSteps(10),
//	)
//	for ev, err := range eng.StartStream(ctx, "What's the weather in Paris?", "conv-1") {
//		...
//	}
package engine
