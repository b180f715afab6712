// Package anthropic implements ai.ChatProvider on the Anthropic Messages API.
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//	stream, err := client.ChatStream(ctx, messages)
//	for event := range stream {
//	    if event.Err != nil {
//	        return event.Err
//	    }
//	    fmt.Print(event.Delta)
//	}
//
// Tool use blocks are returned as ai.ToolCall values on the final
// response. Empty text blocks are dropped before sending because the API
// rejects them.
package anthropic
