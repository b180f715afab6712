package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/spetersoncode/a2gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseServer(events [][2]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range events {
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev[0], ev[1])
		}
	}))
}

func newTestClient(url string) *Client {
	return New("test-key", WithRequestOptions(option.WithBaseURL(url), option.WithMaxRetries(0)))
}

func TestChatStream(t *testing.T) {
	t.Run("streams text and tool use", func(t *testing.T) {
		srv := sseServer([][2]string{
			{"message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","model":"claude","content":[],"stop_reason":null,"usage":{"input_tokens":5,"output_tokens":1}}}`},
			{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`},
			{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Let me "}}`},
			{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"check."}}`},
			{"content_block_stop", `{"type":"content_block_stop","index":0}`},
			{"content_block_start", `{"type":"content_block_start","index":1,"content_block":{"type":"tool_use","id":"toolu_1","name":"get_weather","input":{}}}`},
			{"content_block_delta", `{"type":"content_block_delta","index":1,"delta":{"type":"input_json_delta","partial_json":"{\"city\":\"Paris\"}"}}`},
			{"content_block_stop", `{"type":"content_block_stop","index":1}`},
			{"message_delta", `{"type":"message_delta","delta":{"stop_reason":"tool_use"},"usage":{"output_tokens":12}}`},
			{"message_stop", `{"type":"message_stop"}`},
		})
		defer srv.Close()

		ch, err := newTestClient(srv.URL).ChatStream(context.Background(), []ai.Message{
			{Role: ai.RoleSystem, Content: "sys"},
			{Role: ai.RoleUser, Content: "weather in paris"},
		})
		require.NoError(t, err)

		var deltas []string
		var last ai.StreamEvent
		for ev := range ch {
			if ev.Delta != "" {
				deltas = append(deltas, ev.Delta)
			}
			last = ev
		}

		require.NoError(t, last.Err)
		assert.Equal(t, []string{"Let me ", "check."}, deltas)
		require.True(t, last.Done)
		assert.Equal(t, "Let me check.", last.Response.Content)
		assert.Equal(t, "tool_use", last.Response.FinishReason)
		require.Len(t, last.Response.ToolCalls, 1)
		assert.Equal(t, "toolu_1", last.Response.ToolCalls[0].ID)
		assert.Equal(t, "get_weather", last.Response.ToolCalls[0].Name)
		assert.JSONEq(t, `{"city":"Paris"}`, last.Response.ToolCalls[0].Arguments)
	})

	t.Run("api errors are categorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
		}))
		defer srv.Close()

		ch, err := newTestClient(srv.URL).ChatStream(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "hi"}})
		require.NoError(t, err)

		var last ai.StreamEvent
		for ev := range ch {
			last = ev
		}
		require.Error(t, last.Err)
		assert.True(t, ai.IsPermanent(last.Err))
		assert.Equal(t, 401, ai.StatusCodeOf(last.Err))
	})
}

func TestConvertMessages(t *testing.T) {
	msgs, system := convertMessages([]ai.Message{
		{Role: ai.RoleSystem, Content: "a"},
		{Role: ai.RoleSystem, Content: ""},
		{Role: ai.RoleUser, Content: ""},
		{Role: ai.RoleUser, Content: "hi"},
		{Role: ai.RoleAssistant, Content: "calling", ToolCalls: []ai.ToolCall{{ID: "t1", Name: "calculator", Arguments: `{"expression":"1+1"}`}}},
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "t1", Content: "2"}),
	})

	require.Len(t, system, 1)
	assert.Equal(t, "a", system[0].Text)
	require.Len(t, msgs, 3)
	assert.Len(t, msgs[1].Content, 2)
	assert.True(t, strings.EqualFold(string(msgs[2].Role), "user"))
}

func TestConvertTools(t *testing.T) {
	tools := convertTools([]ai.Tool{{
		Name:       "calculator",
		Parameters: []byte(`{"type":"object","properties":{"expression":{"type":"string"}},"required":["expression"]}`),
	}})
	require.Len(t, tools, 1)
	assert.Equal(t, []string{"expression"}, tools[0].OfTool.InputSchema.Required)
}
