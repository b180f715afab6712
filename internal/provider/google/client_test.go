package google

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ai "github.com/spetersoncode/a2gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(context.Background(), "test-key", WithBaseURL(srv.URL), WithModel("gemini-test"))
	require.NoError(t, err)
	return client
}

func drain(ch <-chan ai.StreamEvent) ([]string, ai.StreamEvent) {
	var deltas []string
	var last ai.StreamEvent
	for ev := range ch {
		if ev.Delta != "" {
			deltas = append(deltas, ev.Delta)
		}
		last = ev
	}
	return deltas, last
}

func TestChatStream(t *testing.T) {
	t.Run("streams text and function calls", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.Contains(r.URL.Path, "gemini-test:streamGenerateContent"))
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, `data: {"candidates":[{"content":{"role":"model","parts":[{"text":"Sunny "}]}}]}`+"\n\n")
			fmt.Fprint(w, `data: {"candidates":[{"content":{"role":"model","parts":[{"text":"today."},{"functionCall":{"name":"get_weather","args":{"city":"Rome"}}}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":6}}`+"\n\n")
		})

		ch, err := client.ChatStream(context.Background(), []ai.Message{
			{Role: ai.RoleSystem, Content: "sys"},
			{Role: ai.RoleUser, Content: "weather"},
		})
		require.NoError(t, err)

		deltas, last := drain(ch)
		require.NoError(t, last.Err)
		assert.Equal(t, []string{"Sunny ", "today."}, deltas)
		require.True(t, last.Done)
		assert.Equal(t, "Sunny today.", last.Response.Content)
		assert.Equal(t, "STOP", last.Response.FinishReason)
		assert.Equal(t, ai.Usage{InputTokens: 4, OutputTokens: 6}, last.Response.Usage)
		require.Len(t, last.Response.ToolCalls, 1)
		assert.Equal(t, "call_2_get_weather", last.Response.ToolCalls[0].ID)
		assert.JSONEq(t, `{"city":"Rome"}`, last.Response.ToolCalls[0].Arguments)
	})

	t.Run("blocked prompt", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, `data: {"promptFeedback":{"blockReason":"SAFETY"}}`+"\n\n")
		})

		ch, err := client.ChatStream(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "x"}})
		require.NoError(t, err)

		_, last := drain(ch)
		var blocked *BlockedError
		require.ErrorAs(t, last.Err, &blocked)
		assert.Equal(t, "SAFETY", blocked.Reason)
	})

	t.Run("api errors are categorized", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
		})

		ch, err := client.ChatStream(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "x"}})
		require.NoError(t, err)

		_, last := drain(ch)
		require.Error(t, last.Err)
		assert.True(t, ai.IsTransient(last.Err))
		assert.Equal(t, 503, ai.StatusCodeOf(last.Err))
	})
}

func TestConvertMessages(t *testing.T) {
	msgs := []ai.Message{
		{Role: ai.RoleSystem, Content: "one"},
		{Role: ai.RoleSystem, Content: "two"},
		{Role: ai.RoleUser, Content: "hi"},
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{{ID: "c1", Name: "calculator", Arguments: `{"expression":"2*3"}`}}},
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "c1", Content: "6"}),
	}

	system := systemInstruction(msgs)
	require.NotNil(t, system)
	assert.Equal(t, "one\n\ntwo", system.Parts[0].Text)

	contents := convertMessages(msgs)
	require.Len(t, contents, 3)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
	resp := contents[2].Parts[0].FunctionResponse
	require.NotNil(t, resp)
	assert.Equal(t, "calculator", resp.Name)
	assert.Equal(t, map[string]any{"result": "6"}, resp.Response)
}

func TestConvertSchema(t *testing.T) {
	schema := convertSchema([]byte(`{"type":"object","properties":{"max_results":{"type":"integer","minimum":1,"maximum":20}},"required":["max_results"]}`))
	require.NotNil(t, schema)
	assert.Equal(t, genai.TypeObject, schema.Type)
	prop := schema.Properties["max_results"]
	require.NotNil(t, prop.Minimum)
	assert.Equal(t, 1.0, *prop.Minimum)
	assert.Equal(t, []string{"max_results"}, schema.Required)
	assert.Nil(t, convertSchema(nil))
}
