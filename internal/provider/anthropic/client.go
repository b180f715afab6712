package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/spetersoncode/a2gate"
)

// DefaultModel is used when neither the client nor the request names one.
const DefaultModel = "claude-sonnet-4-5-20250929"

// defaultMaxTokens is required by the Messages API.
const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement ai.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

type config struct {
	model   string
	reqOpts []option.RequestOption
}

// ClientOption configures the Anthropic client.
type ClientOption func(*config)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *config) {
		c.model = model
	}
}

// WithRequestOptions passes extra options to the SDK client.
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(c *config) {
		c.reqOpts = append(c.reqOpts, opts...)
	}
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &config{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, cfg.reqOpts...)...)
	return &Client{
		client: &client,
		model:  cfg.model,
	}
}

// Model returns the default model.
func (c *Client) Model() string { return c.model }

// ChatStream sends a conversation and returns a channel of streaming events.
// The channel closes after a Done or Err event, or when ctx is cancelled.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	// The API has no "none" choice that keeps tools visible; omit tools instead.
	if len(options.Tools) > 0 && options.ToolChoice != ai.ToolChoiceNone {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}

	stream := c.client.Messages.NewStreaming(ctx, params)
	ch := make(chan ai.StreamEvent)

	send := func(ev ai.StreamEvent) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(ch)
		defer stream.Close()
		var acc anthropic.Message

		for stream.Next() {
			event := stream.Current()
			if err := acc.Accumulate(event); err != nil {
				send(ai.StreamEvent{Err: err})
				return
			}

			if event.Type == "content_block_delta" {
				delta := event.AsContentBlockDelta()
				if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" && textDelta.Text != "" {
					if !send(ai.StreamEvent{Delta: textDelta.Text}) {
						return
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(ai.StreamEvent{Err: wrapError(err)})
			return
		}

		var content strings.Builder
		for _, block := range acc.Content {
			if block.Type == "text" {
				content.WriteString(block.Text)
			}
		}
		send(ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      content.String(),
				FinishReason: string(acc.StopReason),
				Usage: ai.Usage{
					InputTokens:  int(acc.Usage.InputTokens),
					OutputTokens: int(acc.Usage.OutputTokens),
				},
				ToolCalls: extractToolCalls(acc.Content),
			},
		})
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
