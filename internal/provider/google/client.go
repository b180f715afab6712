package google

import (
	"context"
	"errors"
	"strings"

	ai "github.com/spetersoncode/a2gate"
	"google.golang.org/genai"
)

// DefaultModel is used when neither the client nor the request names one.
const DefaultModel = "gemini-2.5-flash"

// errEmptyStream is reported when the API closes the stream without data.
var errEmptyStream = errors.New("google: stream returned no data")

// Client wraps the Google GenAI SDK to implement ai.ChatProvider. The same
// client serves the Gemini API and Vertex AI backends.
type Client struct {
	client *genai.Client
	model  string
}

type config struct {
	model   string
	baseURL string
}

// ClientOption configures the Google client.
type ClientOption func(*config)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *config) {
		c.model = model
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *config) {
		c.baseURL = url
	}
}

// New creates a Gemini API client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	return newClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, opts)
}

// NewVertex creates a Vertex AI client for project and location.
// Authentication uses Application Default Credentials.
func NewVertex(ctx context.Context, project, location string, opts ...ClientOption) (*Client, error) {
	return newClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  project,
		Location: location,
	}, opts)
}

func newClient(ctx context.Context, cc *genai.ClientConfig, opts []ClientOption) (*Client, error) {
	cfg := &config{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, model: cfg.model}, nil
}

// Model returns the default model.
func (c *Client) Model() string { return c.model }

func buildConfig(messages []ai.Message, options *ai.Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if system := systemInstruction(messages); system != nil {
		config.SystemInstruction = system
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			config.ToolConfig = convertToolChoice(options.ToolChoice)
		}
	}
	return config
}

// ChatStream sends a conversation and returns a channel of streaming events.
// The channel closes after a Done or Err event, or when ctx is cancelled.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	contents := convertMessages(messages)
	config := buildConfig(messages, options)
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

		var content strings.Builder
		var finishReason string
		var usage ai.Usage
		var allParts []*genai.Part
		received := false

		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				send(ai.StreamEvent{Err: wrapError(err)})
				return
			}
			received = true

			if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
				send(ai.StreamEvent{Err: &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}})
				return
			}

			if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
				for _, part := range resp.Candidates[0].Content.Parts {
					allParts = append(allParts, part)
					if part.Text != "" && !part.Thought {
						content.WriteString(part.Text)
						if !send(ai.StreamEvent{Delta: part.Text}) {
							return
						}
					}
				}
				finishReason = string(resp.Candidates[0].FinishReason)
			}

			if resp.UsageMetadata != nil {
				usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
				usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
			}
		}

		if !received {
			send(ai.StreamEvent{Err: errEmptyStream})
			return
		}

		send(ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      content.String(),
				FinishReason: finishReason,
				Usage:        usage,
				ToolCalls:    extractToolCalls(allParts),
			},
		})
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
