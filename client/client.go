package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	ai "github.com/spetersoncode/a2gate"
	"github.com/spetersoncode/a2gate/chat"
	"github.com/spetersoncode/a2gate/internal/provider/anthropic"
	"github.com/spetersoncode/a2gate/internal/provider/google"
	"github.com/spetersoncode/a2gate/internal/provider/openai"
	"github.com/spetersoncode/a2gate/internal/retry"
)

// APIKeys holds API keys for different providers.
// Only the key of the configured provider is required.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Config holds configuration for creating a Client.
type Config struct {
	// Provider selects the backend.
	Provider ai.Provider

	// Model overrides the provider's default model.
	Model string

	APIKeys APIKeys

	// OpenAIBaseURL points the OpenAI provider at a compatible endpoint.
	OpenAIBaseURL string

	// VertexProject and VertexLocation configure the vertex provider.
	VertexProject  string
	VertexLocation string

	// RetryConfig configures retries when opening a stream.
	// If nil, uses retry.DefaultConfig().
	RetryConfig *retry.Config

	// Logger receives retry and request logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// ErrMissingAPIKey is returned when the configured provider has no
// credentials.
type ErrMissingAPIKey struct {
	Provider string
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrUnsupportedProvider is returned for an unknown provider name.
type ErrUnsupportedProvider struct {
	Provider ai.Provider
}

func (e *ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("unsupported provider: %q", e.Provider)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// Client streams chat turns from one provider.
// The provider client is lazily initialized when first needed.
type Client struct {
	cfg             Config
	retryConfig     retry.Config
	logger          *slog.Logger
	defaultChatOpts []ai.Option

	mu       sync.RWMutex
	provider ai.ChatProvider
	initErr  error
}

// New creates a client with the given configuration.
func New(cfg Config, opts ...ClientOption) *Client {
	retryConfig := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:         cfg,
		retryConfig: retryConfig,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithProvider creates a client around an already constructed provider.
// The provider name in cfg is only used for logging.
func NewWithProvider(p ai.ChatProvider, cfg Config, opts ...ClientOption) *Client {
	c := New(cfg, opts...)
	c.provider = p
	return c
}

// Provider returns the configured provider name.
func (c *Client) Provider() ai.Provider { return c.cfg.Provider }

// getProvider returns the chat provider, initializing it if needed.
// A failed initialization is remembered.
func (c *Client) getProvider(ctx context.Context) (ai.ChatProvider, error) {
	c.mu.RLock()
	if c.provider != nil || c.initErr != nil {
		defer c.mu.RUnlock()
		return c.provider, c.initErr
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.provider != nil || c.initErr != nil {
		return c.provider, c.initErr
	}

	c.provider, c.initErr = c.build(ctx)
	return c.provider, c.initErr
}

func (c *Client) build(ctx context.Context) (ai.ChatProvider, error) {
	cfg := c.cfg
	switch cfg.Provider {
	case ai.ProviderAnthropic:
		if cfg.APIKeys.Anthropic == "" {
			return nil, &ErrMissingAPIKey{Provider: cfg.Provider.String(), Model: cfg.Model}
		}
		var opts []anthropic.ClientOption
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		return anthropic.New(cfg.APIKeys.Anthropic, opts...), nil

	case ai.ProviderOpenAI:
		// Local OpenAI-compatible servers often need no key.
		if cfg.APIKeys.OpenAI == "" && cfg.OpenAIBaseURL == "" {
			return nil, &ErrMissingAPIKey{Provider: cfg.Provider.String(), Model: cfg.Model}
		}
		var opts []openai.ClientOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return openai.New(cfg.APIKeys.OpenAI, opts...), nil

	case ai.ProviderGoogle:
		if cfg.APIKeys.Google == "" {
			return nil, &ErrMissingAPIKey{Provider: cfg.Provider.String(), Model: cfg.Model}
		}
		p, err := google.New(ctx, cfg.APIKeys.Google, googleOpts(cfg)...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google client: %w", err)
		}
		return p, nil

	case ai.ProviderVertex:
		if cfg.VertexProject == "" || cfg.VertexLocation == "" {
			return nil, fmt.Errorf("vertex provider requires project and location")
		}
		p, err := google.NewVertex(ctx, cfg.VertexProject, cfg.VertexLocation, googleOpts(cfg)...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Vertex client: %w", err)
		}
		return p, nil

	default:
		return nil, &ErrUnsupportedProvider{Provider: cfg.Provider}
	}
}

func googleOpts(cfg Config) []google.ClientOption {
	if cfg.Model == "" {
		return nil
	}
	return []google.ClientOption{google.WithModel(cfg.Model)}
}

// ChatStream sends a conversation and returns a channel of streaming events.
// Opening the stream, and a failure reported as its first event, are retried
// on transient errors. Errors after the first event are passed through.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	p, err := c.getProvider(ctx)
	if err != nil {
		return nil, err
	}

	// Prepend default options so per-request options override them
	opts = append(append([]ai.Option(nil), c.defaultChatOpts...), opts...)

	logger := c.logger.With("provider", c.cfg.Provider.String())
	start := time.Now()

	ch, err := retry.DoStream(ctx, c.retryConfig, c.observer(logger), func() (<-chan ai.StreamEvent, error) {
		return p.ChatStream(ctx, messages, opts...)
	}, func(ev ai.StreamEvent) error {
		return ev.Err
	})
	if err != nil {
		logger.Error("chat stream failed",
			append(errorAttrs(err), "duration_ms", time.Since(start).Milliseconds())...,
		)
		return nil, err
	}
	logger.Debug("chat stream opened", "duration_ms", time.Since(start).Milliseconds())
	return ch, nil
}

func (c *Client) observer(logger *slog.Logger) retry.Observer {
	return func(ev retry.Event) {
		switch ev.Type {
		case retry.EventRetrying:
			logger.Warn("retrying chat stream",
				append(errorAttrs(ev.Err),
					"attempt", ev.Attempt,
					"max_attempts", ev.MaxAttempts,
					"delay_ms", ev.Delay.Milliseconds(),
				)...,
			)
		case retry.EventExhausted:
			logger.Warn("chat stream retries exhausted",
				append(errorAttrs(ev.Err), "attempts", ev.Attempt)...,
			)
		}
	}
}

// errorAttrs describes a provider failure for logging.
func errorAttrs(err error) []any {
	attrs := []any{"error", err}
	if cat := ai.CategoryOf(err); cat != "" {
		attrs = append(attrs, "category", string(cat))
	}
	if code := ai.StatusCodeOf(err); code != 0 {
		attrs = append(attrs, "status_code", code)
	}
	if d := ai.RetryAfterOf(err); d > 0 {
		attrs = append(attrs, "retry_after_ms", d.Milliseconds())
	}
	return attrs
}

var _ chat.Client = (*Client)(nil)
