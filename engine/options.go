package engine

import (
	"log/slog"
	"time"

	ai "github.com/spetersoncode/a2gate"
)

// Options contains configuration for the engine loop.
type Options struct {
	// MaxSteps limits the number of model turns per request.
	// Set to 0 for unlimited (not recommended). Default is 10.
	MaxSteps int

	// Timeout bounds a whole request. 0 means only the caller's context applies.
	Timeout time.Duration

	// HandlerTimeout bounds each tool handler. Default is 30 seconds.
	HandlerTimeout time.Duration

	// ParallelToolCalls runs the tool calls of one turn concurrently.
	// Default is true.
	ParallelToolCalls bool

	// SystemPrompt is sent as the first message of every request.
	SystemPrompt string

	// ChatOptions are passed through to the chat client on every turn.
	ChatOptions []ai.Option

	Logger *slog.Logger
}

// Option is a functional option for configuring the engine.
type Option func(*Options)

// WithMaxSteps sets the maximum number of model turns per request.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithTimeout sets a deadline for each request.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHandlerTimeout sets the timeout for each individual tool handler.
// Set to 0 for no per-handler timeout.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandlerTimeout = d
	}
}

// WithParallelToolCalls enables or disables concurrent tool execution.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.ParallelToolCalls = enabled
	}
}

// WithSystemPrompt sets the system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// WithChatOptions passes options through to the chat client.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithTemperature is a convenience option to set temperature for chat calls.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithTemperature(t))
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxSteps:          10,
		HandlerTimeout:    30 * time.Second,
		ParallelToolCalls: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
