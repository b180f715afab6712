package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	ai "github.com/spetersoncode/a2gate"
	"github.com/spetersoncode/a2gate/chat"
	"github.com/spetersoncode/a2gate/event"
	"github.com/spetersoncode/a2gate/tool"
)

// errStopped means the consumer stopped ranging over the stream.
var errStopped = errors.New("engine: consumer stopped")

// Engine orchestrates tool-calling conversations.
// It is safe for concurrent use; each StartStream call is independent.
type Engine struct {
	chatClient chat.Client
	registry   *tool.Registry
	options    *Options
}

// New creates an Engine with the given chat client and tool registry.
// A nil registry means no tools are offered to the model.
func New(c chat.Client, registry *tool.Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = tool.NewRegistry()
	}
	return &Engine{
		chatClient: c,
		registry:   registry,
		options:    ApplyOptions(opts...),
	}
}

// Options returns the resolved engine options.
func (e *Engine) Options() Options { return *e.options }

// StartStream runs the loop for one user message and returns its events.
// Nothing happens until the stream is ranged over. Breaking out of the range
// cancels the in-flight model call and any running tools.
//
// conversationID is only used for logging.
func (e *Engine) StartStream(ctx context.Context, message, conversationID string) event.Stream {
	return func(yield func(event.Upstream, error) bool) {
		var cancel context.CancelFunc
		if e.options.Timeout > 0 {
			ctx, cancel = context.WithTimeoutCause(ctx, e.options.Timeout, ErrTimeout)
		} else {
			ctx, cancel = context.WithCancel(ctx)
		}
		defer cancel()

		r := &run{
			engine: e,
			yield:  yield,
			logger: e.options.Logger.With("conversation_id", conversationID),
		}
		err := r.loop(ctx, message)
		if err != nil && !errors.Is(err, errStopped) {
			r.logger.Warn("engine run failed", "error", err, "steps", r.steps)
			yield(nil, err)
		}
	}
}

// run is the state of one StartStream call.
type run struct {
	engine *Engine
	yield  func(event.Upstream, error) bool
	logger *slog.Logger
	steps  int
}

func (r *run) emit(ev event.Upstream) error {
	if !r.yield(ev, nil) {
		return errStopped
	}
	return nil
}

func (r *run) loop(ctx context.Context, message string) error {
	options := r.engine.options

	history := make([]ai.Message, 0, 2)
	if options.SystemPrompt != "" {
		history = append(history, ai.Message{Role: ai.RoleSystem, Content: options.SystemPrompt})
	}
	history = append(history, ai.Message{Role: ai.RoleUser, Content: message})

	chatOpts := options.ChatOptions
	if r.engine.registry.Len() > 0 {
		chatOpts = append([]ai.Option{ai.WithTools(r.engine.registry.Tools())}, chatOpts...)
	}

	var usage ai.Usage
	for {
		if options.MaxSteps > 0 && r.steps >= options.MaxSteps {
			return fmt.Errorf("%w (%d)", ErrMaxStepsReached, options.MaxSteps)
		}
		r.steps++

		response, err := r.turn(ctx, history, chatOpts)
		if err != nil {
			return err
		}
		usage = usage.Add(response.Usage)

		if !response.HasToolCalls() {
			r.logger.Debug("engine run complete",
				"steps", r.steps,
				"input_tokens", usage.InputTokens,
				"output_tokens", usage.OutputTokens,
			)
			return nil
		}

		history = append(history, ai.Message{
			Role:      ai.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		results, err := r.runTools(ctx, response.ToolCalls)
		if err != nil {
			return err
		}
		history = append(history, ai.NewToolResultMessage(results...))
	}
}

// turn streams one model call and returns its final response.
func (r *run) turn(ctx context.Context, history []ai.Message, chatOpts []ai.Option) (*ai.Response, error) {
	runID := uuid.NewString()
	if err := r.emit(event.ModelStart{RunID: runID}); err != nil {
		return nil, err
	}

	stream, err := r.engine.chatClient.ChatStream(ctx, history, chatOpts...)
	if err != nil {
		return nil, contextCause(ctx, err)
	}

	var response *ai.Response
	for ev := range stream {
		if ev.Err != nil {
			return nil, contextCause(ctx, ev.Err)
		}
		if ev.Delta != "" {
			if err := r.emit(event.ModelStreamChunk{RunID: runID, Text: ev.Delta}); err != nil {
				return nil, err
			}
		}
		if ev.Done {
			response = ev.Response
		}
	}

	if response == nil {
		return nil, contextCause(ctx, ErrNoResponse)
	}
	return response, nil
}

// runTools executes the calls of one turn and returns results in call order.
func (r *run) runTools(ctx context.Context, calls []ai.ToolCall) ([]ai.ToolResult, error) {
	results := make([]ai.ToolResult, len(calls))
	runIDs := make([]string, len(calls))
	for i := range calls {
		runIDs[i] = uuid.NewString()
	}

	if !r.engine.options.ParallelToolCalls || len(calls) == 1 {
		for i, call := range calls {
			if err := r.emit(toolStart(runIDs[i], call)); err != nil {
				return nil, err
			}
			results[i] = r.executeTool(ctx, call)
			if err := r.emit(event.ToolEnd{RunID: runIDs[i], Name: call.Name, Output: results[i]}); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	for i, call := range calls {
		if err := r.emit(toolStart(runIDs[i], call)); err != nil {
			return nil, err
		}
	}

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(idx int, call ai.ToolCall) {
			defer wg.Done()
			results[idx] = r.executeTool(ctx, call)
		}(i, call)
	}
	wg.Wait()

	for i, call := range calls {
		if err := r.emit(event.ToolEnd{RunID: runIDs[i], Name: call.Name, Output: results[i]}); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (r *run) executeTool(ctx context.Context, call ai.ToolCall) ai.ToolResult {
	execCtx := ctx
	if timeout := r.engine.options.HandlerTimeout; timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := r.engine.registry.Execute(execCtx, call)
	if err != nil {
		// Tool not found or other registry error
		result = ai.ToolResult{
			ToolCallID: call.ID,
			Content:    err.Error(),
			IsError:    true,
		}
	}

	r.logger.Debug("tool executed",
		"tool", call.Name,
		"is_error", result.IsError,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}

func toolStart(runID string, call ai.ToolCall) event.ToolStart {
	var args map[string]any
	if strings.TrimSpace(call.Arguments) != "" {
		args = call.ArgumentMap()
	}
	return event.ToolStart{RunID: runID, Name: call.Name, Args: args}
}

// contextCause prefers the context's cancellation cause over err once the
// context is done, so timeouts surface as ErrTimeout.
func contextCause(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return err
}
