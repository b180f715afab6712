package engine

import "errors"

var (
	// ErrMaxStepsReached indicates the model kept calling tools past the step limit.
	ErrMaxStepsReached = errors.New("engine: maximum steps reached")

	// ErrTimeout indicates the per-request timeout was exceeded.
	ErrTimeout = errors.New("engine: timeout exceeded")

	// ErrNoResponse indicates the model stream ended without a final response.
	ErrNoResponse = errors.New("engine: model stream ended without a response")
)
