package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	ai "github.com/spetersoncode/a2gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastConfig = Config{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     5 * time.Millisecond,
	Multiplier:   2.0,
}

var errTransient = ai.NewTransientError("overloaded", 503, nil)

func TestDo(t *testing.T) {
	t.Run("succeeds first time", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig, nil, func() (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		var events []Event
		calls := 0
		result, err := Do(context.Background(), fastConfig, func(ev Event) { events = append(events, ev) }, func() (string, error) {
			calls++
			if calls < 3 {
				return "", errTransient
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 3, calls)
		require.Len(t, events, 4)
		assert.Equal(t, EventAttemptFailed, events[0].Type)
		assert.Equal(t, EventRetrying, events[1].Type)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		permanent := errors.New("permanent")
		calls := 0
		_, err := Do(context.Background(), fastConfig, nil, func() (int, error) {
			calls++
			return 0, permanent
		})
		assert.Equal(t, permanent, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		var last Event
		calls := 0
		_, err := Do(context.Background(), fastConfig, func(ev Event) { last = ev }, func() (int, error) {
			calls++
			return 0, errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
		assert.Equal(t, EventExhausted, last.Type)
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		_, _ = Do(context.Background(), Config{}, nil, func() (int, error) {
			calls++
			return 0, nil
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("respects cancellation during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := Config{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}
		_, err := Do(ctx, cfg, func(ev Event) {
			if ev.Type == EventRetrying {
				cancel()
			}
		}, func() (int, error) { return 0, errTransient })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("honors retry after when longer", func(t *testing.T) {
		var delay time.Duration
		calls := 0
		_, err := Do(context.Background(), fastConfig, func(ev Event) {
			if ev.Type == EventRetrying {
				delay = ev.Delay
			}
		}, func() (int, error) {
			calls++
			if calls == 1 {
				return 0, ai.NewTransientErrorWithRetry("slow down", 429, 20*time.Millisecond, nil)
			}
			return 1, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 20*time.Millisecond, delay)
	})
}

func streamOf(values ...int) <-chan int {
	ch := make(chan int, len(values))
	for _, v := range values {
		ch <- v
	}
	close(ch)
	return ch
}

// negative values stand for error events.
func errOfInt(v int) error {
	if v < 0 {
		return errTransient
	}
	return nil
}

func drain(ch <-chan int) []int {
	var out []int
	for v := range ch {
		out = append(out, v)
	}
	return out
}

func TestDoStream(t *testing.T) {
	t.Run("passes stream through", func(t *testing.T) {
		ch, err := DoStream(context.Background(), fastConfig, nil, func() (<-chan int, error) {
			return streamOf(1, 2, 3), nil
		}, errOfInt)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, drain(ch))
	})

	t.Run("retries when first event is a transient error", func(t *testing.T) {
		calls := 0
		ch, err := DoStream(context.Background(), fastConfig, nil, func() (<-chan int, error) {
			calls++
			if calls == 1 {
				return streamOf(-1), nil
			}
			return streamOf(7, 8), nil
		}, errOfInt)
		require.NoError(t, err)
		assert.Equal(t, []int{7, 8}, drain(ch))
		assert.Equal(t, 2, calls)
	})

	t.Run("does not retry after the first event", func(t *testing.T) {
		calls := 0
		ch, err := DoStream(context.Background(), fastConfig, nil, func() (<-chan int, error) {
			calls++
			return streamOf(1, -1), nil
		}, errOfInt)
		require.NoError(t, err)
		assert.Equal(t, []int{1, -1}, drain(ch))
		assert.Equal(t, 1, calls)
	})

	t.Run("retries open errors", func(t *testing.T) {
		calls := 0
		ch, err := DoStream(context.Background(), fastConfig, nil, func() (<-chan int, error) {
			calls++
			if calls < 3 {
				return nil, errTransient
			}
			return streamOf(5), nil
		}, errOfInt)
		require.NoError(t, err)
		assert.Equal(t, []int{5}, drain(ch))
	})

	t.Run("permanent first event error is returned", func(t *testing.T) {
		permanent := ai.NewPermanentError("bad key", 401, nil)
		_, err := DoStream(context.Background(), fastConfig, nil, func() (<-chan int, error) {
			return streamOf(-1), nil
		}, func(v int) error { return permanent })
		assert.ErrorIs(t, err, permanent)
	})

	t.Run("empty stream closes", func(t *testing.T) {
		ch, err := DoStream(context.Background(), fastConfig, nil, func() (<-chan int, error) {
			return streamOf(), nil
		}, errOfInt)
		require.NoError(t, err)
		assert.Empty(t, drain(ch))
	})
}
