package retry

import (
	"context"
	"time"

	ai "github.com/spetersoncode/a2gate"
)

// effectiveDelay returns the configured delay, or the server's Retry-After
// hint when that is longer.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	if hint := ai.RetryAfterOf(err); hint > configured {
		return hint
	}
	return configured
}

// loop runs attempt until it succeeds, fails permanently, or attempts run
// out. It sleeps between attempts and stops early when ctx is done.
func loop(ctx context.Context, cfg Config, observe Observer, attempt func() error) error {
	maxAttempts := max(cfg.MaxAttempts, 1)
	var lastErr error

	for i := 0; i < maxAttempts; i++ {
		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err

		retryable := IsTransient(err)
		observe.emit(Event{
			Type:        EventAttemptFailed,
			Attempt:     i + 1,
			MaxAttempts: maxAttempts,
			Err:         err,
			Retryable:   retryable,
		})
		if !retryable {
			return err
		}

		if i < maxAttempts-1 {
			delay := effectiveDelay(cfg.Delay(i), err)
			observe.emit(Event{
				Type:        EventRetrying,
				Attempt:     i + 1,
				MaxAttempts: maxAttempts,
				Err:         err,
				Delay:       delay,
				Retryable:   true,
			})

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	observe.emit(Event{
		Type:        EventExhausted,
		Attempt:     maxAttempts,
		MaxAttempts: maxAttempts,
		Err:         lastErr,
	})
	return lastErr
}

// Do executes fn with retry logic.
// Returns the result on success, or the last error if all attempts fail.
func Do[T any](ctx context.Context, cfg Config, observe Observer, fn func() (T, error)) (T, error) {
	var result T
	err := loop(ctx, cfg, observe, func() error {
		var err error
		result, err = fn()
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// DoStream opens a stream with fn and retries while the stream fails before
// delivering anything: either fn returns an error or the first element
// carries one (as reported by errOf). Once a good first element arrives the
// stream is handed to the caller as is, and later failures are not retried.
func DoStream[T any](ctx context.Context, cfg Config, observe Observer, fn func() (<-chan T, error), errOf func(T) error) (<-chan T, error) {
	var (
		first  T
		ch     <-chan T
		closed bool
	)

	err := loop(ctx, cfg, observe, func() error {
		var err error
		ch, err = fn()
		if err != nil {
			return err
		}

		select {
		case v, ok := <-ch:
			if !ok {
				closed = true
				return nil
			}
			if err := errOf(v); err != nil {
				return err
			}
			first = v
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil {
		return nil, err
	}

	out := make(chan T)
	go func() {
		defer close(out)
		if closed {
			return
		}
		select {
		case out <- first:
		case <-ctx.Done():
			return
		}
		for v := range ch {
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
