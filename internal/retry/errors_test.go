package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	ai "github.com/spetersoncode/a2gate"
	"github.com/stretchr/testify/assert"
)

type mockAPIError struct {
	code int
}

func (e *mockAPIError) Error() string   { return fmt.Sprintf("api error %d", e.code) }
func (e *mockAPIError) StatusCode() int { return e.code }

type mockNetError struct {
	msg     string
	timeout bool
}

func (e *mockNetError) Error() string   { return e.msg }
func (e *mockNetError) Timeout() bool   { return e.timeout }
func (e *mockNetError) Temporary() bool { return false }

var _ net.Error = (*mockNetError)(nil)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"status 429", &mockAPIError{code: 429}, true},
		{"status 503", &mockAPIError{code: 503}, true},
		{"status 400", &mockAPIError{code: 400}, false},
		{"status 401", &mockAPIError{code: 401}, false},
		{"net timeout", &mockNetError{msg: "i/o", timeout: true}, true},
		{"net other", &mockNetError{msg: "invalid address"}, false},
		{"connection refused errno", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"message pattern", errors.New("upstream said: Too Many Requests"), true},
		{"plain error", errors.New("permanent"), false},
		{"cancelled", fmt.Errorf("wrapped: %w", context.Canceled), false},
		{"deadline", context.DeadlineExceeded, false},
		{"categorized transient", ai.NewTransientError("overloaded", 529, nil), true},
		{"categorized permanent wins over pattern", ai.NewPermanentError("timeout while authenticating", 401, nil), false},
		{"wrapped categorized", fmt.Errorf("call: %w", ai.NewUserInputError("bad", 400, nil)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}
