package a2gate

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("Error includes cause", func(t *testing.T) {
		err := NewTransientError("rate limited", 429, errors.New("slow down"))
		assert.Equal(t, "rate limited: slow down", err.Error())
	})

	t.Run("Error without cause", func(t *testing.T) {
		err := NewPermanentError("bad key", 401, nil)
		assert.Equal(t, "bad key", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("Unwrap exposes cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewUserInputError("bad request", 400, cause)
		assert.True(t, errors.Is(err, cause))
	})
}

func TestCategoryHelpers(t *testing.T) {
	transient := fmt.Errorf("wrapped: %w", NewTransientErrorWithRetry("overloaded", 503, 2*time.Second, nil))
	permanent := NewPermanentError("forbidden", 403, nil)
	userInput := NewUserInputError("invalid", 422, nil)

	assert.True(t, IsTransient(transient))
	assert.False(t, IsTransient(permanent))
	assert.True(t, IsPermanent(permanent))
	assert.True(t, IsUserInput(userInput))
	assert.False(t, IsTransient(errors.New("plain")))

	assert.Equal(t, 503, StatusCodeOf(transient))
	assert.Equal(t, 2*time.Second, RetryAfterOf(transient))
	assert.Zero(t, StatusCodeOf(errors.New("plain")))
}

func TestCategoryForStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorCategory
	}{
		{429, ErrorTransient},
		{500, ErrorTransient},
		{503, ErrorTransient},
		{401, ErrorPermanent},
		{403, ErrorPermanent},
		{400, ErrorUserInput},
		{404, ErrorUserInput},
		{422, ErrorUserInput},
		{418, ErrorPermanent},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategoryForStatus(tt.code))
		})
	}
}

func TestNewStatusError(t *testing.T) {
	t.Run("retry-after forces transient", func(t *testing.T) {
		err := NewStatusError("busy", 400, time.Second, nil)
		assert.True(t, err.Retryable())
		assert.Equal(t, time.Second, err.RetryAfter())
	})

	t.Run("category from status", func(t *testing.T) {
		err := NewStatusError("nope", 401, 0, nil)
		assert.Equal(t, ErrorPermanent, err.Category())
		assert.Equal(t, 401, err.StatusCode())
	})

	tests := []struct {
		code int
		is   func(error) bool
	}{
		{503, IsTransient},
		{429, IsTransient},
		{422, IsUserInput},
		{403, IsPermanent},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d keeps its code", tt.code), func(t *testing.T) {
			cause := errors.New("upstream")
			err := NewStatusError("failed", tt.code, 0, cause)
			assert.True(t, tt.is(err))
			assert.Equal(t, tt.code, StatusCodeOf(err))
			assert.Zero(t, RetryAfterOf(err))
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, ErrorTransient, CategoryOf(fmt.Errorf("x: %w", NewTransientError("busy", 503, nil))))
	assert.Equal(t, ErrorUserInput, CategoryOf(NewUserInputError("bad", 400, nil)))
	assert.Equal(t, ErrorPermanent, CategoryOf(NewPermanentError("no", 401, nil)))
	assert.Empty(t, CategoryOf(errors.New("plain")))
}

func TestRetryAfter(t *testing.T) {
	header := func(v string) http.Header {
		h := http.Header{}
		if v != "" {
			h.Set("Retry-After", v)
		}
		return h
	}

	assert.Zero(t, RetryAfter(header("")))
	assert.Equal(t, 3*time.Second, RetryAfter(header("3")))
	assert.Zero(t, RetryAfter(header("-1")))
	assert.Zero(t, RetryAfter(header("soon")))
	assert.Zero(t, RetryAfter(header(time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat))))

	future := RetryAfter(header(time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)))
	assert.Greater(t, future, 50*time.Minute)
}
