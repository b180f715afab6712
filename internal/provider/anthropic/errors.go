package anthropic

import (
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/spetersoncode/a2gate"
)

// wrapError categorizes Anthropic API errors by status code and Retry-After.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	var retryAfter time.Duration
	if apiErr.Response != nil {
		retryAfter = ai.RetryAfter(apiErr.Response.Header)
	}
	return ai.NewStatusError(err.Error(), apiErr.StatusCode, retryAfter, err)
}
