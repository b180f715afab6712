package openai

import (
	"errors"
	"time"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/a2gate"
)

// wrapError categorizes OpenAI API errors by status code and Retry-After.
// Other errors (network failures) are returned unchanged for the retry
// heuristics to classify.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	var retryAfter time.Duration
	if apiErr.Response != nil {
		retryAfter = ai.RetryAfter(apiErr.Response.Header)
	}
	return ai.NewStatusError(err.Error(), apiErr.StatusCode, retryAfter, err)
}
