package google

import (
	"errors"
	"fmt"

	ai "github.com/spetersoncode/a2gate"
	"google.golang.org/genai"
)

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}

// wrapError categorizes GenAI API errors by status code.
// genai.APIError does not expose headers, so there is no Retry-After.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return ai.NewStatusError(err.Error(), apiErr.Code, 0, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return ai.NewStatusError(err.Error(), apiErrPtr.Code, 0, err)
	}
	return err
}
