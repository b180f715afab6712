package agui

import (
	"errors"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

// RoleUser is the AG-UI role of user messages.
const RoleUser = "user"

// RunAgentInput is the subset of the AG-UI run request the gateway reads.
// Only the latest user message is used; history is not replayed.
type RunAgentInput struct {
	ThreadID string           `json:"threadId"`
	RunID    string           `json:"runId"`
	Messages []events.Message `json:"messages"`
}

// ErrNoMessages is returned when the input holds no user message with text.
var ErrNoMessages = errors.New("no user message provided")

// Prompt returns the content of the last user message.
func (r *RunAgentInput) Prompt() (string, error) {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		msg := r.Messages[i]
		if msg.Role != RoleUser || msg.Content == nil {
			continue
		}
		if text := strings.TrimSpace(*msg.Content); text != "" {
			return *msg.Content, nil
		}
	}
	return "", ErrNoMessages
}
