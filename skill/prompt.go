package skill

import (
	"strings"

	"github.com/spetersoncode/a2gate/a2ui"
)

// DefaultPrompt is used when no skill could be loaded.
const DefaultPrompt = "You are a helpful assistant."

// SystemPrompt builds the system prompt for s. The prompt asks the model to
// put conversational text first and the A2UI JSON array after the delimiter.
// A nil skill yields DefaultPrompt.
func SystemPrompt(s *Skill) string {
	if s == nil {
		return DefaultPrompt
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant that can generate rich UI interfaces using A2UI protocol.\n\n")
	b.WriteString(s.Content)
	b.WriteString(`

## IMPORTANT OUTPUT FORMAT

When generating UI, your output MUST follow this format:

[Your conversational response text]

` + a2ui.Delimiter + `

[A2UI JSON array]

Rules:
- Always provide conversational text BEFORE the ` + a2ui.Delimiter + ` delimiter
- The A2UI JSON part must be a valid JSON array (no markdown code blocks)
- Do NOT wrap the JSON in ` + "```json" + ` code blocks

## When to Generate UI

Generate A2UI JSON when:
- User asks for visual displays, dashboards, cards, or interactive elements
- User requests data visualization (weather, charts, lists, etc.)
- User wants forms, buttons, or UI components
`)
	return b.String()
}
