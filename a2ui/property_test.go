package a2ui

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestExtractIsTotalAndIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	pieces := gen.OneConstOf(
		Delimiter, "---A2UI_JSON---", "```", "```json", "[", "]", "{", "}",
		`{"beginRendering":{}}`, `{"notAType":1}`, ",", "\n", " ", "null", `"x"`,
	)

	properties.Property("repeated extraction gives the same result", prop.ForAll(
		func(parts []string, noise string) bool {
			text := noise
			for _, p := range parts {
				text += p
			}
			first := Extract(text)
			second := Extract(text)
			return reflect.DeepEqual(first, second)
		},
		gen.SliceOf(pieces),
		gen.AnyString(),
	))

	properties.Property("text without delimiter yields nothing", prop.ForAll(
		func(text string) bool {
			return len(Extract(text)) == 0
		},
		gen.AlphaString(),
	))

	properties.Property("every extracted message has a recognized type", prop.ForAll(
		func(parts []string) bool {
			text := Delimiter
			for _, p := range parts {
				text += p
			}
			for _, m := range Extract(text) {
				if m.Type() == "" {
					return false
				}
			}
			return true
		},
		gen.SliceOf(pieces),
	))

	properties.TestingRun(t)
}
