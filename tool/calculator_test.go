package tool

import (
	"context"
	"testing"

	ai "github.com/spetersoncode/a2gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		expression string
		expected   string
	}{
		{"1 + 1", "2"},
		{"(3 + 4) * 2", "14"},
		{"7 / 2", "3.5"},
		{"2 ** 10", "1024"},
		{"10 % 3", "1"},
		{"  -5 + 2  ", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, err := Calculate(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	for _, expression := range []string{"", "1 +", "undefinedVar * 2"} {
		t.Run(expression, func(t *testing.T) {
			_, err := Calculate(expression)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "calculation error")
		})
	}
}

func TestCalculatorTool(t *testing.T) {
	registry := NewRegistry().Add(Calculator())

	result, err := registry.Execute(context.Background(), ai.ToolCall{
		ID:        "c1",
		Name:      "calculator",
		Arguments: `{"expression": "6 * 7"}`,
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "42", result.Content)

	result, err = registry.Execute(context.Background(), ai.ToolCall{
		ID:        "c2",
		Name:      "calculator",
		Arguments: `{"expression": "6 *"}`,
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
