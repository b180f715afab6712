package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		ev   Upstream
		kind Kind
		run  string
	}{
		{ModelStart{RunID: "r1"}, KindModelStart, "r1"},
		{ModelStreamChunk{RunID: "r2", Text: "hi"}, KindModelStream, "r2"},
		{ToolStart{RunID: "r3", Name: "calculator"}, KindToolStart, "r3"},
		{ToolEnd{RunID: "r4", Output: "42"}, KindToolEnd, "r4"},
		{Other{RunID: "r5", Name: "on_chain_start"}, KindOther, "r5"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.ev.Kind())
			assert.Equal(t, tt.run, tt.ev.Run())
		})
	}
}

func TestFromSlice(t *testing.T) {
	t.Run("yields events then error", func(t *testing.T) {
		boom := errors.New("boom")
		var got []Upstream
		var gotErr error
		for ev, err := range FromSlice([]Upstream{ModelStart{RunID: "a"}, ModelStreamChunk{RunID: "a", Text: "x"}}, boom) {
			if err != nil {
				gotErr = err
				break
			}
			got = append(got, ev)
		}
		require.Len(t, got, 2)
		assert.ErrorIs(t, gotErr, boom)
	})

	t.Run("stops when consumer breaks", func(t *testing.T) {
		count := 0
		for range FromSlice([]Upstream{ModelStart{}, ModelStart{}, ModelStart{}}, nil) {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}

func TestValue(t *testing.T) {
	t.Run("dereferences pointer variants", func(t *testing.T) {
		assert.Equal(t, ModelStart{RunID: "a"}, Value(&ModelStart{RunID: "a"}))
		assert.Equal(t, ModelStreamChunk{RunID: "a", Text: "x"}, Value(&ModelStreamChunk{RunID: "a", Text: "x"}))
		assert.Equal(t, ToolStart{RunID: "t"}, Value(&ToolStart{RunID: "t"}))
		assert.Equal(t, ToolEnd{RunID: "t"}, Value(&ToolEnd{RunID: "t"}))
		assert.Equal(t, Other{Name: "x"}, Value(&Other{Name: "x"}))
	})

	t.Run("keeps values", func(t *testing.T) {
		assert.Equal(t, ModelStart{RunID: "a"}, Value(ModelStart{RunID: "a"}))
	})

	t.Run("nil pointers become nil", func(t *testing.T) {
		assert.Nil(t, Value((*ToolEnd)(nil)))
		assert.Nil(t, Value(nil))
	})
}
