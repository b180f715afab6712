// Package a2ui recovers A2UI messages embedded in generated text.
//
// A response that carries UI looks like prose, then a line holding the
// ---a2ui_JSON--- marker, then a JSON array of messages, optionally wrapped
// in a fenced code block. Extraction is tolerant of noise around the array
// and strict about the array itself: one malformed element rejects the whole
// batch.
package a2ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Delimiter separates prose from the embedded message array. Matching is
// case-insensitive.
const Delimiter = "---a2ui_JSON---"

// Recognized message type keys.
const (
	TypeSurfaceUpdate   = "surfaceUpdate"
	TypeDataModelUpdate = "dataModelUpdate"
	TypeBeginRendering  = "beginRendering"
	TypeDeleteSurface   = "deleteSurface"
)

// MessageTypes lists the recognized keys in precedence order.
var MessageTypes = []string{TypeSurfaceUpdate, TypeDataModelUpdate, TypeBeginRendering, TypeDeleteSurface}

const fence = "```"

var (
	// ErrNoDelimiter means the text carries no embedded messages.
	ErrNoDelimiter = errors.New("a2ui: delimiter not found")
	// ErrNoJSON means nothing bracket-terminated follows the delimiter.
	ErrNoJSON = errors.New("a2ui: no JSON after delimiter")
	// ErrInvalidJSON means the captured span did not parse.
	ErrInvalidJSON = errors.New("a2ui: invalid JSON")
	// ErrNotArray means the payload parsed but is not an array.
	ErrNotArray = errors.New("a2ui: payload is not an array")
)

// InvalidMessageError reports the first array element that failed validation.
type InvalidMessageError struct {
	Index  int
	Reason string
}

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("a2ui: message %d: %s", e.Index, e.Reason)
}

// Message is one validated A2UI message.
type Message map[string]any

// Type returns the first recognized type key present in the message.
func (m Message) Type() string {
	for _, t := range MessageTypes {
		if _, ok := m[t]; ok {
			return t
		}
	}
	return ""
}

// Extract returns the embedded messages in text, or nil when there are none
// or any part of the payload is malformed.
func Extract(text string) []Message {
	msgs, err := Parse(text)
	if err != nil {
		return nil
	}
	return msgs
}

// Parse is Extract with the reason for an empty result. Only the first
// delimiter in text is considered.
func Parse(text string) ([]Message, error) {
	rest, ok := afterDelimiter(text)
	if !ok {
		return nil, ErrNoDelimiter
	}

	candidate, ok := trimTrailing(strings.TrimSpace(captureSpan(rest)))
	if !ok {
		return nil, ErrNoJSON
	}

	raw, err := decode(candidate)
	if err != nil {
		return nil, err
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, ErrNotArray
	}

	msgs := make([]Message, 0, len(items))
	for i, item := range items {
		msg, err := validate(i, item)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// afterDelimiter returns the text following the first delimiter.
func afterDelimiter(text string) (string, bool) {
	i := indexFold(text, Delimiter)
	if i < 0 {
		return "", false
	}
	return text[i+len(Delimiter):], true
}

// captureSpan drops an optional fence opener and returns everything up to
// the first fence closer, second delimiter, or end of text.
func captureSpan(rest string) string {
	rest = stripFenceOpener(rest)

	end := len(rest)
	if i := strings.Index(rest, fence); i >= 0 && i < end {
		end = i
	}
	if i := indexFold(rest, Delimiter); i >= 0 && i < end {
		end = i
	}
	return rest[:end]
}

func stripFenceOpener(rest string) string {
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	if !strings.HasPrefix(trimmed, fence) {
		return rest
	}
	trimmed = trimmed[len(fence):]
	if hasPrefixFold(trimmed, "json") {
		trimmed = trimmed[len("json"):]
	}
	return strings.TrimLeft(trimmed, " \t\r\n")
}

// trimTrailing cuts span after its last closing bracket or brace.
func trimTrailing(span string) (string, bool) {
	end := max(strings.LastIndexByte(span, ']'), strings.LastIndexByte(span, '}'))
	if end < 0 {
		return "", false
	}
	return span[:end+1], true
}

func decode(candidate string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after value", ErrInvalidJSON)
	}
	return raw, nil
}

func validate(index int, item any) (Message, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return nil, &InvalidMessageError{Index: index, Reason: fmt.Sprintf("expected object, got %s", jsonKind(item))}
	}
	msg := Message(obj)
	if msg.Type() == "" {
		return nil, &InvalidMessageError{Index: index, Reason: "no recognized message type"}
	}
	return msg, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// indexFold is strings.Index with ASCII case folding. The delimiter is
// ASCII, so byte offsets in s stay valid.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if hasPrefixFold(s[i:], substr) {
			return i
		}
	}
	return -1
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if lowerASCII(s[i]) != lowerASCII(prefix[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
