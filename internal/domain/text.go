package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TextInput is either a single string or an ordered sequence of strings.
// The zero value is the empty text.
type TextInput struct {
	text    string
	lines   []string
	isLines bool
}

// TextOf wraps a single string.
func TextOf(s string) TextInput { return TextInput{text: s} }

// LinesOf wraps an ordered sequence, e.g. the pages of an extracted PDF.
func LinesOf(lines []string) TextInput {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return TextInput{lines: cp, isLines: true}
}

// IsSequence reports whether the input was given as a sequence.
func (t TextInput) IsSequence() bool { return t.isLines }

// Normalize reduces the input to one document string. Sequences are joined
// with single spaces in their original order.
func (t TextInput) Normalize() string {
	if t.isLines {
		return strings.Join(t.lines, " ")
	}
	return t.text
}

// String implements fmt.Stringer.
func (t TextInput) String() string { return t.Normalize() }

// UnmarshalJSON accepts a string, an array of strings, or a scalar that is
// kept as its literal JSON text. Objects and mixed arrays are rejected.
func (t *TextInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = TextInput{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("text: %w", err)
		}
		*t = TextOf(s)
	case '[':
		var lines []string
		if err := json.Unmarshal(data, &lines); err != nil {
			return fmt.Errorf("text sequence must contain only strings: %w", ErrInvalidRequest)
		}
		*t = LinesOf(lines)
	case '{':
		return fmt.Errorf("text must be a string or an array of strings: %w", ErrInvalidRequest)
	default:
		*t = TextOf(string(data))
	}
	return nil
}

// MarshalJSON writes the normalized form.
func (t TextInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Normalize())
}
