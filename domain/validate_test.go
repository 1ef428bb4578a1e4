package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Alex7k/websocket-chat/errors"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{
			name:     "Plain text passes through",
			input:    "hello",
			expected: "hello",
		},
		{
			name:     "Outer whitespace is trimmed",
			input:    "  hello there \n",
			expected: "hello there",
		},
		{
			name:  "Empty input is rejected",
			input: "",
			err:   errors.ErrEmptyMessage,
		},
		{
			name:  "Whitespace-only input is rejected",
			input: " \t\n ",
			err:   errors.ErrEmptyMessage,
		},
		{
			name:     "Exactly the maximum length is accepted",
			input:    strings.Repeat("a", MaxMessageLength),
			expected: strings.Repeat("a", MaxMessageLength),
		},
		{
			name:  "One rune over the maximum is rejected",
			input: strings.Repeat("a", MaxMessageLength+1),
			err:   errors.ErrMessageTooLong,
		},
		{
			name:     "Length is counted after trimming",
			input:    "  " + strings.Repeat("a", MaxMessageLength) + "  ",
			expected: strings.Repeat("a", MaxMessageLength),
		},
		{
			name:     "Multi-byte runes count as one character",
			input:    strings.Repeat("é", MaxMessageLength),
			expected: strings.Repeat("é", MaxMessageLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got, err := ValidateText(tt.input)
			if tt.err != nil {
				req.ErrorIs(err, tt.err)
				return
			}
			req.NoError(err)
			req.Equal(tt.expected, got)
		})
	}
}

func TestValidateText_Idempotent(t *testing.T) {
	req := require.New(t)
	once, err := ValidateText("  some text  ")
	req.NoError(err)
	twice, err := ValidateText(once)
	req.NoError(err)
	req.Equal(once, twice)
}

func TestValidateDisplayName(t *testing.T) {
	const fallback = "Swift-Otter-0482"

	tests := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{
			name:     "Absent name yields the fallback",
			input:    "",
			expected: fallback,
		},
		{
			name:     "Blank name yields the fallback",
			input:    "   ",
			expected: fallback,
		},
		{
			name:     "Valid name round-trips trimmed",
			input:    "  Ada ",
			expected: "Ada",
		},
		{
			name:     "Exactly the maximum length is accepted",
			input:    strings.Repeat("x", MaxDisplayNameLength),
			expected: strings.Repeat("x", MaxDisplayNameLength),
		},
		{
			name:  "Over the maximum is rejected",
			input: strings.Repeat("x", MaxDisplayNameLength+1),
			err:   errors.ErrDisplayNameTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got, err := ValidateDisplayName(tt.input, fallback)
			if tt.err != nil {
				req.ErrorIs(err, tt.err)
				return
			}
			req.NoError(err)
			req.Equal(tt.expected, got)
		})
	}
}
