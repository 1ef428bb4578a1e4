package domain

import (
	"strings"

	"github.com/Alex7k/websocket-chat/errors"
)

const (
	MaxMessageLength     = 1000
	MaxDisplayNameLength = 64
)

// ValidateText trims outer whitespace and enforces the 1..MaxMessageLength
// rune bounds. It is pure and idempotent: validating an already trimmed
// string returns the same string.
func ValidateText(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.ErrEmptyMessage
	}
	if len([]rune(trimmed)) > MaxMessageLength {
		return "", errors.ErrMessageTooLong
	}
	return trimmed, nil
}

// ValidateDisplayName falls back to the caller-provided default when the
// input is absent or blank. A trimmed name longer than MaxDisplayNameLength
// runes is rejected.
func ValidateDisplayName(raw, fallback string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, nil
	}
	if len([]rune(trimmed)) > MaxDisplayNameLength {
		return "", errors.ErrDisplayNameTooLong
	}
	return trimmed, nil
}
