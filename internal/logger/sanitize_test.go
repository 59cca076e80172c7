package logger

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeTaskText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "Buy milk", "Buy milk"},
		{"strips control characters", "Buy\x00milk\x1b[31m", "Buymilk[31m"},
		{"keeps spaces and newlines", "line one\nline two", "line one\nline two"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizeTaskText(tt.input); got != tt.expected {
				t.Errorf("SanitizeTaskText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}

	long := strings.Repeat("a", MaxTaskTextLength+50)
	got := SanitizeTaskText(long)
	if len(got) != MaxTaskTextLength+len("...") {
		t.Errorf("long text sanitized to %d bytes, want %d", len(got), MaxTaskTextLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated text should carry an ellipsis")
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError(nil); got != "" {
		t.Errorf("SanitizeError(nil) = %q, want empty", got)
	}

	err := errors.New("failed to parse \x00\x07input")
	if got := SanitizeError(err); got != "failed to parse input" {
		t.Errorf("SanitizeError() = %q", got)
	}

	long := errors.New(strings.Repeat("x", MaxErrorMessageLength+10))
	if got := SanitizeError(long); len(got) != MaxErrorMessageLength+len("...") {
		t.Errorf("long error sanitized to %d bytes", len(got))
	}
}
