package util

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world", 8, "hello..."},
		{"tiny max collapses to ellipsis", "hello", 3, "..."},
		{"unicode counted by rune", "héllo wörld", 8, "héllo..."},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateANSI(t *testing.T) {
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Render("hello world")

	got := TruncateANSI(styled, 8)
	if lipgloss.Width(got) > 8 {
		t.Errorf("visible width = %d, want <= 8", lipgloss.Width(got))
	}
	if !strings.HasSuffix(stripEllipsisCheck(got), "...") {
		t.Errorf("truncated string should end with ellipsis: %q", got)
	}

	// Short strings pass through untouched, escape codes included.
	if got := TruncateANSI(styled, 40); got != styled {
		t.Errorf("short styled string should be unchanged")
	}
	if got := TruncateANSI("hi", 3); got != "..." {
		t.Errorf("TruncateANSI(hi, 3) = %q", got)
	}
}

// stripEllipsisCheck drops a trailing ANSI reset so the ellipsis suffix is
// visible to HasSuffix.
func stripEllipsisCheck(s string) string {
	return strings.TrimSuffix(s, "\x1b[0m")
}

func TestTailLines(t *testing.T) {
	input := "a\nb\nc\nd"

	tests := []struct {
		name     string
		maxLines int
		want     string
	}{
		{"zero keeps everything", 0, input},
		{"negative keeps everything", -1, input},
		{"larger than input keeps everything", 10, input},
		{"keeps last lines", 2, "c\nd"},
		{"single line", 1, "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TailLines(input, tt.maxLines); got != tt.want {
				t.Errorf("TailLines(%d) = %q, want %q", tt.maxLines, got, tt.want)
			}
		})
	}
}
