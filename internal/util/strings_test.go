package util

import (
	"slices"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateANSI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"tiny width", "hello", 3, "..."},
		{"wide chars", "日本語テキスト", 7, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateANSI(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("TruncateANSI(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}

	styled := "\x1b[1mhello world\x1b[0m"
	got := TruncateANSI(styled, 8)
	if w := lipgloss.Width(got); w > 8 {
		t.Errorf("styled truncation width = %d, want <= 8", w)
	}
	if StripANSI(got) != "hello..." {
		t.Errorf("styled truncation text = %q", StripANSI(got))
	}
}

func TestStripANSI(t *testing.T) {
	if got := StripANSI("\x1b[32m[OK]\x1b[0m fine"); got != "[OK] fine" {
		t.Errorf("StripANSI() = %q", got)
	}
	got := StripANSILines([]string{"\x1b[1ma\x1b[0m", "b"})
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("StripANSILines() = %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n", nil},
		{"a", []string{"a"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		got := SplitLines(tt.in)
		if len(got) != len(tt.want) || !slices.Equal(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
