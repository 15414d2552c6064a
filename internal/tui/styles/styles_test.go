package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestSetTheme(t *testing.T) {
	defer SetTheme(ThemeDefault)

	SetTheme(ThemeMono)
	if ActiveTheme() != ThemeMono {
		t.Errorf("ActiveTheme() = %q, want mono", ActiveTheme())
	}
	if !MenuSelected.GetReverse() {
		t.Error("mono theme should mark the selection with reverse video")
	}

	SetTheme(ThemeDefault)
	if got := OK.GetForeground(); got != DefaultPalette().OK {
		t.Errorf("OK foreground = %v, want %v", got, DefaultPalette().OK)
	}
	if MenuSelected.GetReverse() {
		t.Error("default theme should not use reverse video")
	}
}

func TestGetPalette(t *testing.T) {
	if GetPalette("unknown").Primary != DefaultPalette().Primary {
		t.Error("unknown theme should fall back to the default palette")
	}
	if GetPalette(ThemeMono).Primary != lipgloss.Color("") {
		t.Error("mono palette should have no colors")
	}
	if !IsValidTheme("mono") || IsValidTheme("neon") {
		t.Error("IsValidTheme() disagrees with BuiltinThemes()")
	}
}

func TestPainter(t *testing.T) {
	p := Painter{Width: 5}

	if got := ansi.Strip(p.Header("Title")); got != " Title" {
		t.Errorf("Header() = %q", got)
	}
	if got := ansi.Strip(p.Rule("---")); got != " ---" {
		t.Errorf("Rule() = %q", got)
	}
	if got := p.Row("abcdefgh"); got != "abcde" {
		t.Errorf("Row() = %q, want cut to 5 columns", got)
	}
	if got := p.Row("abc"); got != "abc" {
		t.Errorf("Row() = %q, want unchanged", got)
	}
	styled := "\x1b[1mabcdefgh\x1b[0m"
	if got := ansi.StringWidth(p.Row(styled)); got != 5 {
		t.Errorf("styled Row() width = %d, want 5", got)
	}
	for _, scrollable := range []bool{true, false} {
		if got := ansi.Strip(p.Footer("hint", scrollable)); !strings.HasSuffix(got, "hint") {
			t.Errorf("Footer(%v) = %q", scrollable, got)
		}
	}
	if got := (Painter{}).Row(strings.Repeat("x", 200)); len(got) != 200 {
		t.Error("zero width should not cut rows")
	}
}
