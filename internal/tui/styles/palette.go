package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName identifies a built-in palette.
type ThemeName string

const (
	ThemeDefault ThemeName = "default"
	ThemeMono    ThemeName = "mono"
)

// BuiltinThemes returns the names of the available palettes.
func BuiltinThemes() []string {
	return []string{string(ThemeDefault), string(ThemeMono)}
}

// IsValidTheme reports whether name is a built-in palette.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary is used for banners, headers and the selected menu item
	Primary lipgloss.Color
	// Section is used for section titles inside captured output
	Section lipgloss.Color
	// OK, Warn and Err color the status markers and usage bars
	OK   lipgloss.Color
	Warn lipgloss.Color
	Err  lipgloss.Color
	// Info colors the (i) marker
	Info lipgloss.Color
	// Muted is used for rules, descriptions and the footer
	Muted lipgloss.Color
	// Text is regular text
	Text lipgloss.Color
	// Highlight is the background of the selected menu item
	Highlight lipgloss.Color
}

// DefaultPalette returns the cyan/green console palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#22D3EE"), // Cyan
		Section:   lipgloss.Color("#FBBF24"), // Yellow
		OK:        lipgloss.Color("#22C55E"), // Green
		Warn:      lipgloss.Color("#F59E0B"), // Amber
		Err:       lipgloss.Color("#F87171"), // Red
		Info:      lipgloss.Color("#60A5FA"), // Blue
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Text:      lipgloss.Color("#F9FAFB"), // White
		Highlight: lipgloss.Color("#1E3A8A"), // Navy
	}
}

// MonoPalette returns a palette without colors. Bold and reverse video
// still distinguish headers and the selected item.
func MonoPalette() *ColorPalette {
	return &ColorPalette{}
}

// GetPalette returns the palette for name, falling back to the default.
func GetPalette(name ThemeName) *ColorPalette {
	if name == ThemeMono {
		return MonoPalette()
	}
	return DefaultPalette()
}
