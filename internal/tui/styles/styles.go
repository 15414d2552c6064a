package styles

import "github.com/charmbracelet/lipgloss"

// Styles used across the interface. SetTheme rebuilds them from a palette.
var (
	Banner       lipgloss.Style
	Subtitle     lipgloss.Style
	Header       lipgloss.Style
	Section      lipgloss.Style
	Rule         lipgloss.Style
	Text         lipgloss.Style
	Muted        lipgloss.Style
	OK           lipgloss.Style
	Warn         lipgloss.Style
	Err          lipgloss.Style
	Info         lipgloss.Style
	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style
	HelpBar      lipgloss.Style
	HelpKey      lipgloss.Style
	Spinner      lipgloss.Style
)

var active = ThemeDefault

func init() {
	SetTheme(ThemeDefault)
}

// SetTheme switches every exported style to the named palette.
func SetTheme(name ThemeName) {
	active = name
	p := GetPalette(name)

	Banner = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Subtitle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	Header = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Section = lipgloss.NewStyle().Bold(true).Foreground(p.Section)
	Rule = lipgloss.NewStyle().Foreground(p.Muted)
	Text = lipgloss.NewStyle().Foreground(p.Text)
	Muted = lipgloss.NewStyle().Foreground(p.Muted)
	OK = lipgloss.NewStyle().Bold(true).Foreground(p.OK)
	Warn = lipgloss.NewStyle().Bold(true).Foreground(p.Warn)
	Err = lipgloss.NewStyle().Bold(true).Foreground(p.Err)
	Info = lipgloss.NewStyle().Foreground(p.Info)
	MenuItem = lipgloss.NewStyle().Foreground(p.Text).PaddingLeft(2)
	MenuSelected = lipgloss.NewStyle().Bold(true).Foreground(p.Primary).Background(p.Highlight).PaddingLeft(1)
	HelpBar = lipgloss.NewStyle().Foreground(p.Muted)
	HelpKey = lipgloss.NewStyle().Bold(true).Foreground(p.OK)
	Spinner = lipgloss.NewStyle().Foreground(p.Primary)

	if name == ThemeMono {
		MenuSelected = MenuSelected.Reverse(true)
	}
}

// ActiveTheme returns the theme last passed to SetTheme.
func ActiveTheme() ThemeName {
	return active
}

// UsageColor returns the color for a usage bar filled to pct percent:
// OK up to 70, Warn up to 90, Err above.
func UsageColor(pct float64) lipgloss.Style {
	switch {
	case pct <= 70:
		return OK
	case pct <= 90:
		return Warn
	default:
		return Err
	}
}
