package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Iron-Ham/medic/internal/tui/styles"
)

// Layout constants shared by the drawing helpers.
const (
	// LineWidth is the width of Rule.
	LineWidth = 60
	// DotColumn is the column the dot fill of KV reaches for short labels.
	DotColumn = 30
	// MinDots is the dot fill used when a label reaches DotColumn.
	MinDots = 2
	// Indent prefixes every helper line.
	Indent = "   "
)

// Status selects the color of a KVStatus value.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusErr
	StatusInfo
)

func (s Status) render(text string) string {
	switch s {
	case StatusOK:
		return styles.OK.Render(text)
	case StatusWarn:
		return styles.Warn.Render(text)
	case StatusErr:
		return styles.Err.Render(text)
	default:
		return styles.Info.Render(text)
	}
}

// Section writes a blank line, "--- title ---" and another blank line.
func Section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s%s\n\n", Indent, styles.Section.Render("--- "+title+" ---"))
}

// Rule writes a horizontal line of LineWidth dashes.
func Rule(w io.Writer) {
	fmt.Fprintf(w, "  %s\n", styles.Rule.Render(strings.Repeat("-", LineWidth)))
}

// dots returns the fill between a label and its value. The fill is
// measured in display columns so wide labels still line up.
func dots(label string) string {
	n := DotColumn - runewidth.StringWidth(label)
	if n < MinDots {
		n = MinDots
	}
	return strings.Repeat(".", n)
}

// KV writes "label ....... value".
func KV(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s%s %s %s\n", Indent, styles.Info.Render(label), dots(label), styles.Text.Bold(true).Render(value))
}

// KVf is KV with a formatted value.
func KVf(w io.Writer, label, format string, args ...any) {
	KV(w, label, fmt.Sprintf(format, args...))
}

// KVStatus writes a KV line whose value is colored by status.
func KVStatus(w io.Writer, label string, status Status, value string) {
	fmt.Fprintf(w, "%s%s %s %s\n", Indent, styles.Info.Render(label), dots(label), status.render(value))
}

// Percent returns used as a percentage of total, or 0 when total is 0.
func Percent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) * 100 / float64(total)
}

// Bar writes a usage bar "[####......] 42.0%" of width cells.
func Bar(w io.Writer, used, total uint64, width int) {
	pct := Percent(used, total)
	filled := 0
	if total > 0 {
		filled = int(used * uint64(width) / total)
	}
	filled = min(filled, width)

	style := styles.UsageColor(pct)
	fmt.Fprintf(w, "%s[%s%s] %s\n", Indent,
		style.Render(strings.Repeat("#", filled)),
		styles.Muted.Render(strings.Repeat(".", width-filled)),
		style.Render(fmt.Sprintf("%.1f%%", pct)))
}

// OK writes a "[OK] msg" line.
func OK(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s%s %s\n", Indent, styles.OK.Render("[OK]"), msg)
}

// Warn writes a "[!!] msg" line.
func Warn(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s%s %s\n", Indent, styles.Warn.Render("[!!]"), msg)
}

// Err writes a "[XX] msg" line.
func Err(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s%s %s\n", Indent, styles.Err.Render("[XX]"), msg)
}

// Info writes a "(i)  msg" line.
func Info(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s%s  %s\n", Indent, styles.Info.Render("(i)"), msg)
}
