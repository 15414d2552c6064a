// Package pager shows a fixed-height window over a sequence of captured lines.
//
// A View is a small state machine. It starts in Rendering with offset 0,
// moves to AwaitingInput while it waits for a command, and ends in Closed
// once a confirm or cancel command arrives. Navigation commands move the
// window and always clamp the offset into [0, MaxOffset()]; nothing wraps.
package pager

import (
	"fmt"
	"strings"
)

// DefaultRows is the number of content rows shown when none is configured.
const DefaultRows = 18

// DefaultWidth is the width of the separator rule.
const DefaultWidth = 58

// Footer texts used when no override is configured.
const (
	DefaultHint   = "Press [ENTER] or [ESC] to return to menu..."
	DefaultLegend = "[UP/DOWN] Scroll  [LEFT/RIGHT] Page  [ENTER/ESC] Return"
)

// Command is a navigation or exit signal delivered to a View.
type Command int

const (
	None Command = iota
	ScrollUp
	ScrollDown
	PageBack
	PageForward
	Confirm
	Cancel
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case None:
		return "none"
	case ScrollUp:
		return "scroll_up"
	case ScrollDown:
		return "scroll_down"
	case PageBack:
		return "page_back"
	case PageForward:
		return "page_forward"
	case Confirm:
		return "confirm"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// State is the viewer's position in its render/input cycle.
type State int

const (
	Rendering State = iota
	AwaitingInput
	Closed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Rendering:
		return "rendering"
	case AwaitingInput:
		return "awaiting_input"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Options tunes the window size and footer texts. Zero values select defaults.
type Options struct {
	Rows   int
	Width  int
	Hint   string
	Legend string
}

// View is a read-only window over lines owned by someone else.
type View struct {
	title  string
	lines  []string
	offset int
	rows   int
	width  int
	hint   string
	legend string
	state  State
}

// Open creates a View positioned at the top of lines.
func Open(title string, lines []string, opts Options) *View {
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Hint == "" {
		opts.Hint = DefaultHint
	}
	if opts.Legend == "" {
		opts.Legend = DefaultLegend
	}
	return &View{
		title:  title,
		lines:  lines,
		rows:   opts.Rows,
		width:  opts.Width,
		hint:   opts.Hint,
		legend: opts.Legend,
		state:  Rendering,
	}
}

// Title returns the view title.
func (v *View) Title() string { return v.title }

// Offset returns the index of the first visible line.
func (v *View) Offset() int { return v.offset }

// Rows returns the number of content rows in a frame.
func (v *View) Rows() int { return v.rows }

// Total returns the number of lines in the source.
func (v *View) Total() int { return len(v.lines) }

// State returns the current state.
func (v *View) State() State { return v.state }

// MaxOffset returns the largest valid offset.
func (v *View) MaxOffset() int {
	return max(0, len(v.lines)-v.rows)
}

// Scrollable reports whether the content is taller than one page.
func (v *View) Scrollable() bool {
	return v.MaxOffset() > 0
}

// Apply feeds one command to the view and returns the resulting state.
// Commands received after the view closed are ignored.
func (v *View) Apply(cmd Command) State {
	if v.state == Closed {
		return Closed
	}

	maxOffset := v.MaxOffset()
	switch cmd {
	case ScrollUp:
		v.offset = max(0, v.offset-1)
	case ScrollDown:
		v.offset = min(maxOffset, v.offset+1)
	case PageBack:
		v.offset = max(0, v.offset-v.rows)
	case PageForward:
		v.offset = min(maxOffset, v.offset+v.rows)
	case Confirm, Cancel:
		v.state = Closed
		return v.state
	default:
		v.state = AwaitingInput
		return v.state
	}
	v.state = Rendering
	return v.state
}

// Visible returns the lines inside the window, without padding.
func (v *View) Visible() []string {
	end := min(v.offset+v.rows, len(v.lines))
	if v.offset >= end {
		return nil
	}
	return v.lines[v.offset:end]
}

// Frame is one rendered screen of the viewer.
type Frame struct {
	Header    string
	Separator string
	// Rows always has exactly View.Rows() entries so the footer never moves.
	Rows   []string
	Footer string
}

// Lines flattens the frame in display order.
func (f Frame) Lines() []string {
	out := make([]string, 0, len(f.Rows)+4)
	out = append(out, f.Header, f.Separator)
	out = append(out, f.Rows...)
	out = append(out, f.Separator, f.Footer)
	return out
}

// Frame builds the frame for the current offset.
func (v *View) Frame() Frame {
	rows := make([]string, v.rows)
	copy(rows, v.Visible())

	return Frame{
		Header:    v.title,
		Separator: strings.Repeat("-", v.width),
		Rows:      rows,
		Footer:    v.footer(),
	}
}

func (v *View) footer() string {
	if !v.Scrollable() {
		return v.hint
	}
	last := min(v.offset+v.rows, len(v.lines))
	return fmt.Sprintf("%s  [%d-%d/%d]", v.legend, v.offset+1, last, len(v.lines))
}
