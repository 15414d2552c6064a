package pager

import (
	"bufio"
	"context"
	"io"
	"time"
)

// DefaultTick is the polling interval used when Run is given a zero tick.
const DefaultTick = time.Second / 60

// Escape sequences used to redraw in place.
const (
	seqClearScreen = "\x1b[2J\x1b[H"
	seqHome        = "\x1b[H"
	seqClearEOL    = "\x1b[K"
)

// InputSource reports which command became active since the last poll.
// Poll must not block; it returns None when nothing happened.
type InputSource interface {
	Poll() Command
}

// InputFunc adapts a function to InputSource.
type InputFunc func() Command

// Poll calls f.
func (f InputFunc) Poll() Command { return f() }

// Painter decorates the parts of a frame before they are written.
type Painter interface {
	Header(s string) string
	Rule(s string) string
	Row(s string) string
	Footer(s string, scrollable bool) string
}

// PlainPainter leaves text untouched.
type PlainPainter struct{}

func (PlainPainter) Header(s string) string         { return " " + s }
func (PlainPainter) Rule(s string) string           { return " " + s }
func (PlainPainter) Row(s string) string            { return s }
func (PlainPainter) Footer(s string, _ bool) string { return " " + s }

// Paint decorates every line of frame in display order.
func Paint(frame Frame, scrollable bool, p Painter) []string {
	if p == nil {
		p = PlainPainter{}
	}
	out := make([]string, 0, len(frame.Rows)+4)
	out = append(out, p.Header(frame.Header), p.Rule(frame.Separator))
	for _, row := range frame.Rows {
		out = append(out, p.Row(row))
	}
	return append(out, p.Rule(frame.Separator), p.Footer(frame.Footer, scrollable))
}

// Draw writes frame to w, homing the cursor first and clearing each line
// after its text so a shorter frame fully replaces a longer one.
func Draw(w io.Writer, frame Frame, scrollable bool, p Painter) error {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(seqHome)
	for _, line := range Paint(frame, scrollable, p) {
		writeLine(bw, line)
	}
	return bw.Flush()
}

func writeLine(bw *bufio.Writer, s string) {
	_, _ = bw.WriteString(s)
	_, _ = bw.WriteString(seqClearEOL)
	_ = bw.WriteByte('\n')
}

// Run drives v until it closes or ctx is done. The screen is cleared once,
// then every navigation command redraws the frame in place. Between polls
// the loop sleeps for one tick.
func Run(ctx context.Context, v *View, input InputSource, w io.Writer, tick time.Duration, p Painter) error {
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	if _, err := io.WriteString(w, seqClearScreen); err != nil {
		return err
	}

	for {
		if err := Draw(w, v.Frame(), v.Scrollable(), p); err != nil {
			return err
		}

	poll:
		for {
			switch v.Apply(input.Poll()) {
			case Closed:
				return nil
			case Rendering:
				break poll
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}
}
