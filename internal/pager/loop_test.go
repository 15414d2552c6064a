package pager

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// scriptedInput replays a fixed sequence of commands, then returns None.
type scriptedInput struct {
	cmds  []Command
	polls int
}

func (s *scriptedInput) Poll() Command {
	s.polls++
	if len(s.cmds) == 0 {
		return None
	}
	c := s.cmds[0]
	s.cmds = s.cmds[1:]
	return c
}

func TestDrawWritesFixedLayout(t *testing.T) {
	v := Open("Title", makeLines(3), Options{Rows: 5, Width: 4})
	var buf bytes.Buffer
	if err := Draw(&buf, v.Frame(), v.Scrollable(), nil); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, seqHome) {
		t.Errorf("output does not start by homing the cursor: %q", out)
	}
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, seqHome), "\n"), "\n")
	if len(lines) != 5+4 {
		t.Fatalf("got %d lines, want %d", len(lines), 9)
	}
	for i, line := range lines {
		if !strings.HasSuffix(line, seqClearEOL) {
			t.Errorf("line %d missing clear-to-EOL: %q", i, line)
		}
	}
	if lines[0] != " Title"+seqClearEOL {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != " ----"+seqClearEOL {
		t.Errorf("separator = %q", lines[1])
	}
	if lines[6] != seqClearEOL {
		t.Errorf("padding row = %q, want blank", lines[6])
	}
}

type bracketPainter struct{}

func (bracketPainter) Header(s string) string { return "<" + s + ">" }
func (bracketPainter) Rule(s string) string   { return "=" }
func (bracketPainter) Row(s string) string    { return "|" + s }
func (bracketPainter) Footer(s string, scrollable bool) string {
	if scrollable {
		return "more"
	}
	return "end"
}

func TestPaint(t *testing.T) {
	v := Open("T", makeLines(3), Options{Rows: 2})
	got := Paint(v.Frame(), v.Scrollable(), bracketPainter{})
	want := []string{"<T>", "=", "|line 1", "|line 2", "=", "more"}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Paint() = %q, want %q", got, want)
	}

	short := Open("T", makeLines(1), Options{Rows: 2})
	got = Paint(short.Frame(), short.Scrollable(), bracketPainter{})
	if got[len(got)-1] != "end" {
		t.Errorf("footer = %q, want end", got[len(got)-1])
	}
	if got[3] != "|" {
		t.Errorf("padding row = %q, want %q", got[3], "|")
	}
}

func TestRunClosesOnConfirm(t *testing.T) {
	v := Open("t", makeLines(50), Options{Rows: 18})
	in := &scriptedInput{cmds: []Command{None, ScrollDown, None, PageForward, Confirm}}
	var buf bytes.Buffer

	if err := Run(context.Background(), v, in, &buf, time.Millisecond, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if v.State() != Closed {
		t.Errorf("State() = %v, want %v", v.State(), Closed)
	}
	if v.Offset() != 19 {
		t.Errorf("Offset() = %d, want 19", v.Offset())
	}
	if !strings.HasPrefix(buf.String(), seqClearScreen) {
		t.Error("Run did not clear the screen first")
	}
	// Initial frame plus one redraw per navigation command.
	if got := strings.Count(buf.String(), "[UP/DOWN]"); got != 3 {
		t.Errorf("drew %d frames, want 3", got)
	}
}

func TestRunEmptySourceOnlyClosesOnExit(t *testing.T) {
	v := Open("t", nil, Options{Rows: 18})
	in := &scriptedInput{cmds: []Command{ScrollDown, PageForward, ScrollUp, Cancel}}
	var buf bytes.Buffer

	if err := Run(context.Background(), v, in, &buf, time.Millisecond, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if v.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", v.Offset())
	}
	if strings.Contains(buf.String(), "[UP/DOWN]") {
		t.Error("empty source rendered the scrolling footer")
	}
	if !strings.Contains(buf.String(), DefaultHint) {
		t.Error("empty source did not render the static hint")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	v := Open("t", makeLines(5), Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Run(ctx, v, InputFunc(func() Command { return None }), &bytes.Buffer{}, time.Millisecond, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want %v", err, context.DeadlineExceeded)
	}
	if v.State() != AwaitingInput {
		t.Errorf("State() = %v, want %v", v.State(), AwaitingInput)
	}
}
