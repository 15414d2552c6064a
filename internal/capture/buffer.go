// Package capture diverts printed output into a bounded sequence of lines.
//
// A LineBuffer sits between diagnostic probes and the terminal. While capture
// is active every byte a probe prints is split on newlines and stored as a
// discrete line so a pager can show it afterwards. While capture is inactive
// the buffer is transparent and text goes straight to its sink.
//
// Capture is best-effort. Completed lines past the line cap are dropped and
// characters past the per-line cap are discarded; neither is reported as an
// error.
package capture

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Default capacities.
const (
	DefaultMaxLines   = 256
	DefaultMaxLineLen = 512
)

// Options configures a LineBuffer. Zero values select the defaults.
type Options struct {
	// MaxLines is the number of completed lines kept before new ones are dropped.
	MaxLines int
	// MaxLineLen bounds a stored line to MaxLineLen-1 characters.
	MaxLineLen int
	// Sink receives text while capture is inactive (default: os.Stdout).
	Sink io.Writer
}

// LineBuffer captures formatted output as lines.
//
// It has a single writer and is not safe for concurrent use. Readers must
// only look at Lines after End returns.
type LineBuffer struct {
	lines      []string
	cursor     []rune
	pending    []byte
	dropped    int
	active     bool
	maxLines   int
	maxLineLen int
	sink       io.Writer
}

// New creates a LineBuffer. Capture starts inactive.
func New(opts Options) *LineBuffer {
	if opts.MaxLines <= 0 {
		opts.MaxLines = DefaultMaxLines
	}
	if opts.MaxLineLen <= 1 {
		opts.MaxLineLen = DefaultMaxLineLen
	}
	if opts.Sink == nil {
		opts.Sink = os.Stdout
	}
	return &LineBuffer{
		lines:      make([]string, 0, opts.MaxLines),
		cursor:     make([]rune, 0, opts.MaxLineLen),
		pending:    make([]byte, 0, utf8.UTFMax),
		maxLines:   opts.MaxLines,
		maxLineLen: opts.MaxLineLen,
		sink:       opts.Sink,
	}
}

// Begin discards previously captured lines and starts capturing.
func (b *LineBuffer) Begin() {
	b.lines = b.lines[:0]
	b.cursor = b.cursor[:0]
	b.pending = b.pending[:0]
	b.dropped = 0
	b.active = true
}

// End flushes a pending partial line and stops capturing.
func (b *LineBuffer) End() {
	if !b.active {
		return
	}
	// An incomplete trailing sequence decodes as replacement characters.
	rest := b.pending
	b.pending = b.pending[:0]
	for len(rest) > 0 {
		r, size := utf8.DecodeRune(rest)
		b.feed(r)
		rest = rest[size:]
	}
	if len(b.cursor) > 0 {
		b.completeLine()
	}
	b.active = false
}

// Active reports whether output is currently being captured.
func (b *LineBuffer) Active() bool {
	return b.active
}

// Emit processes text. When inactive it is written to the sink and the
// sink's count is returned. When active the text is split into lines and
// len(text) is returned whether or not anything was truncated or dropped.
func (b *LineBuffer) Emit(text string) int {
	if !b.active {
		n, _ := io.WriteString(b.sink, text)
		return n
	}
	b.consume([]byte(text))
	return len(text)
}

// Printf formats according to a format specifier and emits the result.
func (b *LineBuffer) Printf(format string, args ...any) int {
	return b.Emit(fmt.Sprintf(format, args...))
}

// Write implements io.Writer so a LineBuffer can be handed to anything that
// prints through fmt.Fprintf. A multibyte character split across calls
// is held back until its remaining bytes arrive.
func (b *LineBuffer) Write(p []byte) (int, error) {
	if !b.active {
		return b.sink.Write(p)
	}
	b.consume(p)
	return len(p), nil
}

// Lines returns a copy of the completed lines in capture order.
func (b *LineBuffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of completed lines.
func (b *LineBuffer) Len() int {
	return len(b.lines)
}

// Cap returns the maximum number of lines the buffer keeps.
func (b *LineBuffer) Cap() int {
	return b.maxLines
}

// Dropped returns the number of completed lines discarded since Begin
// because the buffer was full.
func (b *LineBuffer) Dropped() int {
	return b.dropped
}

// String joins the completed lines with newlines.
func (b *LineBuffer) String() string {
	return strings.Join(b.lines, "\n")
}

// consume decodes p, prefixed by any bytes held from the previous call,
// and keeps an incomplete trailing sequence for the next one.
func (b *LineBuffer) consume(p []byte) {
	data := p
	if len(b.pending) > 0 {
		data = append(append(make([]byte, 0, len(b.pending)+len(p)), b.pending...), p...)
		b.pending = b.pending[:0]
	}
	for len(data) > 0 {
		if !utf8.FullRune(data) {
			b.pending = append(b.pending, data...)
			return
		}
		r, size := utf8.DecodeRune(data)
		b.feed(r)
		data = data[size:]
	}
}

func (b *LineBuffer) feed(r rune) {
	if r == '\n' {
		b.completeLine()
		return
	}
	if len(b.cursor) < b.maxLineLen-1 {
		b.cursor = append(b.cursor, r)
	}
}

// completeLine stores the cursor as a line if there is room and resets it.
func (b *LineBuffer) completeLine() {
	if len(b.lines) < b.maxLines {
		b.lines = append(b.lines, string(b.cursor))
	} else {
		b.dropped++
	}
	b.cursor = b.cursor[:0]
}
