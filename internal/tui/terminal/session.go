package terminal

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/logging"
)

// TTYPath is the controlling terminal opened by Open.
const TTYPath = "/dev/tty"

const (
	seqHideCursor = "\x1b[?25l"
	seqShowCursor = "\x1b[?25h"
	seqWrapOff    = "\x1b[?7l"
	seqWrapOn     = "\x1b[?7h"
)

// Session owns a terminal in raw mode. Output written through Writer has
// its line feeds expanded to CRLF, since raw mode disables that mapping.
type Session struct {
	file   *os.File
	owned  bool
	state  *term.State
	logger *logging.Logger
}

// Open puts the controlling terminal into raw mode. When /dev/tty cannot
// be opened it falls back to stdin, which must itself be a terminal.
func Open(logger *logging.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithComponent("terminal")

	file, err := os.OpenFile(TTYPath, os.O_RDWR, 0)
	owned := err == nil
	if err != nil {
		logger.Debug("tty unavailable, using stdin", "error", err)
		file = os.Stdin
	}
	if !term.IsTerminal(int(file.Fd())) {
		if owned {
			_ = file.Close()
		}
		return nil, errors.ErrNoTerminal
	}

	state, err := term.MakeRaw(int(file.Fd()))
	if err != nil {
		if owned {
			_ = file.Close()
		}
		return nil, errors.Wrap(err, "enter raw mode")
	}

	s := &Session{file: file, owned: owned, state: state, logger: logger}
	_, _ = io.WriteString(file, seqHideCursor+seqWrapOff)
	logger.Debug("raw mode entered", "tty", file.Name())
	return s, nil
}

// Reader returns the terminal for key input.
func (s *Session) Reader() io.Reader { return s.file }

// Writer returns the terminal for output with CRLF line endings.
func (s *Session) Writer() io.Writer { return CRLFWriter{W: s.file} }

// Size returns the terminal width and height in cells.
func (s *Session) Size() (width, height int, err error) {
	return term.GetSize(int(s.file.Fd()))
}

// Restore leaves raw mode, shows the cursor again and closes the tty if
// Open opened it. It is safe to call more than once.
func (s *Session) Restore() error {
	if s.state == nil {
		return nil
	}
	_, _ = io.WriteString(s.file, seqShowCursor+seqWrapOn)
	err := term.Restore(int(s.file.Fd()), s.state)
	s.state = nil
	if s.owned {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	s.logger.Debug("raw mode restored")
	return err
}

// CRLFWriter writes to W with every "\n" replaced by "\r\n".
type CRLFWriter struct {
	W io.Writer
}

// Write reports len(p) on success so callers see their own byte count.
func (c CRLFWriter) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, '\n') < 0 {
		return c.W.Write(p)
	}
	out := bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
	if _, err := c.W.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
