// Package terminal reads keys from a raw tty and feeds them to the pager.
package terminal

import (
	"bufio"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Control bytes that arrive unchanged in raw mode.
const (
	byteCtrlC     = 0x03
	byteTab       = 0x09
	byteLF        = 0x0a
	byteCR        = 0x0d
	byteEsc       = 0x1b
	byteBackspace = 0x7f
)

// maxCSI bounds how many bytes of a CSI sequence are read before giving up.
const maxCSI = 6

// ReadKey reads one key press from r. A lone ESC is reported as tea.KeyEsc
// only when nothing else is buffered behind it; otherwise the following
// bytes are parsed as an escape sequence. Unknown sequences decode to a
// zero tea.KeyMsg, which no binding matches.
func ReadKey(r *bufio.Reader) (tea.KeyMsg, error) {
	b, err := r.ReadByte()
	if err != nil {
		return tea.KeyMsg{}, err
	}

	switch b {
	case byteEsc:
		return readEscape(r), nil
	case byteCR, byteLF:
		return tea.KeyMsg{Type: tea.KeyEnter}, nil
	case byteCtrlC:
		return tea.KeyMsg{Type: tea.KeyCtrlC}, nil
	case byteTab:
		return tea.KeyMsg{Type: tea.KeyTab}, nil
	case byteBackspace:
		return tea.KeyMsg{Type: tea.KeyBackspace}, nil
	case ' ':
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, nil
	}

	if b < 0x20 {
		// ctrl+a .. ctrl+z share their byte value with the key type.
		return tea.KeyMsg{Type: tea.KeyType(b)}, nil
	}
	if b < utf8.RuneSelf {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune(b)}}, nil
	}

	buf := []byte{b}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		next, err := r.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, next)
	}
	ch, _ := utf8.DecodeRune(buf)
	if ch == utf8.RuneError {
		return tea.KeyMsg{}, nil
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{ch}}, nil
}

func readEscape(r *bufio.Reader) tea.KeyMsg {
	if r.Buffered() == 0 {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	next, err := r.ReadByte()
	if err != nil {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}

	switch next {
	case '[':
		return readCSI(r)
	case 'O':
		final, err := r.ReadByte()
		if err != nil {
			return tea.KeyMsg{Type: tea.KeyEsc}
		}
		return finalKey(final)
	default:
		// alt+key
		if next >= 0x20 && next < utf8.RuneSelf {
			return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune(next)}, Alt: true}
		}
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
}

func readCSI(r *bufio.Reader) tea.KeyMsg {
	var seq []byte
	for len(seq) < maxCSI {
		b, err := r.ReadByte()
		if err != nil {
			return tea.KeyMsg{Type: tea.KeyEsc}
		}
		seq = append(seq, b)
		if (b >= 'A' && b <= 'Z') || b == '~' {
			break
		}
	}

	final := seq[len(seq)-1]
	if final != '~' {
		return finalKey(final)
	}

	switch string(seq[:len(seq)-1]) {
	case "1", "7":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "3":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case "4", "8":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "5":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "6":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{}
}

func finalKey(b byte) tea.KeyMsg {
	switch b {
	case 'A':
		return tea.KeyMsg{Type: tea.KeyUp}
	case 'B':
		return tea.KeyMsg{Type: tea.KeyDown}
	case 'C':
		return tea.KeyMsg{Type: tea.KeyRight}
	case 'D':
		return tea.KeyMsg{Type: tea.KeyLeft}
	case 'H':
		return tea.KeyMsg{Type: tea.KeyHome}
	case 'F':
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{}
}
