package terminal

import (
	"bufio"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/medic/internal/pager"
	"github.com/Iron-Ham/medic/internal/tui/keymap"
)

// keyQueue is how many decoded keys may wait between polls.
const keyQueue = 32

// Input decodes keys from a reader on a background goroutine and hands
// them to the pager one poll at a time. It implements pager.InputSource.
type Input struct {
	keymap *keymap.Keymap
	keys   chan tea.KeyMsg

	mu  sync.Mutex
	err error
}

var _ pager.InputSource = (*Input)(nil)

// NewInput starts reading keys from r. A nil keymap uses the defaults.
// The reader goroutine runs until r returns an error.
func NewInput(r io.Reader, km *keymap.Keymap) *Input {
	if km == nil {
		km = keymap.DefaultKeymap()
	}
	in := &Input{
		keymap: km,
		keys:   make(chan tea.KeyMsg, keyQueue),
	}
	go in.read(bufio.NewReader(r))
	return in
}

func (in *Input) read(r *bufio.Reader) {
	defer close(in.keys)
	for {
		key, err := ReadKey(r)
		if err != nil {
			in.mu.Lock()
			in.err = err
			in.mu.Unlock()
			return
		}
		in.keys <- key
	}
}

// Poll returns the command bound to the oldest pending key, or pager.None
// when no key arrived. Once the reader has failed Poll returns
// pager.Cancel so a viewer never waits on a dead terminal.
func (in *Input) Poll() pager.Command {
	select {
	case key, ok := <-in.keys:
		if !ok {
			return pager.Cancel
		}
		return in.keymap.PagerCommand(key)
	default:
		return pager.None
	}
}

// Err returns the error that stopped the reader, if any. io.EOF is
// reported as nil.
func (in *Input) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.err == io.EOF {
		return nil
	}
	return in.err
}
