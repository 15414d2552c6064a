package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/medic/internal/pager"
	"github.com/Iron-Ham/medic/internal/tui/keymap"
	tuimsg "github.com/Iron-Ham/medic/internal/tui/msg"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case spinner.TickMsg:
		if m.screen != screenProcessing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tuimsg.ProbeDoneMsg:
		return m.handleProbeDone(msg), nil

	case tuimsg.CountdownMsg:
		return m.handleCountdown()
	}
	return m, nil
}

// handleKeypress routes a key to the handler of the current screen.
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenMenu:
		return m.handleMenuKey(msg)
	case screenProcessing:
		// Probes cannot be interrupted except by ctrl+c, which cancels the
		// run; the viewer still opens with whatever was captured.
		if msg.Type == tea.KeyCtrlC {
			m.logger.Info("probe cancelled", "probe", m.running)
			m.stopProbe()
		}
		return m, nil
	case screenViewer:
		return m.handleViewerKey(msg), nil
	case screenEasterEgg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.opts.EasterEgg && m.konami.feed(konamiKey(msg)) {
		m.logger.Debug("easter egg unlocked")
		m.screen = screenEasterEgg
		m.eggLeft = easterEggSeconds
		return m, tuimsg.Countdown()
	}

	if idx, ok := digitIndex(msg, len(m.entries)); ok {
		m.selected = idx
		return m.runSelected()
	}

	cmd, ok := m.opts.Keymap.GetBinding(msg, keymap.ModeMenu)
	if !ok {
		return m, nil
	}
	n := len(m.entries)
	switch cmd {
	case keymap.CmdMenuUp:
		m.selected = (m.selected - 1 + n) % n
	case keymap.CmdMenuDown:
		m.selected = (m.selected + 1) % n
	case keymap.CmdMenuSelect:
		return m.runSelected()
	case keymap.CmdQuit:
		return m.quit()
	}
	return m, nil
}

// digitIndex maps the keys 1-9 to a menu index.
func digitIndex(msg tea.KeyMsg, n int) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || msg.Alt {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	idx := int(r - '1')
	return idx, idx < n
}

// runSelected starts the highlighted probe, or quits on the Exit row.
func (m Model) runSelected() (tea.Model, tea.Cmd) {
	entry := m.entries[m.selected]
	if entry.probe == nil {
		return m.quit()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.screen = screenProcessing
	m.running = entry.probe.Title()
	m.konami.reset()
	m.logger.Info("probe selected", "probe", entry.probe.Kind().String())

	return m, tea.Batch(
		m.spinner.Tick,
		tuimsg.RunProbe(ctx, entry.probe, m.opts.Capture, m.opts.Logger),
	)
}

func (m Model) handleProbeDone(msg tuimsg.ProbeDoneMsg) Model {
	if m.screen != screenProcessing {
		return m
	}
	m.stopProbe()
	if msg.Dropped > 0 {
		m.logger.Warn("capture full, output truncated",
			"probe", msg.Kind.String(), "lines", len(msg.Lines), "dropped", msg.Dropped)
	}
	m.viewer = pager.Open(msg.Title, msg.Lines, m.viewerOptions())
	m.screen = screenViewer
	m.running = ""
	return m
}

func (m Model) handleViewerKey(msg tea.KeyMsg) Model {
	cmd := m.opts.Keymap.PagerCommand(msg)
	if cmd == pager.None {
		return m
	}
	if m.viewer.Apply(cmd) == pager.Closed {
		m.viewer = nil
		m.screen = screenMenu
	}
	return m
}

func (m Model) handleCountdown() (tea.Model, tea.Cmd) {
	if m.screen != screenEasterEgg {
		return m, nil
	}
	m.eggLeft--
	if m.eggLeft <= 0 {
		m.screen = screenMenu
		return m, nil
	}
	return m, tuimsg.Countdown()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.stopProbe()
	m.quitting = true
	return m, tea.Quit
}
