package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/Iron-Ham/medic/internal/capture"
	"github.com/Iron-Ham/medic/internal/logging"
	"github.com/Iron-Ham/medic/internal/pager"
	"github.com/Iron-Ham/medic/internal/probe"
	"github.com/Iron-Ham/medic/internal/tui/keymap"
	"github.com/Iron-Ham/medic/internal/tui/styles"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// screen is the part of the interface currently shown.
type screen int

const (
	screenMenu screen = iota
	screenProcessing
	screenViewer
	screenEasterEgg
)

func (s screen) String() string {
	switch s {
	case screenMenu:
		return "menu"
	case screenProcessing:
		return "processing"
	case screenViewer:
		return "viewer"
	case screenEasterEgg:
		return "easter_egg"
	default:
		return "unknown"
	}
}

// easterEggSeconds is how long the hidden screen stays up.
const easterEggSeconds = 3

// viewerChrome is the number of viewer lines that are not content rows.
const viewerChrome = 4

// Options configures the interface.
type Options struct {
	Registry *probe.Registry
	Keymap   *keymap.Keymap
	Capture  capture.Options
	Viewer   pager.Options
	// EasterEgg enables the Konami code on the menu.
	EasterEgg bool
	Version   string
	Logger    *logging.Logger
}

// menuEntry is a menu row; a nil probe is the Exit entry.
type menuEntry struct {
	probe probe.Probe
	item  view.MenuItem
}

// Model holds the TUI application state
type Model struct {
	opts   Options
	logger *logging.Logger

	entries  []menuEntry
	selected int
	screen   screen
	width    int
	height   int
	quitting bool

	// Processing state
	spinner spinner.Model
	running string
	cancel  context.CancelFunc

	// Viewer state
	viewer *pager.View

	// Easter egg state
	konami  konami
	eggLeft int
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	if opts.Keymap == nil {
		opts.Keymap = keymap.DefaultKeymap()
	}
	if opts.Registry == nil {
		opts.Registry = probe.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	hint, legend := opts.Keymap.ViewerTexts()
	if opts.Viewer.Hint == "" {
		opts.Viewer.Hint = hint
	}
	if opts.Viewer.Legend == "" {
		opts.Viewer.Legend = legend
	}

	var entries []menuEntry
	for _, p := range opts.Registry.All() {
		entries = append(entries, menuEntry{
			probe: p,
			item:  view.MenuItem{Label: p.Title(), Description: p.Description()},
		})
	}
	entries = append(entries, menuEntry{
		item: view.MenuItem{Label: "Exit", Description: "Leave medic"},
	})

	return Model{
		opts:    opts,
		logger:  opts.Logger.WithComponent("tui"),
		entries: entries,
		screen:  screenMenu,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
	}
}

// viewerOptions returns the pager options with rows fitted to the window.
func (m Model) viewerOptions() pager.Options {
	opts := m.opts.Viewer
	if opts.Rows <= 0 {
		opts.Rows = pager.DefaultRows
	}
	if m.height > 0 {
		if avail := m.height - viewerChrome; avail < opts.Rows {
			opts.Rows = max(avail, 1)
		}
	}
	return opts
}

// menuItems returns the rows shown by the menu screen.
func (m Model) menuItems() []view.MenuItem {
	items := make([]view.MenuItem, len(m.entries))
	for i, e := range m.entries {
		items[i] = e.item
	}
	return items
}

// Screen returns the name of the current screen.
func (m Model) Screen() string { return m.screen.String() }

// Selected returns the index of the highlighted menu row.
func (m Model) Selected() int { return m.selected }

// Quitting reports whether the model has asked the program to exit.
func (m Model) Quitting() bool { return m.quitting }

// Viewer returns the open viewer, or nil outside the viewer screen.
func (m Model) Viewer() *pager.View { return m.viewer }

// stopProbe cancels a running probe, if any.
func (m *Model) stopProbe() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
