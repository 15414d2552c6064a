package tui

import (
	"strings"

	"github.com/Iron-Ham/medic/internal/pager"
	"github.com/Iron-Ham/medic/internal/tui/styles"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// View renders the current screen
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenProcessing:
		return view.Banner(m.opts.Version) + view.Processing(m.running, m.spinner.View())
	case screenViewer:
		if m.viewer == nil {
			return ""
		}
		lines := pager.Paint(m.viewer.Frame(), m.viewer.Scrollable(), styles.Painter{Width: m.width})
		return strings.Join(lines, "\n")
	case screenEasterEgg:
		return view.EasterEgg(m.eggLeft)
	default:
		return view.Banner(m.opts.Version) + view.Menu(m.menuItems(), m.selected, m.width)
	}
}
