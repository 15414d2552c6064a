package msg

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/medic/internal/capture"
	"github.com/Iron-Ham/medic/internal/logging"
	"github.com/Iron-Ham/medic/internal/probe"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// CountdownInterval is the delay between CountdownMsg values.
const CountdownInterval = time.Second

// Countdown returns a command that sends a CountdownMsg after one interval.
func Countdown() tea.Cmd {
	return tea.Tick(CountdownInterval, func(t time.Time) tea.Msg {
		return CountdownMsg(t)
	})
}

// RunProbe returns a command that runs p with its output captured into a
// fresh line buffer. A failure is appended to the captured lines so the
// viewer shows it.
func RunProbe(ctx context.Context, p probe.Probe, opts capture.Options, logger *logging.Logger) tea.Cmd {
	return func() tea.Msg {
		buf := capture.New(opts)
		buf.Begin()
		err := probe.Execute(ctx, p, buf, logger)
		if err != nil {
			buf.Emit("\n")
			view.Err(buf, "Probe failed: "+err.Error())
		}
		buf.End()

		return ProbeDoneMsg{
			Kind:    p.Kind(),
			Title:   p.Title(),
			Lines:   buf.Lines(),
			Dropped: buf.Dropped(),
			Err:     err,
		}
	}
}
