// Package tui implements the interactive diagnostic menu.
package tui

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/medic/internal/tui/view"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model

	// Input and Output replace the terminal when set.
	Input  io.Reader
	Output io.Writer
}

// New creates a new TUI application
func New(opts Options) *App {
	return &App{model: NewModel(opts)}
}

// Run starts the TUI application and blocks until the user exits.
func (a *App) Run() error {
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if a.Input != nil {
		progOpts = append(progOpts, tea.WithInput(a.Input))
	}
	out := a.Output
	if out == nil {
		out = os.Stdout
	} else {
		progOpts = append(progOpts, tea.WithOutput(out))
	}
	a.program = tea.NewProgram(a.model, progOpts...)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-done:
		}
	}()

	final, err := a.program.Run()

	// Clean up signal handler
	signal.Stop(sigChan)
	close(done)

	if m, ok := final.(Model); ok {
		m.stopProbe()
	}
	a.model.logger.Info("interface closed")
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	_, _ = io.WriteString(out, view.Goodbye())
	return nil
}
