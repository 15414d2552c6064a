package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/medic/internal/capture"
	"github.com/Iron-Ham/medic/internal/pager"
	"github.com/Iron-Ham/medic/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive diagnostic menu",
	Long: `Start the interactive diagnostic menu.

Pick a diagnostic with the arrow keys and ENTER. Its output opens in a
scrollable viewer; ENTER or ESC returns to the menu.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	km, err := loadKeymap(cfg)
	if err != nil {
		return err
	}
	logger := createLogger(cfg)
	defer logger.Close()

	logger.Info("medic started", "version", Version)
	app := tui.New(tui.Options{
		Registry: newRegistry(cfg, logger),
		Keymap:   km,
		Capture: capture.Options{
			MaxLines:   cfg.Capture.MaxLines,
			MaxLineLen: cfg.Capture.MaxLineLength,
		},
		Viewer: pager.Options{
			Rows:  cfg.Viewer.VisibleRows,
			Width: cfg.Viewer.Width,
		},
		EasterEgg: cfg.TUI.EasterEgg,
		Version:   Version,
		Logger:    logger,
	})
	app.Output = cmd.OutOrStdout()
	return app.Run()
}
