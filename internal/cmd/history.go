package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded report runs",
	Long: `List the report runs recorded in the history database, newest first.

History is kept only when report.history_db is set, e.g.:
  medic config set report.history_db ~/.local/share/medic/history.db`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	h, err := report.OpenHistory(cfg.Report.ResolveHistoryDB(), nil)
	if errors.Is(err, errors.ErrHistoryUnavailable) {
		fmt.Fprintln(out, "Report history is disabled.")
		fmt.Fprintln(out, "Set report.history_db to record runs.")
		return nil
	}
	if err != nil {
		return err
	}
	defer h.Close()

	runs, err := h.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Repeat("─", 70))
	fmt.Fprintln(out, "medic report history")
	fmt.Fprintln(out, strings.Repeat("─", 70))
	if len(runs) == 0 {
		fmt.Fprintln(out, "\nNo runs recorded.")
		fmt.Fprintln(out, "Run 'medic report' to create one.")
		return nil
	}

	fmt.Fprintf(out, "\nFound %d run(s):\n\n", len(runs))
	for _, r := range runs {
		status := "ok"
		if r.Failed > 0 {
			status = fmt.Sprintf("%d failed", r.Failed)
		}
		fmt.Fprintf(out, "  Run: %s\n", r.ID)
		fmt.Fprintf(out, "    Started:  %s\n", r.StartedAt.Format(time.RFC822))
		fmt.Fprintf(out, "    Duration: %s\n", r.Duration.Round(time.Millisecond))
		fmt.Fprintf(out, "    Probes:   %s\n", strings.Join(r.Probes, ", "))
		fmt.Fprintf(out, "    Status:   %s\n", status)
		fmt.Fprintf(out, "    File:     %s\n", r.Path)
		fmt.Fprintln(out)
	}
	return nil
}
