package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/medic/internal/probe"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every diagnostic and save a text report",
	Long: `Run every diagnostic with its output suppressed and write the collected
results to a plain-text report file.

When report.history_db is configured the run is also recorded and can be
listed with 'medic history'.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	reportDir  string
	reportFile string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportDir, "dir", "d", "", "Directory to write the report to (default: report.dir)")
	reportCmd.Flags().StringVarP(&reportFile, "output", "o", "", "Report file name (default: report.file_name)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if reportDir != "" {
		cfg.Report.Dir = reportDir
	}
	if reportFile != "" {
		cfg.Report.FileName = reportFile
	}
	logger := createLogger(cfg)
	defer logger.Close()

	p, err := newRegistry(cfg, logger).Get(probe.KindReport)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	return probe.Execute(ctx, p, cmd.OutOrStdout(), logger)
}
