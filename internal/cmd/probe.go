package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/probe"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

var probeCmd = &cobra.Command{
	Use:   "probe [pattern...]",
	Short: "Run diagnostics without the interactive menu",
	Long: `Run diagnostics and print their output directly.

Patterns are glob expressions matched against probe names. Without a
pattern every diagnostic runs, except the report generator.

Examples:
  medic probe                # every diagnostic
  medic probe disk           # disk health only
  medic probe 's*'           # system and storage
  medic probe 't*' input     # toolchain scan and controllers
  medic probe '{disk,net*}'  # disk and network
  medic probe --list         # show probe names`,
	RunE: runProbe,
}

var probeList bool

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolVarP(&probeList, "list", "l", false, "List probe names and exit")
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := createLogger(cfg)
	defer logger.Close()

	registry := newRegistry(cfg, logger)
	out := cmd.OutOrStdout()

	if probeList {
		for _, p := range registry.All() {
			fmt.Fprintf(out, "%-10s %s\n", p.Kind(), p.Description())
		}
		return nil
	}

	probes, err := registry.Match(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	var failed []string
	for _, p := range probes {
		if err := probe.Execute(ctx, p, out, logger); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(out)
			view.Err(out, "Probe failed: "+err.Error())
			failed = append(failed, p.Kind().String())
		}
		fmt.Fprintln(out)
	}

	if len(failed) > 0 {
		perr := errors.NewProbeError(fmt.Sprintf("%d of %d probes failed", len(failed), len(probes)), errors.ErrProbeFailed).
			WithProbe(strings.Join(failed, ","))
		if len(failed) == len(probes) {
			perr = perr.WithSeverity(errors.SeverityError)
		}
		return perr
	}
	return nil
}
