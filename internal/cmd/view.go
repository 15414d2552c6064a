package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/pager"
	"github.com/Iron-Ham/medic/internal/tui/styles"
	"github.com/Iron-Ham/medic/internal/tui/terminal"
	"github.com/Iron-Ham/medic/internal/util"
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Page through a text file",
	Long: `Page through a text file, or standard input, in the medic viewer.

The viewer reads keys straight from the terminal, so text can be piped in:
  medic probe disk | medic view
  medic view medic_report.txt

When no terminal is available, or with --plain, the text is printed
with the viewer's title and rules instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

var (
	viewPlain bool
	viewTitle string
)

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().BoolVar(&viewPlain, "plain", false, "Print without paging")
	viewCmd.Flags().StringVarP(&viewTitle, "title", "t", "", "Viewer title (default: file name)")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	title, text, err := readViewSource(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if viewTitle != "" {
		title = viewTitle
	}
	lines := util.SplitLines(text)
	out := cmd.OutOrStdout()

	if viewPlain || !isTerminal(out) {
		return writePlain(out, title, lines, cfg.Viewer.Width)
	}

	logger := createLogger(cfg)
	defer logger.Close()

	sess, err := terminal.Open(logger)
	if errors.Is(err, errors.ErrNoTerminal) {
		return writePlain(out, title, lines, cfg.Viewer.Width)
	}
	if err != nil {
		return err
	}
	defer sess.Restore()

	km, err := loadKeymap(cfg)
	if err != nil {
		return err
	}
	width, opts := fitViewer(cfg, sess)
	hint, legend := km.ViewerTexts()
	opts.Hint, opts.Legend = hint, legend

	v := pager.Open(title, lines, opts)
	input := terminal.NewInput(sess.Reader(), km)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	err = pager.Run(ctx, v, input, sess.Writer(), cfg.Viewer.FrameInterval(), styles.Painter{Width: width})
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err == nil {
		err = input.Err()
	}
	_, _ = io.WriteString(sess.Writer(), "\x1b[2J\x1b[H")
	return err
}

// readViewSource returns the title and contents to page. "-" or no
// argument reads stdin, which must not be a terminal.
func readViewSource(stdin io.Reader, args []string) (title, text string, err error) {
	if len(args) == 0 || args[0] == "-" {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "", "", errors.NewValidationError("pass a file or pipe text into medic view").WithField("input")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", errors.Wrap(err, "read stdin")
		}
		return "stdin", string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", errors.Wrapf(err, "read %s", args[0])
	}
	return filepath.Base(args[0]), string(data), nil
}

// fitViewer sizes the viewer to the terminal, never exceeding the
// configured row count.
func fitViewer(cfg *config.Config, sess *terminal.Session) (int, pager.Options) {
	opts := pager.Options{Rows: cfg.Viewer.VisibleRows, Width: cfg.Viewer.Width}
	width, height, err := sess.Size()
	if err != nil {
		return 0, opts
	}
	if avail := height - 4; avail < opts.Rows {
		opts.Rows = max(avail, 1)
	}
	return width, opts
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writePlain prints the whole document framed like the viewer.
func writePlain(w io.Writer, title string, lines []string, width int) error {
	if width <= 0 {
		width = pager.DefaultWidth
	}
	rule := strings.Repeat("-", width)
	if _, err := fmt.Fprintf(w, " %s\n %s\n", title, rule); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, " %s\n", rule)
	return err
}
