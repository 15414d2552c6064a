package probe

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/report"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// ToolStatus classifies one checked program.
type ToolStatus int

const (
	ToolInstalled ToolStatus = iota
	ToolOutdated
	// ToolStub is a program found in PATH that does not report a version.
	ToolStub
	ToolMissing
)

var toolStatusNames = [...]string{
	ToolInstalled: "Installed",
	ToolOutdated:  "Outdated",
	ToolStub:      "Stub",
	ToolMissing:   "Missing",
}

func (s ToolStatus) String() string {
	if s < 0 || int(s) >= len(toolStatusNames) {
		return "Unknown"
	}
	return toolStatusNames[s]
}

// ToolResult is the outcome of checking one tool.
type ToolResult struct {
	Tool    config.ToolConfig
	Path    string
	Version string
	Status  ToolStatus
	Err     error
}

// VersionFunc runs the program at path and returns what it printed.
type VersionFunc func(ctx context.Context, path string, args ...string) ([]byte, error)

func commandOutput(ctx context.Context, path string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, path, args...).CombinedOutput()
}

// versionPattern matches the first dotted number in version output, e.g.
// "1.25.5" in "go version go1.25.5 linux/amd64".
var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)+`)

// ToolchainProbe audits the developer tools installed on the host.
type ToolchainProbe struct {
	lastReport
	tools    []config.ToolConfig
	timeout  time.Duration
	lookPath func(file string) (string, error)
	version  VersionFunc
}

// NewToolchainProbe returns a probe checking tools, bounding each version
// command by timeout.
func NewToolchainProbe(tools []config.ToolConfig, timeout time.Duration) *ToolchainProbe {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ToolchainProbe{
		tools:    tools,
		timeout:  timeout,
		lookPath: exec.LookPath,
		version:  commandOutput,
	}
}

func (p *ToolchainProbe) Kind() Kind    { return KindToolchain }
func (p *ToolchainProbe) Title() string { return "Toolchain Scan" }
func (p *ToolchainProbe) Description() string {
	return "Audit installed developer tools, detect missing and stub installs"
}

// Scan checks every tool concurrently. Results keep the order of tools.
func (p *ToolchainProbe) Scan(ctx context.Context) ([]ToolResult, error) {
	results := make([]ToolResult, len(p.tools))
	g, gctx := errgroup.WithContext(ctx)
	for i, tool := range p.tools {
		g.Go(func() error {
			results[i] = p.checkOne(gctx, tool)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

func (p *ToolchainProbe) checkOne(ctx context.Context, tool config.ToolConfig) ToolResult {
	res := ToolResult{Tool: tool}
	path, err := p.lookPath(tool.Command)
	if err != nil {
		res.Status = ToolMissing
		res.Err = err
		return res
	}
	res.Path = path

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	out, err := p.version(ctx, path, tool.Args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.NewTimeoutError(tool.Command+" version", p.timeout).WithCause(err)
		}
		res.Status = ToolStub
		res.Err = err
		return res
	}

	res.Version = versionPattern.FindString(string(out))
	switch {
	case res.Version == "":
		res.Status = ToolStub
		res.Err = errors.New("no version in output")
	case tool.MinVersion != "" && compareVersions(res.Version, tool.MinVersion) < 0:
		res.Status = ToolOutdated
	default:
		res.Status = ToolInstalled
	}
	return res
}

// compareVersions compares dotted versions numerically. Missing components
// count as zero, so "1.22" equals "1.22.0".
func compareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := range max(len(as), len(bs)) {
		x, y := versionPart(as, i), versionPart(bs, i)
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

func versionPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, _ := strconv.Atoi(parts[i])
	return n
}

// Run lists every configured tool with its version and a summary. Missing
// or broken tools are reported, not treated as a probe failure.
func (p *ToolchainProbe) Run(ctx context.Context, w io.Writer) error {
	blk := report.NewBlock(p.Title())

	view.Section(w, "Installed Tools")
	if len(p.tools) == 0 {
		view.Info(w, "No tools configured in toolchain.tools")
		blk.Field("Tools Checked", "none configured")
		p.set(blk.String())
		return nil
	}

	results, err := p.Scan(ctx)
	if err != nil {
		return err
	}

	var counts [len(toolStatusNames)]int
	for _, r := range results {
		counts[r.Status]++
		label := r.Tool.Name
		if label == "" {
			label = r.Tool.Command
		}
		switch r.Status {
		case ToolInstalled:
			view.KVStatus(w, label, view.StatusOK, r.Version)
			blk.Field(label, r.Version)
		case ToolOutdated:
			view.KVStatus(w, label, view.StatusWarn, fmt.Sprintf("%s (below %s)", r.Version, r.Tool.MinVersion))
			blk.Fieldf(label, "%s (outdated, minimum %s)", r.Version, r.Tool.MinVersion)
		case ToolStub:
			view.KVStatus(w, label, view.StatusErr, "STUB ("+shortError(r.Err)+")")
			blk.Field(label, "Stub at "+r.Path)
		default:
			view.KVStatus(w, label, view.StatusInfo, "not installed")
			blk.Field(label, "Not installed")
		}
	}

	view.Section(w, "Summary")
	view.KVf(w, "Installed", "%d", counts[ToolInstalled])
	view.KVf(w, "Outdated", "%d", counts[ToolOutdated])
	view.KVf(w, "Stubs", "%d", counts[ToolStub])
	view.KVf(w, "Missing", "%d", counts[ToolMissing])
	blk.Fieldf("Tools Checked", "%d", len(results)).
		Fieldf("Installed", "%d", counts[ToolInstalled]).
		Fieldf("Outdated", "%d", counts[ToolOutdated]).
		Fieldf("Stubs", "%d", counts[ToolStub]).
		Fieldf("Missing", "%d", counts[ToolMissing])
	p.set(blk.String())

	fmt.Fprintln(w)
	switch {
	case counts[ToolStub] > 0:
		view.Warn(w, fmt.Sprintf("%d tool(s) found in PATH but not working", counts[ToolStub]))
	case counts[ToolOutdated] > 0:
		view.Warn(w, fmt.Sprintf("%d tool(s) older than the configured minimum", counts[ToolOutdated]))
	case counts[ToolMissing] == len(results):
		view.Info(w, "None of the configured tools is installed")
	default:
		view.OK(w, fmt.Sprintf("%d of %d tools installed and current", counts[ToolInstalled], len(results)))
	}
	return nil
}
