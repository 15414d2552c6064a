// Package testutil provides test doubles shared by medic's package tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Iron-Ham/medic/internal/probe"
)

// Probe is a scripted probe.Probe. Run writes Output and then returns Err,
// or, when Block is set, waits for the context to end.
type Probe struct {
	ProbeKind probe.Kind
	// Name is the title; it defaults to "Stub <kind>".
	Name string
	// Desc defaults to "scripted <kind> probe".
	Desc   string
	Output string
	Err    error
	Block  bool
	// ReportText defaults to a bare "=== KIND ===" block.
	ReportText string

	runs atomic.Int32
}

func (p *Probe) Kind() probe.Kind { return p.ProbeKind }

func (p *Probe) Title() string {
	if p.Name != "" {
		return p.Name
	}
	return "Stub " + p.ProbeKind.String()
}

func (p *Probe) Description() string {
	if p.Desc != "" {
		return p.Desc
	}
	return "scripted " + p.ProbeKind.String() + " probe"
}

func (p *Probe) Report() string {
	if p.ReportText != "" {
		return p.ReportText
	}
	return "=== " + strings.ToUpper(p.ProbeKind.String()) + " ===\n\n"
}

func (p *Probe) Run(ctx context.Context, w io.Writer) error {
	p.runs.Add(1)
	if _, err := io.WriteString(w, p.Output); err != nil {
		return err
	}
	if p.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.Err
}

// Runs returns how many times Run was called.
func (p *Probe) Runs() int {
	return int(p.runs.Load())
}

// NumberedLines returns n lines "<prefix> 1" through "<prefix> n", each
// ending in a newline.
func NumberedLines(prefix string, n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "%s %d\n", prefix, i+1)
	}
	return sb.String()
}

// IsolateEnv points the config directory at a temp dir and turns file
// logging off for the rest of the test.
func IsolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("MEDIC_LOGGING_ENABLED", "false")
	return dir
}
