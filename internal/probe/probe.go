// Package probe implements the host diagnostics shown in the medic menu.
//
// A Probe prints a human-readable result to an io.Writer (normally a
// capture.LineBuffer) and keeps a fixed-format report block describing its
// last run. Probes are looked up by Kind or by glob pattern through a
// Registry, which keeps them in menu order.
package probe

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/logging"
)

// Kind identifies a probe.
type Kind int

const (
	KindSystem Kind = iota
	KindDisk
	KindToolchain
	KindStorage
	KindInput
	KindNetwork
	KindReport
)

var kindNames = [...]string{
	KindSystem:    "system",
	KindDisk:      "disk",
	KindToolchain: "toolchain",
	KindStorage:   "storage",
	KindInput:     "input",
	KindNetwork:   "network",
	KindReport:    "report",
}

// String returns the name used on the command line.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, errors.NewNotFoundError("probe", s)
}

// Probe is one diagnostic.
type Probe interface {
	Kind() Kind
	// Title is shown as the menu label and the viewer header.
	Title() string
	// Description is the one-line help shown under the menu.
	Description() string
	// Run performs the checks and writes the results to w.
	Run(ctx context.Context, w io.Writer) error
	// Report returns the report block of the last run, or "" before the
	// first run.
	Report() string
}

// lastReport holds the report block of a probe's last run.
type lastReport struct {
	mu   sync.Mutex
	text string
}

func (l *lastReport) set(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}

// Report returns the stored block.
func (l *lastReport) Report() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// Execute runs p into w and logs how it went.
func Execute(ctx context.Context, p Probe, w io.Writer, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.NopLogger()
	}
	log := logger.WithProbe(p.Kind().String())
	log.Debug("probe started")

	start := time.Now()
	err := p.Run(ctx, w)
	elapsed := time.Since(start)

	if err != nil {
		log.Warn("probe failed", "duration_ms", elapsed.Milliseconds(), "error", err)
		return err
	}
	log.Info("probe finished", "duration_ms", elapsed.Milliseconds())
	return nil
}

// Registry keeps probes in menu order.
type Registry struct {
	probes []Probe
}

// NewRegistry returns a registry holding probes in the given order.
func NewRegistry(probes ...Probe) *Registry {
	return &Registry{probes: slices.Clone(probes)}
}

// Register appends p.
func (r *Registry) Register(p Probe) {
	r.probes = append(r.probes, p)
}

// All returns every probe in menu order.
func (r *Registry) All() []Probe {
	return slices.Clone(r.probes)
}

// Diagnostics returns every probe except the report generator.
func (r *Registry) Diagnostics() []Probe {
	var out []Probe
	for _, p := range r.probes {
		if p.Kind() != KindReport {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the probe of the given kind.
func (r *Registry) Get(kind Kind) (Probe, error) {
	for _, p := range r.probes {
		if p.Kind() == kind {
			return p, nil
		}
	}
	return nil, errors.NewNotFoundError("probe", kind.String())
}

// Match returns the probes whose names match any of patterns, in menu
// order. Patterns use glob syntax ("net*", "{disk,storage}"). No patterns
// selects Diagnostics(). A pattern matching nothing is an error.
func (r *Registry) Match(patterns []string) ([]Probe, error) {
	if len(patterns) == 0 {
		return r.Diagnostics(), nil
	}

	selected := make([]bool, len(r.probes))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewValidationError("invalid probe pattern").WithField("pattern").WithValue(pattern)
		}
		matched := false
		for i, p := range r.probes {
			if g.Match(p.Kind().String()) {
				selected[i] = true
				matched = true
			}
		}
		if !matched {
			return nil, errors.NewNotFoundError("probe", pattern)
		}
	}

	var out []Probe
	for i, p := range r.probes {
		if selected[i] {
			out = append(out, p)
		}
	}
	return out, nil
}
