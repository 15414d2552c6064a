package report

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/util"
)

// Aggregator concatenates report blocks in the order they are added.
type Aggregator struct {
	// StripStyles removes terminal escapes when writing the file.
	StripStyles bool

	runID     string
	generated time.Time
	blocks    []string
}

// NewAggregator starts a report for one run.
func NewAggregator(runID string, generated time.Time) *Aggregator {
	return &Aggregator{StripStyles: true, runID: runID, generated: generated}
}

// Add appends block unmodified. Empty blocks are skipped.
func (a *Aggregator) Add(block string) {
	if block == "" {
		return
	}
	a.blocks = append(a.blocks, block)
}

// Len returns the number of blocks added.
func (a *Aggregator) Len() int { return len(a.blocks) }

// RunID returns the run identifier written in the header.
func (a *Aggregator) RunID() string { return a.runID }

func (a *Aggregator) header() string {
	return NewBlock("medic diagnostic report").
		Field("Generated", a.generated.Format(time.RFC3339)).
		Field("Run", a.runID).
		String()
}

// String returns the header followed by every block.
func (a *Aggregator) String() string {
	var b strings.Builder
	b.WriteString(a.header())
	for _, block := range a.blocks {
		b.WriteString(block)
	}
	return b.String()
}

// WriteFile writes the report to dir/name and returns the path written.
// dir is created if missing.
func (a *Aggregator) WriteFile(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewReportError("failed to create report directory", err).WithPath(dir)
	}
	text := a.String()
	if a.StripStyles {
		text = util.StripANSI(text)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", errors.NewReportError("failed to write report", err).WithPath(path)
	}
	return path, nil
}
