package probe

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/logging"
	"github.com/Iron-Ham/medic/internal/report"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// ReportOptions controls where the full report goes.
type ReportOptions struct {
	Dir         string
	FileName    string
	StripStyles bool
	// HistoryDB is the sqlite file runs are recorded in; empty disables it.
	HistoryDB string
}

// ReportOptionsFromConfig converts the report config section.
func ReportOptionsFromConfig(c config.ReportConfig) ReportOptions {
	return ReportOptions{
		Dir:         c.Dir,
		FileName:    c.FileName,
		StripStyles: c.StripStyles,
		HistoryDB:   c.ResolveHistoryDB(),
	}
}

// ReportProbe runs every other probe with its output discarded, collects
// their report blocks and writes them to one file.
type ReportProbe struct {
	lastReport
	opts   ReportOptions
	probes []Probe
	logger *logging.Logger
	now    func() time.Time
}

// NewReportProbe returns a report generator over probes.
func NewReportProbe(opts ReportOptions, probes []Probe, logger *logging.Logger) *ReportProbe {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.FileName == "" {
		opts.FileName = "medic_report.txt"
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &ReportProbe{opts: opts, probes: probes, logger: logger, now: time.Now}
}

func (p *ReportProbe) Kind() Kind    { return KindReport }
func (p *ReportProbe) Title() string { return "Generate Full Report" }
func (p *ReportProbe) Description() string {
	return "Run every diagnostic and save the results to a text file"
}

// Run executes each probe, writes the report file and records the run.
// A failing probe is listed but does not stop the report; a history
// failure is only a warning.
func (p *ReportProbe) Run(ctx context.Context, w io.Writer) error {
	runID := report.NewRunID()
	started := p.now()
	log := p.logger.WithRun(runID)

	agg := report.NewAggregator(runID, started)
	agg.StripStyles = p.opts.StripStyles

	view.Section(w, "Collecting")
	var kinds []string
	failed := 0
	for _, sub := range p.probes {
		if sub.Kind() == KindReport {
			continue
		}
		err := Execute(ctx, sub, io.Discard, log)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		kinds = append(kinds, sub.Kind().String())
		if err != nil {
			failed++
			view.Err(w, fmt.Sprintf("%s: %v", sub.Title(), err))
		} else {
			view.OK(w, sub.Title())
		}
		agg.Add(sub.Report())
	}

	path, err := agg.WriteFile(p.opts.Dir, p.opts.FileName)
	if err != nil {
		view.Err(w, "Report could not be saved")
		view.Info(w, err.Error())
		log.Error("report write failed", "error", err)
		return err
	}
	elapsed := p.now().Sub(started)

	view.Section(w, "Saved")
	view.KV(w, "Report File", path)
	view.KVf(w, "Sections", "%d", agg.Len())
	view.KV(w, "Run ID", runID)
	if failed > 0 {
		view.KVStatus(w, "Failed Probes", view.StatusWarn, fmt.Sprintf("%d", failed))
	}

	recorded := p.record(ctx, report.Run{
		ID:        runID,
		StartedAt: started,
		Duration:  elapsed,
		Path:      path,
		Probes:    kinds,
		Failed:    failed,
	}, w)

	fmt.Fprintln(w)
	view.OK(w, "Report generated successfully")
	log.Info("report written", "path", path, "sections", agg.Len(), "failed", failed)

	blk := report.NewBlock("Report").
		Field("Run ID", runID).
		Field("File", path).
		Fieldf("Probes", "%d", len(kinds)).
		Fieldf("Failed", "%d", failed)
	if recorded {
		blk.Field("History", p.opts.HistoryDB)
	}
	p.set(blk.String())
	return nil
}

func (p *ReportProbe) record(ctx context.Context, run report.Run, w io.Writer) bool {
	h, err := report.OpenHistory(p.opts.HistoryDB, p.logger)
	if errors.Is(err, errors.ErrHistoryUnavailable) {
		return false
	}
	if err != nil {
		view.Warn(w, "History not recorded: "+err.Error())
		return false
	}
	defer h.Close()

	if _, err := h.Record(ctx, run); err != nil {
		view.Warn(w, "History not recorded: "+err.Error())
		return false
	}
	view.KV(w, "History", p.opts.HistoryDB)
	return true
}
