package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/Iron-Ham/medic/internal/report"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// hostStats are kernel counters that are not available on every platform.
type hostStats struct {
	Uptime   time.Duration
	Load     [3]float64
	TotalRAM uint64
	FreeRAM  uint64
	Procs    int
}

// SystemProbe reports on the host, the Go runtime and this process.
type SystemProbe struct {
	lastReport
	started  time.Time
	hostname func() (string, error)
	stats    func() (hostStats, bool)
}

// NewSystemProbe returns a system probe measuring process uptime from started.
func NewSystemProbe(started time.Time) *SystemProbe {
	return &SystemProbe{
		started:  started,
		hostname: os.Hostname,
		stats:    readHostStats,
	}
}

func (p *SystemProbe) Kind() Kind    { return KindSystem }
func (p *SystemProbe) Title() string { return "System Information" }
func (p *SystemProbe) Description() string {
	return "Host, kernel, memory and Go runtime details"
}

// Run prints host, memory and process sections.
func (p *SystemProbe) Run(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	hostname, err := p.hostname()
	if err != nil {
		hostname = "unknown"
	}
	stats, haveStats := p.stats()
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	view.Section(w, "Host")
	view.KV(w, "Hostname", hostname)
	view.KV(w, "Operating System", runtime.GOOS)
	view.KV(w, "Architecture", runtime.GOARCH)
	view.KVf(w, "CPUs", "%d", runtime.NumCPU())
	if haveStats {
		view.KV(w, "Uptime", formatDuration(stats.Uptime))
		view.KVf(w, "Load Average", "%.2f %.2f %.2f", stats.Load[0], stats.Load[1], stats.Load[2])
		view.KVf(w, "Processes", "%d", stats.Procs)
	}

	view.Section(w, "Memory")
	if haveStats && stats.TotalRAM > 0 {
		used := stats.TotalRAM - min(stats.FreeRAM, stats.TotalRAM)
		view.KV(w, "Total RAM", formatBytes(stats.TotalRAM))
		view.KV(w, "Free RAM", formatBytes(stats.FreeRAM))
		view.Bar(w, used, stats.TotalRAM, 30)
	} else {
		view.Info(w, "Host memory counters unavailable on "+runtime.GOOS)
	}
	view.KV(w, "Heap In Use", formatBytes(mem.HeapInuse))
	view.KV(w, "Runtime Reserved", formatBytes(mem.Sys))
	view.KVf(w, "GC Cycles", "%d", mem.NumGC)

	view.Section(w, "Process")
	view.KV(w, "Go Runtime", runtime.Version())
	view.KVf(w, "PID", "%d", os.Getpid())
	view.KVf(w, "Goroutines", "%d", runtime.NumGoroutine())
	view.KV(w, "Process Uptime", formatDuration(time.Since(p.started)))

	fmt.Fprintln(w)
	view.OK(w, "System information collected successfully")

	blk := report.NewBlock(p.Title()).
		Field("Hostname", hostname).
		Field("Operating System", runtime.GOOS).
		Field("Architecture", runtime.GOARCH).
		Fieldf("CPUs", "%d", runtime.NumCPU()).
		Field("Go Runtime", runtime.Version())
	if haveStats {
		blk.Field("Uptime", formatDuration(stats.Uptime)).
			Fieldf("Load Average", "%.2f %.2f %.2f", stats.Load[0], stats.Load[1], stats.Load[2]).
			Field("Total RAM", formatBytes(stats.TotalRAM)).
			Field("Free RAM", formatBytes(stats.FreeRAM))
	}
	blk.Field("Heap In Use", formatBytes(mem.HeapInuse))
	p.set(blk.String())
	return nil
}

// formatBytes renders n with a binary unit, e.g. "1.5 MB".
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit && exp < 4; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTP"[exp])
}

// formatDuration renders d as "3d 4h 5m" down to seconds for short spans.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	seconds := (d - minutes*time.Minute) / time.Second

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
