package probe

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/report"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// fsStats are the filesystem counters the disk probe scores.
type fsStats struct {
	BlockSize  uint64
	Blocks     uint64
	BlocksFree uint64
	Files      uint64
	FilesFree  uint64
}

// Health status thresholds.
const (
	ScoreGood = 80
	ScoreFair = 50
)

// HealthScore starts at 100 and deducts 30, 15 or 5 points when block or
// inode usage is above 95, 85 or 75 percent. The result is never negative.
func HealthScore(blockPct, inodePct float64) int {
	score := 100 - usagePenalty(blockPct) - usagePenalty(inodePct)
	return max(score, 0)
}

func usagePenalty(pct float64) int {
	switch {
	case pct > 95:
		return 30
	case pct > 85:
		return 15
	case pct > 75:
		return 5
	default:
		return 0
	}
}

// HealthStatus names a score and picks its marker.
func HealthStatus(score int) (string, view.Status) {
	switch {
	case score >= ScoreGood:
		return "GOOD", view.StatusOK
	case score >= ScoreFair:
		return "FAIR - Monitor closely", view.StatusWarn
	default:
		return "POOR - Action recommended", view.StatusErr
	}
}

// DefaultDiskPath returns the root of the system drive.
func DefaultDiskPath() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// DiskProbe scores the filesystem holding Path.
type DiskProbe struct {
	lastReport
	path   string
	statfs func(path string) (fsStats, error)
}

// NewDiskProbe returns a disk probe for the filesystem containing path.
func NewDiskProbe(path string) *DiskProbe {
	return &DiskProbe{path: path, statfs: statFS}
}

func (p *DiskProbe) Kind() Kind    { return KindDisk }
func (p *DiskProbe) Title() string { return "Disk Health Check" }
func (p *DiskProbe) Description() string {
	return "Filesystem block and inode usage with a health score"
}

// Run prints block and inode usage, the health score and recommendations.
func (p *DiskProbe) Run(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	st, err := p.statfs(p.path)
	if err != nil {
		view.Err(w, fmt.Sprintf("Cannot read filesystem at %s", p.path))
		view.Info(w, err.Error())
		p.set(report.NewBlock(p.Title()).
			Field("Path", p.path).
			Field("Status", "Unavailable").
			String())
		return errors.NewProbeError("statfs failed", err).WithProbe(KindDisk.String()).WithTarget(p.path)
	}

	blocksUsed := st.Blocks - min(st.BlocksFree, st.Blocks)
	filesUsed := st.Files - min(st.FilesFree, st.Files)
	blockPct := view.Percent(blocksUsed, st.Blocks)
	inodePct := view.Percent(filesUsed, st.Files)

	view.Section(w, "Filesystem")
	view.KV(w, "Path", p.path)
	view.KV(w, "Block Size", formatBytes(st.BlockSize))
	view.KVf(w, "Blocks Used", "%d / %d", blocksUsed, st.Blocks)
	view.KVf(w, "Blocks Free", "%d (%s)", st.BlocksFree, formatBytes(st.BlocksFree*st.BlockSize))
	view.Bar(w, blocksUsed, st.Blocks, 30)

	view.Section(w, "Inodes")
	if st.Files > 0 {
		view.KVf(w, "Inodes Used", "%d / %d", filesUsed, st.Files)
		view.KVf(w, "Inodes Free", "%d", st.FilesFree)
		view.Bar(w, filesUsed, st.Files, 30)
	} else {
		view.Info(w, "Filesystem does not report inode counts")
	}

	score := HealthScore(blockPct, inodePct)
	status, marker := HealthStatus(score)
	msg := fmt.Sprintf("Disk Health Score: %d/100 - %s", score, status)
	fmt.Fprintln(w)
	switch marker {
	case view.StatusOK:
		view.OK(w, msg)
	case view.StatusWarn:
		view.Warn(w, msg)
	default:
		view.Err(w, msg)
	}

	if blockPct > 85 {
		view.Info(w, "Consider removing unused files to free space")
	}
	if inodePct > 85 {
		view.Info(w, "Too many small files - consider cleanup")
	}

	fmt.Fprintln(w)
	view.OK(w, "Disk health check complete")

	p.set(report.NewBlock(p.Title()).
		Field("Path", p.path).
		Fieldf("Blocks Used", "%d / %d", blocksUsed, st.Blocks).
		Fieldf("Blocks Free", "%d", st.BlocksFree).
		Fieldf("Inodes Used", "%d / %d", filesUsed, st.Files).
		Fieldf("Inodes Free", "%d", st.FilesFree).
		Fieldf("Health Score", "%d/100", score).
		Field("Status", status).
		String())
	return nil
}
