package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/report"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// BenchmarkFile is created inside each target while it is benchmarked.
const BenchmarkFile = ".medic_benchmark.tmp"

// StorageOptions configures the throughput benchmark.
type StorageOptions struct {
	Targets    []string
	FileSize   int // bytes
	BlockSize  int // bytes
	Iterations int
	GoodKBps   float64
	OKKBps     float64
}

// StorageOptionsFromConfig converts the storage config section.
func StorageOptionsFromConfig(c config.StorageConfig) StorageOptions {
	return StorageOptions{
		Targets:    c.Targets,
		FileSize:   c.FileSizeKB * 1024,
		BlockSize:  c.BlockSizeKB * 1024,
		Iterations: c.Iterations,
		GoodKBps:   float64(c.GoodKBps),
		OKKBps:     float64(c.OKKBps),
	}
}

// Throughput is the averaged result of one benchmark.
type Throughput struct {
	WriteKBps float64
	ReadKBps  float64
}

// Rate classifies a benchmark. Both directions must beat a threshold for
// the rating to apply.
func Rate(t Throughput, good, ok float64) (string, view.Status) {
	switch {
	case t.WriteKBps > good && t.ReadKBps > good:
		return "Excellent", view.StatusOK
	case t.WriteKBps > ok && t.ReadKBps > ok:
		return "Acceptable", view.StatusWarn
	default:
		return "Slow - may delay builds and package installs", view.StatusErr
	}
}

func speedStatus(kbps, good, ok float64) view.Status {
	switch {
	case kbps > good:
		return view.StatusOK
	case kbps > ok:
		return view.StatusWarn
	default:
		return view.StatusErr
	}
}

// StorageProbe benchmarks sequential write and read speed of each target.
type StorageProbe struct {
	lastReport
	opts StorageOptions
}

// NewStorageProbe returns a storage probe. Zero sizes fall back to a 1 MB
// file written in 32 KB blocks three times.
func NewStorageProbe(opts StorageOptions) *StorageProbe {
	if opts.FileSize <= 0 {
		opts.FileSize = 1024 * 1024
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = 32 * 1024
	}
	opts.BlockSize = min(opts.BlockSize, opts.FileSize)
	if opts.Iterations <= 0 {
		opts.Iterations = 3
	}
	return &StorageProbe{opts: opts}
}

func (p *StorageProbe) Kind() Kind    { return KindStorage }
func (p *StorageProbe) Title() string { return "Storage Speed Test" }
func (p *StorageProbe) Description() string {
	return "Write and read throughput of the configured directories"
}

// Run benchmarks every target in order. A missing target is reported and
// skipped; Run fails only when no target could be benchmarked.
func (p *StorageProbe) Run(ctx context.Context, w io.Writer) error {
	blk := report.NewBlock(p.Title())
	tested := 0

	for _, target := range p.opts.Targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		view.Section(w, target)

		files, dirs, err := countEntries(target)
		if err != nil {
			view.Warn(w, fmt.Sprintf("%s not detected or not accessible", target))
			view.Info(w, "Check the path in storage.targets")
			blk.Field(target, "Not detected")
			continue
		}
		view.OK(w, fmt.Sprintf("%s detected", target))
		view.KVf(w, "Root Contents", "%d files, %d folders", files, dirs)

		fmt.Fprintf(w, "%sRunning write and read speed test...\n", view.Indent)
		tp, err := p.benchmark(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			view.Err(w, fmt.Sprintf("Cannot benchmark %s: %v", target, err))
			blk.Field(target, "Detected, benchmark failed")
			continue
		}
		tested++

		fmt.Fprintln(w)
		view.KVStatus(w, "Write Speed", speedStatus(tp.WriteKBps, p.opts.GoodKBps, p.opts.OKKBps), formatSpeed(tp.WriteKBps))
		view.KVStatus(w, "Read Speed", speedStatus(tp.ReadKBps, p.opts.GoodKBps, p.opts.OKKBps), formatSpeed(tp.ReadKBps))

		rating, status := Rate(tp, p.opts.GoodKBps, p.opts.OKKBps)
		msg := "Speed Rating: " + rating
		switch status {
		case view.StatusOK:
			view.OK(w, msg)
		case view.StatusWarn:
			view.Warn(w, msg)
		default:
			view.Err(w, msg)
		}
		blk.Field(target, fmt.Sprintf("Write %.1f KB/s, Read %.1f KB/s (%s)", tp.WriteKBps, tp.ReadKBps, rating))
	}

	view.Section(w, "Tips")
	view.Info(w, "Local SSDs usually exceed 100 MB/s in both directions")
	view.Info(w, "Network and FUSE mounts are often the slowest targets")

	p.set(blk.String())

	fmt.Fprintln(w)
	if tested == 0 {
		view.Err(w, "No storage target could be benchmarked")
		return errors.NewProbeError("no storage target available", errors.ErrDeviceNotPresent).
			WithProbe(KindStorage.String())
	}
	view.OK(w, "Storage test complete")
	return nil
}

func countEntries(dir string) (files, dirs int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if e.IsDir() {
			dirs++
		} else {
			files++
		}
	}
	return files, dirs, nil
}

// benchmark writes and reads a scratch file Iterations times and averages
// the elapsed time per pass. The scratch file is always removed.
func (p *StorageProbe) benchmark(ctx context.Context, dir string) (Throughput, error) {
	path := filepath.Join(dir, BenchmarkFile)
	defer os.Remove(path)

	buf := make([]byte, p.opts.BlockSize)
	for i := range buf {
		buf[i] = byte(i & 0xFF)
	}
	blocks := p.opts.FileSize / p.opts.BlockSize

	var writeTotal, readTotal time.Duration
	for range p.opts.Iterations {
		if err := ctx.Err(); err != nil {
			return Throughput{}, err
		}
		d, err := timeWrite(path, buf, blocks)
		if err != nil {
			return Throughput{}, err
		}
		writeTotal += d
	}
	for range p.opts.Iterations {
		if err := ctx.Err(); err != nil {
			return Throughput{}, err
		}
		d, err := timeRead(path, buf, blocks)
		if err != nil {
			return Throughput{}, err
		}
		readTotal += d
	}

	kb := float64(blocks*p.opts.BlockSize) / 1024
	n := time.Duration(p.opts.Iterations)
	return Throughput{
		WriteKBps: kbPerSecond(kb, writeTotal/n),
		ReadKBps:  kbPerSecond(kb, readTotal/n),
	}, nil
}

func timeWrite(path string, buf []byte, blocks int) (time.Duration, error) {
	start := time.Now()
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	for range blocks {
		if _, err := f.Write(buf); err != nil {
			f.Close()
			return 0, err
		}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func timeRead(path string, buf []byte, blocks int) (time.Duration, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	for range blocks {
		if _, err := io.ReadFull(f, buf); err != nil {
			return 0, err
		}
	}
	return time.Since(start), nil
}

func kbPerSecond(kb float64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return kb / d.Seconds()
}

func formatSpeed(kbps float64) string {
	return fmt.Sprintf("%.1f KB/s (%.2f MB/s)", kbps, kbps/1024)
}
