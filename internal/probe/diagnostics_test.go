package probe

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

func TestSystemProbe_Run(t *testing.T) {
	p := NewSystemProbe(time.Now().Add(-90 * time.Second))
	p.hostname = func() (string, error) { return "medic-host", nil }
	p.stats = func() (hostStats, bool) {
		return hostStats{
			Uptime:   26 * time.Hour,
			Load:     [3]float64{0.5, 0.25, 0.1},
			TotalRAM: 8 << 30,
			FreeRAM:  2 << 30,
			Procs:    321,
		}, true
	}

	var buf bytes.Buffer
	if err := p.Run(t.Context(), &buf); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"--- Host ---", "Hostname", "medic-host", "1d 2h 0m", "0.50 0.25 0.10",
		"8.0 GB", "2.0 GB", "75.0%", "--- Process ---", "1m 30s",
		"[OK] System information collected successfully",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	rep := p.Report()
	if !strings.HasPrefix(rep, "=== SYSTEM INFORMATION ===\n") || !strings.HasSuffix(rep, "\n\n") {
		t.Errorf("Report() = %q", rep)
	}
	if !strings.Contains(rep, "Hostname:            medic-host\n") {
		t.Errorf("Report() missing hostname field: %q", rep)
	}
}

func TestSystemProbe_NoHostStats(t *testing.T) {
	p := NewSystemProbe(time.Now())
	p.hostname = func() (string, error) { return "", errors.New("no name") }
	p.stats = func() (hostStats, bool) { return hostStats{}, false }

	var buf bytes.Buffer
	if err := p.Run(t.Context(), &buf); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "unknown") {
		t.Error("missing hostname fallback")
	}
	if !strings.Contains(buf.String(), "Host memory counters unavailable") {
		t.Error("missing memory fallback notice")
	}
	if strings.Contains(p.Report(), "Total RAM") {
		t.Error("report should omit RAM fields without host stats")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "2s"},
		{65 * time.Second, "1m 5s"},
		{2*time.Hour + 3*time.Minute, "2h 3m"},
		{49 * time.Hour, "2d 1h 0m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name       string
		blocks     float64
		inodes     float64
		want       int
		wantStatus view.Status
	}{
		{"empty", 0, 0, 100, view.StatusOK},
		{"at 75 no penalty", 75, 75, 100, view.StatusOK},
		{"above 75", 76, 10, 95, view.StatusOK},
		{"above 85", 86, 10, 85, view.StatusOK},
		{"both above 85", 86, 90, 70, view.StatusWarn},
		{"above 95", 96, 10, 70, view.StatusWarn},
		{"both above 95", 99, 99, 40, view.StatusErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HealthScore(tt.blocks, tt.inodes)
			if got != tt.want {
				t.Errorf("HealthScore() = %d, want %d", got, tt.want)
			}
			if _, status := HealthStatus(got); status != tt.wantStatus {
				t.Errorf("HealthStatus(%d) = %v, want %v", got, status, tt.wantStatus)
			}
		})
	}
}

func TestHealthStatus_Names(t *testing.T) {
	for score, want := range map[int]string{80: "GOOD", 79: "FAIR - Monitor closely", 50: "FAIR - Monitor closely", 49: "POOR - Action recommended"} {
		if got, _ := HealthStatus(score); got != want {
			t.Errorf("HealthStatus(%d) = %q, want %q", score, got, want)
		}
	}
}

func TestDiskProbe_Run(t *testing.T) {
	p := NewDiskProbe("/data")
	p.statfs = func(path string) (fsStats, error) {
		if path != "/data" {
			t.Errorf("statfs(%q)", path)
		}
		return fsStats{BlockSize: 4096, Blocks: 1000, BlocksFree: 40, Files: 100, FilesFree: 50}, nil
	}

	var buf bytes.Buffer
	if err := p.Run(t.Context(), &buf); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "960 / 1000") || !strings.Contains(out, "96.0%") {
		t.Errorf("block usage missing:\n%s", out)
	}
	if !strings.Contains(out, "[!!] Disk Health Score: 70/100 - FAIR - Monitor closely") {
		t.Errorf("score line missing:\n%s", out)
	}
	if !strings.Contains(out, "Consider removing unused files") {
		t.Error("missing space recommendation")
	}
	if !strings.Contains(p.Report(), "Health Score:        70/100\n") {
		t.Errorf("Report() = %q", p.Report())
	}
}

func TestDiskProbe_StatfsError(t *testing.T) {
	p := NewDiskProbe("/missing")
	p.statfs = func(string) (fsStats, error) { return fsStats{}, os.ErrNotExist }

	var buf bytes.Buffer
	err := p.Run(t.Context(), &buf)
	if !errors.Is(err, errors.ErrProbeFailed) {
		t.Errorf("Run() error = %v, want ErrProbeFailed", err)
	}
	if !strings.Contains(buf.String(), "[XX] Cannot read filesystem at /missing") {
		t.Errorf("output = %q", buf.String())
	}
	if !strings.Contains(p.Report(), "Status:              Unavailable") {
		t.Errorf("Report() = %q", p.Report())
	}
}

func TestDiskProbe_NoInodes(t *testing.T) {
	p := NewDiskProbe("/")
	p.statfs = func(string) (fsStats, error) {
		return fsStats{BlockSize: 512, Blocks: 10, BlocksFree: 9}, nil
	}
	var buf bytes.Buffer
	if err := p.Run(t.Context(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "does not report inode counts") {
		t.Error("missing inode notice")
	}
	if !strings.Contains(buf.String(), "[OK] Disk Health Score: 100/100 - GOOD") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		name  string
		tp    Throughput
		want  string
		wantS view.Status
	}{
		{"both fast", Throughput{3000, 2500}, "Excellent", view.StatusOK},
		{"write ok", Throughput{1500, 2500}, "Acceptable", view.StatusWarn},
		{"at good threshold", Throughput{2000, 2000}, "Acceptable", view.StatusWarn},
		{"read slow", Throughput{3000, 900}, "Slow - may delay builds and package installs", view.StatusErr},
		{"at ok threshold", Throughput{1000, 1000}, "Slow - may delay builds and package installs", view.StatusErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := Rate(tt.tp, 2000, 1000)
			if got != tt.want || status != tt.wantS {
				t.Errorf("Rate() = %q, %v; want %q, %v", got, status, tt.want, tt.wantS)
			}
		})
	}
}

func TestStorageProbe_Run(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "nope")

	p := NewStorageProbe(StorageOptions{
		Targets:    []string{missing, dir},
		FileSize:   64 * 1024,
		BlockSize:  16 * 1024,
		Iterations: 2,
		GoodKBps:   1,
		OKKBps:     0,
	})

	var buf bytes.Buffer
	if err := p.Run(t.Context(), &buf); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		missing + " not detected or not accessible",
		dir + " detected",
		"1 files, 1 folders",
		"Write Speed", "Read Speed", "Speed Rating:",
		"[OK] Storage test complete",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, BenchmarkFile)); !os.IsNotExist(err) {
		t.Error("benchmark file was not removed")
	}

	rep := p.Report()
	if !strings.HasPrefix(rep, "=== STORAGE SPEED TEST ===\n") {
		t.Errorf("Report() = %q", rep)
	}
	if !strings.Contains(rep, "Not detected") || !strings.Contains(rep, "KB/s") {
		t.Errorf("Report() = %q", rep)
	}
}

func TestStorageProbe_NoTargets(t *testing.T) {
	p := NewStorageProbe(StorageOptions{Targets: []string{filepath.Join(t.TempDir(), "gone")}})
	var buf bytes.Buffer
	err := p.Run(t.Context(), &buf)
	if !errors.Is(err, errors.ErrProbeFailed) {
		t.Errorf("Run() error = %v, want ErrProbeFailed", err)
	}
	if !strings.Contains(buf.String(), "No storage target could be benchmarked") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestStorageProbe_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	p := NewStorageProbe(StorageOptions{Targets: []string{t.TempDir()}})
	if err := p.Run(ctx, &bytes.Buffer{}); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestStorageOptionsFromConfig(t *testing.T) {
	opts := StorageOptionsFromConfig(config.Default().Storage)
	if opts.FileSize != 1024*1024 || opts.BlockSize != 32*1024 || opts.Iterations != 3 {
		t.Errorf("sizes = %d/%d/%d", opts.FileSize, opts.BlockSize, opts.Iterations)
	}
	if opts.GoodKBps != 2000 || opts.OKKBps != 1000 {
		t.Errorf("thresholds = %v/%v", opts.GoodKBps, opts.OKKBps)
	}
}

// pipeDial answers every address except those in failing.
func pipeDial(failing map[string]error) DialFunc {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		if err, ok := failing[address]; ok {
			return nil, err
		}
		client, server := net.Pipe()
		_ = server.Close()
		return client, nil
	}
}

func newTestNetworkProbe(hosts []config.HostConfig, dial DialFunc) *NetworkProbe {
	p := NewNetworkProbe(hosts, time.Second)
	p.dial = dial
	p.interfaces = func() ([]net.Interface, error) {
		return []net.Interface{{Name: "lo", Flags: net.FlagUp | net.FlagLoopback}}, nil
	}
	return p
}

func TestNetworkProbe_Dial(t *testing.T) {
	hosts := []config.HostConfig{
		{Name: "a", Address: "a:1"},
		{Name: "b", Address: "b:1"},
		{Name: "c", Address: "c:1"},
	}
	p := newTestNetworkProbe(hosts, pipeDial(map[string]error{"b:1": errors.New("refused")}))

	results, err := p.Dial(t.Context())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Dial() = %d results", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].Host.Name != want {
			t.Errorf("result %d host = %q, want %q", i, results[i].Host.Name, want)
		}
	}
	if results[0].Err != nil || results[1].Err == nil || results[2].Err != nil {
		t.Errorf("errors = %v, %v, %v", results[0].Err, results[1].Err, results[2].Err)
	}
}

func TestNetworkProbe_DialTimeout(t *testing.T) {
	hosts := []config.HostConfig{{Name: "slow", Address: "slow:1"}}
	p := newTestNetworkProbe(hosts, func(ctx context.Context, _, _ string) (net.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	p.timeout = 10 * time.Millisecond

	results, err := p.Dial(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(results[0].Err, errors.ErrTimeout) {
		t.Errorf("Err = %v, want ErrTimeout", results[0].Err)
	}
}

func TestNetworkProbe_Run(t *testing.T) {
	tests := []struct {
		name     string
		failing  map[string]error
		wantErr  bool
		wantLine string
	}{
		{"all reachable", nil, false, "[OK] 2/2 hosts reachable"},
		{"partial", map[string]error{"b:1": errors.New("dial tcp b:1: connection refused")}, false, "[!!] 1/2 hosts reachable"},
		{"none", map[string]error{"a:1": errors.New("x"), "b:1": errors.New("y")}, true, "[XX] 0/2 hosts reachable"},
	}
	hosts := []config.HostConfig{{Name: "Alpha", Address: "a:1"}, {Address: "b:1"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestNetworkProbe(hosts, pipeDial(tt.failing))
			var buf bytes.Buffer
			err := p.Run(t.Context(), &buf)
			if tt.wantErr != (err != nil) {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrUnreachable) {
				t.Errorf("error %v should wrap ErrUnreachable", err)
			}
			out := buf.String()
			if !strings.Contains(out, tt.wantLine) {
				t.Errorf("output missing %q:\n%s", tt.wantLine, out)
			}
			if !strings.Contains(out, "No active non-loopback interface") {
				t.Error("loopback interface should be skipped")
			}
			if !strings.Contains(p.Report(), "=== NETWORK CONNECTIVITY ===") {
				t.Errorf("Report() = %q", p.Report())
			}
		})
	}
}

func TestNetworkProbe_RunPartialShowsReason(t *testing.T) {
	hosts := []config.HostConfig{{Name: "Beta", Address: "b:1"}}
	p := newTestNetworkProbe(hosts, pipeDial(map[string]error{"b:1": errors.New("dial tcp b:1: connection refused")}))
	var buf bytes.Buffer
	_ = p.Run(t.Context(), &buf)
	if !strings.Contains(buf.String(), "Beta: Connection failed (connection refused)") {
		t.Errorf("output = %s", buf.String())
	}
	if !strings.Contains(p.Report(), "Beta:") || !strings.Contains(p.Report(), "Connection failed") {
		t.Errorf("Report() = %q", p.Report())
	}
}

func TestNetworkProbe_NoHosts(t *testing.T) {
	p := newTestNetworkProbe(nil, pipeDial(nil))
	var buf bytes.Buffer
	if err := p.Run(t.Context(), &buf); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No hosts configured") {
		t.Errorf("output = %s", buf.String())
	}
}
