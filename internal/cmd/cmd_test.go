package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/logging"
	"github.com/Iron-Ham/medic/internal/probe"
	"github.com/Iron-Ham/medic/internal/report"
	"github.com/Iron-Ham/medic/internal/testutil"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// setupTestEnvironment isolates config, logging and the probe set.
func setupTestEnvironment(t *testing.T) {
	t.Helper()
	testutil.IsolateEnv(t)
	t.Setenv("MEDIC_REPORT_HISTORY_DB", "")

	origRegistry := newRegistry
	newRegistry = func(cfg *config.Config, logger *logging.Logger) *probe.Registry {
		r := probe.NewRegistry(
			&testutil.Probe{ProbeKind: probe.KindSystem, Output: "system looks fine\n"},
			&testutil.Probe{ProbeKind: probe.KindDisk, Output: "disk checked\n", Err: errors.ErrDeviceNotPresent},
		)
		r.Register(probe.NewReportProbe(probe.ReportOptionsFromConfig(cfg.Report), r.Diagnostics(), logger))
		return r
	}

	t.Cleanup(func() {
		newRegistry = origRegistry
		probeList = false
		reportDir, reportFile = "", ""
		historyLimit = 20
		viewPlain, viewTitle = false, ""
		logsTail, logsFollow, logsLevel, logsSince, logsGrep = 50, false, "", "", ""
	})
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "medic" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "medic")
	}

	expectedCmds := []string{"run", "probe", "report", "view", "history", "logs", "config"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestProbeCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     []string
		absent   []string
		wantErr  error
		noErrors bool
	}{
		{
			name:     "pattern selects passing probe",
			args:     []string{"probe", "sys*"},
			want:     []string{"system looks fine"},
			absent:   []string{"disk checked"},
			noErrors: true,
		},
		{
			name:    "failure is reported",
			args:    []string{"probe"},
			want:    []string{"system looks fine", "disk checked", "Probe failed: device not present"},
			absent:  []string{"Report generated"},
			wantErr: errors.ErrProbeFailed,
		},
		{
			name:    "unknown probe",
			args:    []string{"probe", "gpu"},
			wantErr: errors.ErrProbeNotFound,
		},
		{
			name:     "list",
			args:     []string{"probe", "--list"},
			want:     []string{"system", "scripted disk probe", "report"},
			absent:   []string{"system looks fine"},
			noErrors: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnvironment(t)
			out, err := executeCommand(rootCmd, tt.args...)
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.noErrors && err != nil {
				t.Errorf("error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("output should not contain %q:\n%s", a, out)
				}
			}
		})
	}
}

func TestProbeCommand_Severity(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want errors.Severity
	}{
		{name: "some probes fail", args: []string{"probe"}, want: errors.SeverityWarning},
		{name: "every probe fails", args: []string{"probe", "disk"}, want: errors.SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnvironment(t)
			_, err := executeCommand(rootCmd, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.GetSeverity(err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "plain error",
			err:  fmt.Errorf("unknown flag: --bogus"),
			want: "Error: unknown flag: --bogus\n",
		},
		{
			name: "warning that may pass on retry",
			err:  errors.NewProbeError("1 of 2 probes failed", nil),
			want: "Warning: probe error: 1 of 2 probes failed\nThis may be temporary; run the command again.\n",
		},
		{
			name: "raised severity",
			err:  errors.NewProbeError("2 of 2 probes failed", nil).WithSeverity(errors.SeverityError),
			want: "Error: probe error: 2 of 2 probes failed\nThis may be temporary; run the command again.\n",
		},
		{
			name: "error that will not pass on retry",
			err:  errors.NewReportError("write failed", nil),
			want: "Error: report error: write failed\n",
		},
		{
			name: "wrapped classification survives",
			err:  fmt.Errorf("run: %w", errors.NewNotFoundError("probe", "gpu")),
			want: "Warning: run: probe 'gpu' not found\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			if buf.String() != tt.want {
				t.Errorf("printError() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestReportCommand(t *testing.T) {
	setupTestEnvironment(t)
	dir := t.TempDir()

	out, err := executeCommand(rootCmd, "report", "--dir", dir, "--output", "health.txt")
	if err != nil {
		t.Fatalf("report error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Report generated successfully") {
		t.Errorf("output = %s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "health.txt"))
	if err != nil {
		t.Fatalf("report file: %v", err)
	}
	if !strings.Contains(string(data), "=== SYSTEM ===") || !strings.Contains(string(data), "=== DISK ===") {
		t.Errorf("report = %q", data)
	}
}

func TestHistoryCommand(t *testing.T) {
	setupTestEnvironment(t)

	out, err := executeCommand(rootCmd, "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "Report history is disabled.") {
		t.Errorf("output = %s", out)
	}

	db := filepath.Join(t.TempDir(), "history.db")
	t.Setenv("MEDIC_REPORT_HISTORY_DB", db)
	h, err := report.OpenHistory(db, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.Record(t.Context(), report.Run{
		ID:        "run-1",
		StartedAt: time.Now(),
		Duration:  1500 * time.Millisecond,
		Path:      "/tmp/medic_report.txt",
		Probes:    []string{"system", "disk"},
		Failed:    1,
	})
	h.Close()
	if err != nil {
		t.Fatal(err)
	}

	out, err = executeCommand(rootCmd, "history", "-n", "5")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	for _, want := range []string{"Found 1 run(s)", "Run: run-1", "system, disk", "1 failed", "1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestViewCommand(t *testing.T) {
	setupTestEnvironment(t)
	file := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(file, []byte("first\nsecond\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "view", file)
	if err != nil {
		t.Fatalf("view error = %v", err)
	}
	rule := strings.Repeat("-", 58)
	want := " notes.txt\n " + rule + "\nfirst\nsecond\n " + rule + "\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if _, err := executeCommand(rootCmd, "view", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestViewCommand_Stdin(t *testing.T) {
	setupTestEnvironment(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("piped\r\ntext\n"))
	rootCmd.SetArgs([]string{"view", "--title", "Piped"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("view error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), " Piped\n") || !strings.Contains(buf.String(), "\npiped\ntext\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLogsCommand(t *testing.T) {
	setupTestEnvironment(t)
	dir := t.TempDir()
	t.Setenv("MEDIC_LOGGING_DIR", dir)

	out, err := executeCommand(rootCmd, "logs")
	if err != nil {
		t.Fatalf("logs error = %v", err)
	}
	if !strings.Contains(out, "No log file found.") {
		t.Errorf("output = %s", out)
	}

	lines := strings.Join([]string{
		`{"time":"2026-01-02T03:04:05Z","level":"INFO","msg":"medic started","version":"dev"}`,
		`{"time":"2026-01-02T03:04:06Z","level":"WARN","msg":"capture full","probe":"disk","lines":256}`,
		`not json at all`,
		`{"time":"2026-01-02T03:04:07Z","level":"ERROR","msg":"report write failed","run_id":"r1"}`,
	}, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, logging.FileName), []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err = executeCommand(rootCmd, "logs", "--level", "warn")
	if err != nil {
		t.Fatalf("logs error = %v", err)
	}
	for _, want := range []string{"[WARN] capture full", "probe=disk", "lines=256", "not json at all", "[ERROR] report write failed", "run_id=r1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "medic started") {
		t.Errorf("info entry should be filtered:\n%s", out)
	}

	out, err = executeCommand(rootCmd, "logs", "--level", "debug", "--grep", "r1", "-n", "1")
	if err != nil {
		t.Fatalf("logs error = %v", err)
	}
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "report write failed") {
		t.Errorf("tail/grep output = %q", out)
	}
}

func TestNewLogFilter_Errors(t *testing.T) {
	now := time.Now()
	if _, err := newLogFilter("", "soon", "", now); err == nil {
		t.Error("invalid duration should fail")
	}
	if _, err := newLogFilter("", "", "(", now); err == nil {
		t.Error("invalid regex should fail")
	}
	f, err := newLogFilter("error", "1h", "", now)
	if err != nil {
		t.Fatal(err)
	}
	old := &logEntry{Time: now.Add(-2 * time.Hour), Level: "ERROR"}
	recent := &logEntry{Time: now, Level: "ERROR"}
	if f.passes(old) || !f.passes(recent) {
		t.Error("since filter not applied")
	}
}
