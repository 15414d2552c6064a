package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/medic/internal/errors"
)

// Config represents the complete medic configuration
type Config struct {
	Capture   CaptureConfig   `mapstructure:"capture"`
	Viewer    ViewerConfig    `mapstructure:"viewer"`
	TUI       TUIConfig       `mapstructure:"tui"`
	Report    ReportConfig    `mapstructure:"report"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Network   NetworkConfig   `mapstructure:"network"`
	Toolchain ToolchainConfig `mapstructure:"toolchain"`
	Input     InputConfig     `mapstructure:"input"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// CaptureConfig bounds the line buffer that records probe output
type CaptureConfig struct {
	// MaxLines is the number of lines kept per capture; later lines are dropped (default: 256)
	MaxLines int `mapstructure:"max_lines"`
	// MaxLineLength bounds a stored line to MaxLineLength-1 characters (default: 512)
	MaxLineLength int `mapstructure:"max_line_length"`
}

// ViewerConfig controls the paged text viewer
type ViewerConfig struct {
	// VisibleRows is the number of content rows per page (default: 18)
	VisibleRows int `mapstructure:"visible_rows"`
	// Width is the width of the separator rule (default: 58)
	Width int `mapstructure:"width"`
	// FrameIntervalMs is how often the viewer polls for input (default: 16)
	FrameIntervalMs int `mapstructure:"frame_interval_ms"`
	// KeymapFile is an optional yaml file overriding key bindings
	KeymapFile string `mapstructure:"keymap_file"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Theme is the color theme (default: "default")
	// Options: "default", "mono"
	Theme string `mapstructure:"theme"`
	// EasterEgg enables the Konami code screen on the menu (default: true)
	EasterEgg bool `mapstructure:"easter_egg"`
}

// ReportConfig controls where the full report is written
type ReportConfig struct {
	// Dir is the directory the report file is written to (default: current directory)
	Dir string `mapstructure:"dir"`
	// FileName is the report file name (default: "medic_report.txt")
	FileName string `mapstructure:"file_name"`
	// HistoryDB is the sqlite database recording report runs; empty disables history
	// Supports ~ for home directory expansion.
	HistoryDB string `mapstructure:"history_db"`
	// StripStyles removes terminal styling from the report file (default: true)
	StripStyles bool `mapstructure:"strip_styles"`
}

// StorageConfig controls the storage throughput benchmark
type StorageConfig struct {
	// Targets are directories benchmarked in order
	Targets []string `mapstructure:"targets"`
	// FileSizeKB is the size of the benchmark file (default: 1024)
	FileSizeKB int `mapstructure:"file_size_kb"`
	// BlockSizeKB is the size of each write/read call (default: 32)
	BlockSizeKB int `mapstructure:"block_size_kb"`
	// Iterations is the number of write/read passes averaged (default: 3)
	Iterations int `mapstructure:"iterations"`
	// GoodKBps is the throughput rated Excellent (default: 2000)
	GoodKBps int `mapstructure:"good_kbps"`
	// OKKBps is the throughput rated Acceptable (default: 1000)
	OKKBps int `mapstructure:"ok_kbps"`
}

// HostConfig names one host dialed by the network probe
type HostConfig struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
}

// NetworkConfig controls the network connectivity probe
type NetworkConfig struct {
	// Hosts are dialed concurrently
	Hosts []HostConfig `mapstructure:"hosts"`
	// TimeoutMs bounds each dial (default: 3000)
	TimeoutMs int `mapstructure:"timeout_ms"`
}

// ToolConfig names one program checked by the toolchain scan
type ToolConfig struct {
	Name string `mapstructure:"name"`
	// Command is looked up in PATH
	Command string `mapstructure:"command"`
	// Args make the program print its version
	Args []string `mapstructure:"args"`
	// MinVersion marks older installs as outdated; empty skips the check
	MinVersion string `mapstructure:"min_version"`
}

// ToolchainConfig controls the toolchain scan
type ToolchainConfig struct {
	// Tools are checked concurrently and listed in order
	Tools []ToolConfig `mapstructure:"tools"`
	// TimeoutMs bounds each version command (default: 5000)
	TimeoutMs int `mapstructure:"timeout_ms"`
}

// InputConfig controls the input device scan
type InputConfig struct {
	// DevicesFile is the kernel input device table (default: "/proc/bus/input/devices")
	DevicesFile string `mapstructure:"devices_file"`
	// DevDir holds the joystick nodes sampled for drift (default: "/dev/input")
	DevDir string `mapstructure:"dev_dir"`
	// DriftPercent is the resting axis deflection reported as drift (default: 15)
	DriftPercent int `mapstructure:"drift_percent"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the log directory; empty uses ConfigDir()/logs
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Capture: CaptureConfig{
			MaxLines:      256,
			MaxLineLength: 512,
		},
		Viewer: ViewerConfig{
			VisibleRows:     18,
			Width:           58,
			FrameIntervalMs: 16,
			KeymapFile:      "",
		},
		TUI: TUIConfig{
			Theme:     "default",
			EasterEgg: true,
		},
		Report: ReportConfig{
			Dir:         ".",
			FileName:    "medic_report.txt",
			HistoryDB:   "",
			StripStyles: true,
		},
		Storage: StorageConfig{
			Targets:     []string{os.TempDir()},
			FileSizeKB:  1024,
			BlockSizeKB: 32,
			Iterations:  3,
			GoodKBps:    2000,
			OKKBps:      1000,
		},
		Network: NetworkConfig{
			Hosts: []HostConfig{
				{Name: "Cloudflare DNS", Address: "1.1.1.1:53"},
				{Name: "Google DNS", Address: "8.8.8.8:53"},
				{Name: "Go module proxy", Address: "proxy.golang.org:443"},
			},
			TimeoutMs: 3000,
		},
		Toolchain: ToolchainConfig{
			Tools: []ToolConfig{
				{Name: "Go", Command: "go", Args: []string{"version"}, MinVersion: "1.22"},
				{Name: "Git", Command: "git", Args: []string{"--version"}, MinVersion: "2.30"},
				{Name: "GCC", Command: "gcc", Args: []string{"--version"}},
				{Name: "Make", Command: "make", Args: []string{"--version"}},
				{Name: "Python", Command: "python3", Args: []string{"--version"}, MinVersion: "3.9"},
			},
			TimeoutMs: 5000,
		},
		Input: InputConfig{
			DevicesFile:  "/proc/bus/input/devices",
			DevDir:       "/dev/input",
			DriftPercent: 15,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  5,
			MaxBackups: 2,
			Compress:   false,
		},
	}
}

// FrameInterval returns the viewer polling interval as a time.Duration
func (c *ViewerConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// Timeout returns the per-host dial timeout as a time.Duration
func (c *NetworkConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Timeout returns the per-tool version command timeout as a time.Duration
func (c *ToolchainConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ResolveHistoryDB returns the history database path with ~ expanded.
// An empty result means history is disabled.
func (c *ReportConfig) ResolveHistoryDB() string {
	return expandHome(c.HistoryDB)
}

// ResolveDir returns the log directory, defaulting to ConfigDir()/logs.
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}
	return expandHome(c.Dir)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Capture defaults
	viper.SetDefault("capture.max_lines", defaults.Capture.MaxLines)
	viper.SetDefault("capture.max_line_length", defaults.Capture.MaxLineLength)

	// Viewer defaults
	viper.SetDefault("viewer.visible_rows", defaults.Viewer.VisibleRows)
	viper.SetDefault("viewer.width", defaults.Viewer.Width)
	viper.SetDefault("viewer.frame_interval_ms", defaults.Viewer.FrameIntervalMs)
	viper.SetDefault("viewer.keymap_file", defaults.Viewer.KeymapFile)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.easter_egg", defaults.TUI.EasterEgg)

	// Report defaults
	viper.SetDefault("report.dir", defaults.Report.Dir)
	viper.SetDefault("report.file_name", defaults.Report.FileName)
	viper.SetDefault("report.history_db", defaults.Report.HistoryDB)
	viper.SetDefault("report.strip_styles", defaults.Report.StripStyles)

	// Storage defaults
	viper.SetDefault("storage.targets", defaults.Storage.Targets)
	viper.SetDefault("storage.file_size_kb", defaults.Storage.FileSizeKB)
	viper.SetDefault("storage.block_size_kb", defaults.Storage.BlockSizeKB)
	viper.SetDefault("storage.iterations", defaults.Storage.Iterations)
	viper.SetDefault("storage.good_kbps", defaults.Storage.GoodKBps)
	viper.SetDefault("storage.ok_kbps", defaults.Storage.OKKBps)

	// Network defaults
	hosts := make([]map[string]any, 0, len(defaults.Network.Hosts))
	for _, h := range defaults.Network.Hosts {
		hosts = append(hosts, map[string]any{"name": h.Name, "address": h.Address})
	}
	viper.SetDefault("network.hosts", hosts)
	viper.SetDefault("network.timeout_ms", defaults.Network.TimeoutMs)

	// Toolchain defaults
	tools := make([]map[string]any, 0, len(defaults.Toolchain.Tools))
	for _, tc := range defaults.Toolchain.Tools {
		tools = append(tools, map[string]any{
			"name":        tc.Name,
			"command":     tc.Command,
			"args":        tc.Args,
			"min_version": tc.MinVersion,
		})
	}
	viper.SetDefault("toolchain.tools", tools)
	viper.SetDefault("toolchain.timeout_ms", defaults.Toolchain.TimeoutMs)

	// Input defaults
	viper.SetDefault("input.devices_file", defaults.Input.DevicesFile)
	viper.SetDefault("input.dev_dir", defaults.Input.DevDir)
	viper.SetDefault("input.drift_percent", defaults.Input.DriftPercent)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("failed to decode configuration", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if it cannot be loaded
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "medic")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".medic"
	}
	return filepath.Join(home, ".config", "medic")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
