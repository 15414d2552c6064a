// Package config provides CLI commands for managing medic configuration.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/tui/styles"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify medic configuration",
	Long: `View or modify medic configuration.

Use 'config show' to display the effective configuration and the
subcommands to modify settings or create a config file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  medic config set viewer.visible_rows 24
  medic config set tui.theme mono
  medic config set report.history_db ~/.local/share/medic/history.db

Valid keys:
  capture.max_lines           - Lines kept per diagnostic run
  capture.max_line_length     - Longest stored line, in characters
  viewer.visible_rows         - Rows shown per viewer page
  viewer.width                - Width of the viewer rule
  viewer.frame_interval_ms    - Viewer input polling interval
  viewer.keymap_file          - YAML file overriding key bindings
  tui.theme                   - Color theme (default/mono)
  tui.easter_egg              - Enable the hidden menu code (true/false)
  report.dir                  - Directory the report is written to
  report.file_name            - Report file name
  report.history_db           - SQLite file recording report runs
  report.strip_styles         - Remove colors from the report (true/false)
  storage.file_size_kb        - Benchmark file size
  storage.block_size_kb       - Benchmark block size
  storage.iterations          - Benchmark passes
  storage.good_kbps           - Throughput rated Excellent
  storage.ok_kbps             - Throughput rated Acceptable
  network.timeout_ms          - Per-host dial timeout
  toolchain.timeout_ms        - Per-tool version command timeout
  input.devices_file          - Kernel input device table
  input.dev_dir               - Directory of joystick device nodes
  input.drift_percent         - Resting axis deflection reported as drift
  logging.enabled             - Write the debug log (true/false)
  logging.level               - debug, info, warn or error
  logging.dir                 - Log directory
  logging.max_size_mb         - Rotate the log at this size
  logging.max_backups         - Rotated logs kept
  logging.compress            - Gzip rotated logs (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/medic/config.yaml with all available options.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  medic config reset                      # Reset all to defaults
  medic config reset viewer.visible_rows  # Reset only one key`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in color themes",
	Args:  cobra.NoArgs,
	RunE:  runConfigThemes,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configThemesCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyKind describes how a settable key's value is parsed.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
	kindTheme
	kindLevel
)

// settableKeys lists every key accepted by 'config set' and 'config reset'.
var settableKeys = map[string]keyKind{
	"capture.max_lines":        kindInt,
	"capture.max_line_length":  kindInt,
	"viewer.visible_rows":      kindInt,
	"viewer.width":             kindInt,
	"viewer.frame_interval_ms": kindInt,
	"viewer.keymap_file":       kindString,
	"tui.theme":                kindTheme,
	"tui.easter_egg":           kindBool,
	"report.dir":               kindString,
	"report.file_name":         kindString,
	"report.history_db":        kindString,
	"report.strip_styles":      kindBool,
	"storage.file_size_kb":     kindInt,
	"storage.block_size_kb":    kindInt,
	"storage.iterations":       kindInt,
	"storage.good_kbps":        kindInt,
	"storage.ok_kbps":          kindInt,
	"network.timeout_ms":       kindInt,
	"toolchain.timeout_ms":     kindInt,
	"input.devices_file":       kindString,
	"input.dev_dir":            kindString,
	"input.drift_percent":      kindInt,
	"logging.enabled":          kindBool,
	"logging.level":            kindLevel,
	"logging.dir":              kindString,
	"logging.max_size_mb":      kindInt,
	"logging.max_backups":      kindInt,
	"logging.compress":         kindBool,
}

// defaultValues returns the default of every settable key.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"capture.max_lines":        d.Capture.MaxLines,
		"capture.max_line_length":  d.Capture.MaxLineLength,
		"viewer.visible_rows":      d.Viewer.VisibleRows,
		"viewer.width":             d.Viewer.Width,
		"viewer.frame_interval_ms": d.Viewer.FrameIntervalMs,
		"viewer.keymap_file":       d.Viewer.KeymapFile,
		"tui.theme":                d.TUI.Theme,
		"tui.easter_egg":           d.TUI.EasterEgg,
		"report.dir":               d.Report.Dir,
		"report.file_name":         d.Report.FileName,
		"report.history_db":        d.Report.HistoryDB,
		"report.strip_styles":      d.Report.StripStyles,
		"storage.file_size_kb":     d.Storage.FileSizeKB,
		"storage.block_size_kb":    d.Storage.BlockSizeKB,
		"storage.iterations":       d.Storage.Iterations,
		"storage.good_kbps":        d.Storage.GoodKBps,
		"storage.ok_kbps":          d.Storage.OKKBps,
		"network.timeout_ms":       d.Network.TimeoutMs,
		"toolchain.timeout_ms":     d.Toolchain.TimeoutMs,
		"input.devices_file":       d.Input.DevicesFile,
		"input.dev_dir":            d.Input.DevDir,
		"input.drift_percent":      d.Input.DriftPercent,
		"logging.enabled":          d.Logging.Enabled,
		"logging.level":            d.Logging.Level,
		"logging.dir":              d.Logging.Dir,
		"logging.max_size_mb":      d.Logging.MaxSizeMB,
		"logging.max_backups":      d.Logging.MaxBackups,
		"logging.compress":         d.Logging.Compress,
	}
}

// parseValue converts value to the type of key, validating enumerations.
func parseValue(key, value string) (any, error) {
	kind, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'medic config set --help' to see valid keys", key)
	}

	switch kind {
	case kindTheme:
		if !styles.IsValidTheme(value) {
			return nil, fmt.Errorf("invalid theme: %s\nValid options: %s",
				value, strings.Join(styles.BuiltinThemes(), ", "))
		}
		return value, nil
	case kindLevel:
		if !slices.Contains(appconfig.ValidLogLevels(), strings.ToLower(value)) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidLogLevels(), ", "))
		}
		return strings.ToLower(value), nil
	case kindBool:
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case kindInt:
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return intVal, nil
	default:
		return value, nil
	}
}

// writeConfig validates the settings held by viper and saves them.
func writeConfig() (string, error) {
	if _, err := appconfig.Load(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	configFile := appconfig.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if _, err := appconfig.Load(); err != nil {
		fmt.Fprintf(out, "Warning: configuration is invalid, defaults are used instead:\n%v\n\n", err)
	}

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	data, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	typedValue, err := parseValue(key, value)
	if err != nil {
		return err
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)
	configFile, err := writeConfig()
	if err != nil {
		viper.Set(key, previous)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)
	return nil
}

// defaultConfigContent is written by 'config init'.
const defaultConfigContent = `# medic configuration

# Output capture for each diagnostic run
capture:
  # Lines kept per run; later lines are dropped
  max_lines: 256
  # Longest stored line, in characters (longer lines are cut)
  max_line_length: 512

# Scrollable result viewer
viewer:
  visible_rows: 18
  width: 58
  frame_interval_ms: 16
  # YAML file overriding key bindings (optional)
  keymap_file: ""

# Interactive menu
tui:
  # Options: default, mono
  theme: default
  easter_egg: true

# Full report
report:
  dir: .
  file_name: medic_report.txt
  # SQLite file recording report runs; empty disables history
  history_db: ""
  strip_styles: true

# Storage throughput benchmark
storage:
  file_size_kb: 1024
  block_size_kb: 32
  iterations: 3
  good_kbps: 2000
  ok_kbps: 1000

# Network connectivity
network:
  timeout_ms: 3000
  hosts:
    - name: Cloudflare DNS
      address: 1.1.1.1:53
    - name: Google DNS
      address: 8.8.8.8:53
    - name: Go module proxy
      address: proxy.golang.org:443

# Toolchain scan
toolchain:
  timeout_ms: 5000
  tools:
    - name: Go
      command: go
      args: [version]
      min_version: "1.22"
    - name: Git
      command: git
      args: [--version]
      min_version: "2.30"
    - name: GCC
      command: gcc
      args: [--version]
    - name: Make
      command: make
      args: [--version]
    - name: Python
      command: python3
      args: [--version]
      min_version: "3.9"

# Input devices and controller drift
input:
  devices_file: /proc/bus/input/devices
  dev_dir: /dev/input
  drift_percent: 15

# Debug log
logging:
  enabled: true
  # Options: debug, info, warn, error
  level: info
  max_size_mb: 5
  max_backups: 2
  compress: false
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'medic config set' to modify values", configFile)
	}
	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize medic's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := appconfig.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", configFile)
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: MEDIC_* (e.g., MEDIC_VIEWER_VISIBLE_ROWS)")
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...\n")
		if err := runConfigInit(cmd, args); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "nano", "vi"} {
			if _, err := execLookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", configFile)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	defaults := defaultValues()

	if len(args) == 0 {
		for key, value := range defaults {
			viper.Set(key, value)
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'medic config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

func runConfigThemes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	active := viper.GetString("tui.theme")
	for _, name := range styles.BuiltinThemes() {
		marker := "  "
		if name == active {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%s\n", marker, name)
	}
	return nil
}
