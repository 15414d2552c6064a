package config

import (
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "capture.max_lines")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the list of valid TUI themes
func ValidThemes() []string {
	return []string{"default", "mono"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateCapture()...)
	errors = append(errors, c.validateViewer()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validateStorage()...)
	errors = append(errors, c.validateNetwork()...)
	errors = append(errors, c.validateToolchain()...)
	errors = append(errors, c.validateInput()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func positive(field string, value int) []ValidationError {
	if value > 0 {
		return nil
	}
	return []ValidationError{{Field: field, Value: value, Message: "must be positive"}}
}

func (c *Config) validateCapture() []ValidationError {
	var errors []ValidationError

	errors = append(errors, positive("capture.max_lines", c.Capture.MaxLines)...)
	// One slot is reserved, so a length of 1 would store nothing.
	if c.Capture.MaxLineLength < 2 {
		errors = append(errors, ValidationError{
			Field:   "capture.max_line_length",
			Value:   c.Capture.MaxLineLength,
			Message: "must be at least 2",
		})
	}

	return errors
}

func (c *Config) validateViewer() []ValidationError {
	var errors []ValidationError

	errors = append(errors, positive("viewer.visible_rows", c.Viewer.VisibleRows)...)
	errors = append(errors, positive("viewer.width", c.Viewer.Width)...)
	errors = append(errors, positive("viewer.frame_interval_ms", c.Viewer.FrameIntervalMs)...)

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	if c.TUI.Theme == "" || slices.Contains(ValidThemes(), c.TUI.Theme) {
		return nil
	}
	return []ValidationError{{
		Field:   "tui.theme",
		Value:   c.TUI.Theme,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
	}}
}

func (c *Config) validateReport() []ValidationError {
	var errors []ValidationError

	name := c.Report.FileName
	if name == "" || strings.ContainsAny(name, `/\`) {
		errors = append(errors, ValidationError{
			Field:   "report.file_name",
			Value:   name,
			Message: "must be a plain file name",
		})
	}

	return errors
}

func (c *Config) validateStorage() []ValidationError {
	var errors []ValidationError

	errors = append(errors, positive("storage.file_size_kb", c.Storage.FileSizeKB)...)
	errors = append(errors, positive("storage.block_size_kb", c.Storage.BlockSizeKB)...)
	errors = append(errors, positive("storage.iterations", c.Storage.Iterations)...)

	if c.Storage.BlockSizeKB > c.Storage.FileSizeKB && c.Storage.FileSizeKB > 0 {
		errors = append(errors, ValidationError{
			Field:   "storage.block_size_kb",
			Value:   c.Storage.BlockSizeKB,
			Message: "must not exceed storage.file_size_kb",
		})
	}
	if c.Storage.OKKBps < 0 {
		errors = append(errors, ValidationError{
			Field:   "storage.ok_kbps",
			Value:   c.Storage.OKKBps,
			Message: "must be non-negative",
		})
	}
	if c.Storage.GoodKBps < c.Storage.OKKBps {
		errors = append(errors, ValidationError{
			Field:   "storage.good_kbps",
			Value:   c.Storage.GoodKBps,
			Message: "must be at least storage.ok_kbps",
		})
	}
	for i, target := range c.Storage.Targets {
		if strings.TrimSpace(target) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("storage.targets[%d]", i),
				Value:   target,
				Message: "must not be empty",
			})
		}
	}

	return errors
}

func (c *Config) validateNetwork() []ValidationError {
	var errors []ValidationError

	errors = append(errors, positive("network.timeout_ms", c.Network.TimeoutMs)...)
	for i, h := range c.Network.Hosts {
		if _, _, err := net.SplitHostPort(h.Address); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("network.hosts[%d].address", i),
				Value:   h.Address,
				Message: "must be host:port",
			})
		}
	}

	return errors
}

func (c *Config) validateToolchain() []ValidationError {
	var errors []ValidationError

	errors = append(errors, positive("toolchain.timeout_ms", c.Toolchain.TimeoutMs)...)
	for i, tc := range c.Toolchain.Tools {
		if strings.TrimSpace(tc.Command) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("toolchain.tools[%d].command", i),
				Value:   tc.Command,
				Message: "must not be empty",
			})
		}
		if tc.MinVersion != "" && !isDottedVersion(tc.MinVersion) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("toolchain.tools[%d].min_version", i),
				Value:   tc.MinVersion,
				Message: "must be a dotted version such as 1.22 or 2.30.1",
			})
		}
	}

	return errors
}

// isDottedVersion reports whether v is one or more dot-separated numbers.
func isDottedVersion(v string) bool {
	for _, part := range strings.Split(v, ".") {
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}
	return true
}

func (c *Config) validateInput() []ValidationError {
	var errors []ValidationError

	if c.Input.DriftPercent < 1 || c.Input.DriftPercent > 100 {
		errors = append(errors, ValidationError{
			Field:   "input.drift_percent",
			Value:   c.Input.DriftPercent,
			Message: "must be between 1 and 100",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
