// Package errors provides centralized error definitions and error handling utilities
// for medic. It defines domain-specific errors, semantic error types, error
// constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent failures in a subsystem:
//   - ProbeError: a diagnostic probe could not complete a check
//   - ReportError: a report could not be written or recorded
//   - ConfigError: configuration could not be read or decoded
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
//	err := errors.NewProbeError("benchmark write failed", cause).
//		WithProbe("storage").WithTarget("/tmp")
//
//	if errors.Is(err, errors.ErrDeviceNotPresent) { ... }
//
//	var probeErr *errors.ProbeError
//	if errors.As(err, &probeErr) { ... }
//
// Probe errors never abort the viewer. A probe prints what it could check and
// returns the error so callers can log it; the captured output is still shown.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Probe-related sentinel errors
var (
	// ErrProbeNotFound indicates that no probe matches a name or pattern.
	ErrProbeNotFound = New("probe not found")
	// ErrProbeFailed indicates that a probe could not complete its checks.
	ErrProbeFailed = New("probe failed")
	// ErrDeviceNotPresent indicates that a storage target is missing or unreadable.
	ErrDeviceNotPresent = New("device not present")
	// ErrUnreachable indicates that a network host could not be reached.
	ErrUnreachable = New("host unreachable")
)

// Report-related sentinel errors
var (
	// ErrReportWrite indicates that the report file could not be written.
	ErrReportWrite = New("report write failed")
	// ErrHistoryUnavailable indicates that the history store is disabled or closed.
	ErrHistoryUnavailable = New("history unavailable")
)

// General sentinel errors
var (
	// ErrNoTerminal indicates that an interactive terminal is required but missing.
	ErrNoTerminal = New("no terminal available")
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// MedicError is the base interface for all medic errors.
type MedicError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

func formatWithContext(kind string, parts []string, message string, cause error) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// ProbeError represents a failure inside a diagnostic probe.
//
// Example:
//
//	err := errors.NewProbeError("cannot create test file", cause).WithProbe("storage").WithTarget("/mnt/usb")
//	fmt.Println(err) // "probe error [probe=storage, target=/mnt/usb]: cannot create test file: ..."
type ProbeError struct {
	baseError
	Probe  string
	Target string
}

// NewProbeError creates a new ProbeError.
func NewProbeError(message string, cause error) *ProbeError {
	return &ProbeError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
	}
}

// WithProbe adds the probe name to the error context.
func (e *ProbeError) WithProbe(name string) *ProbeError {
	e.Probe = name
	return e
}

// WithTarget adds the checked target (path, host) to the error context.
func (e *ProbeError) WithTarget(target string) *ProbeError {
	e.Target = target
	return e
}

// WithSeverity sets the error severity.
func (e *ProbeError) WithSeverity(s Severity) *ProbeError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *ProbeError) Error() string {
	var parts []string
	if e.Probe != "" {
		parts = append(parts, "probe="+e.Probe)
	}
	if e.Target != "" {
		parts = append(parts, "target="+e.Target)
	}
	return formatWithContext("probe error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ProbeError) Is(target error) bool {
	if _, ok := target.(*ProbeError); ok {
		return true
	}
	return target == ErrProbeFailed
}

// ReportError represents a failure writing or recording a report.
type ReportError struct {
	baseError
	Path string
}

// NewReportError creates a new ReportError.
func NewReportError(message string, cause error) *ReportError {
	return &ReportError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithPath adds the report path to the error context.
func (e *ReportError) WithPath(path string) *ReportError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *ReportError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, "path="+e.Path)
	}
	return formatWithContext("report error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ReportError) Is(target error) bool {
	if _, ok := target.(*ReportError); ok {
		return true
	}
	return target == ErrReportWrite
}

// ConfigError represents a configuration file that could not be read or decoded.
type ConfigError struct {
	baseError
	Field string
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds the config key to the error context.
func (e *ConfigError) WithField(field string) *ConfigError {
	e.Field = field
	return e
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	return formatWithContext("config error", parts, e.message, e.cause)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("probe", "nand")
//	fmt.Println(err) // "probe 'nand' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.ResourceType == "probe" && target == ErrProbeNotFound
}

// ValidationError represents invalid input or state.
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatWithContext("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return target == ErrInvalidInput
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("dial 1.1.1.1:53", 3*time.Second)
//	fmt.Println(err) // "timeout error: dial 1.1.1.1:53 (timeout: 3s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true, // Timeouts are generally retryable
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	return target == ErrTimeout
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var medicErr MedicError
	if As(err, &medicErr) {
		return medicErr.IsRetryable()
	}

	return Is(err, ErrTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var medicErr MedicError
	if As(err, &medicErr) {
		return medicErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement MedicError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var medicErr MedicError
	if As(err, &medicErr) {
		return medicErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
