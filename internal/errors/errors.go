package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ConfigInvalid indicates a broken or unresolvable configuration
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// PresetNotFound indicates an extends target could not be resolved
	PresetNotFound ErrorCode = "PRESET_NOT_FOUND"
	// OptionSchemaViolation indicates a rule option failed validation
	OptionSchemaViolation ErrorCode = "OPTION_SCHEMA_VIOLATION"
	// DuplicateRule indicates a rule identifier was registered twice
	DuplicateRule ErrorCode = "DUPLICATE_RULE"
	// ParseFailed indicates a source file could not be parsed
	ParseFailed ErrorCode = "PARSE_FAILED"
	// RuleCrash indicates a rule panicked during evaluation
	RuleCrash ErrorCode = "RULE_CRASH"
	// LanguageUnknown indicates no grammar matches the file
	LanguageUnknown ErrorCode = "LANGUAGE_UNKNOWN"
	// FileUnreadable indicates a source file could not be read
	FileUnreadable ErrorCode = "FILE_UNREADABLE"
	// AdvisoryUnavailable indicates the advisory database failed
	AdvisoryUnavailable ErrorCode = "ADVISORY_UNAVAILABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// LintError represents a treelint error with a stable code and optional cause
type LintError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new LintError
func New(code ErrorCode, message string, cause error) *LintError {
	return &LintError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new LintError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LintError {
	return &LintError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *LintError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *LintError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *LintError) WithDetails(details interface{}) *LintError {
	e.Details = details
	return e
}

// IsFatal reports whether the error must abort the run before traversal.
// Configuration and registry errors are fatal; per-file and per-rule
// errors are recoverable and become diagnostics instead.
func (e *LintError) IsFatal() bool {
	switch e.Code {
	case ConfigInvalid, PresetNotFound, OptionSchemaViolation, DuplicateRule:
		return true
	}
	return false
}

// ExitCode maps an error to the process exit code contract:
// 2 for configuration errors, 3 for internal faults.
func (e *LintError) ExitCode() int {
	if e.IsFatal() {
		return 2
	}
	return 3
}
