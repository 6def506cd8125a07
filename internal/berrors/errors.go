// Package berrors provides custom error types for borg-helper.
// These error types carry a stable code and map onto the process
// exit-code contract documented in the README.
package berrors

import (
	"errors"
	"fmt"
	"strings"
)

// Process exit codes. Borg's own exit code is forwarded verbatim and is
// therefore not listed here.
const (
	// ExitUsage covers configuration errors, unknown repositories and
	// invalid invocations.
	ExitUsage = 2
	// ExitAborted is returned when the user declines the interactive
	// confirmation prompt.
	ExitAborted = 3
	// ExitInternal covers everything else (shell missing, spawn failure).
	ExitInternal = 1
)

// HelperError is the base interface for all borg-helper errors
type HelperError interface {
	error
	// Code returns a unique error code for programmatic error handling
	Code() string
}

// baseError provides common functionality for all borg-helper errors
type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ConfigurationError represents errors in configuration files
type ConfigurationError struct {
	baseError
	Path string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(path string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			code:    "CONFIG_ERROR",
			message: message,
			cause:   cause,
		},
		Path: path,
	}
}

// UnknownRepositoryError is returned when a repository name is not present
// in the merged configuration. Known holds the configured names so the
// message can hint at valid choices.
type UnknownRepositoryError struct {
	baseError
	Name  string
	Known []string
}

// NewUnknownRepositoryError creates a new unknown repository error
func NewUnknownRepositoryError(name string, known []string) *UnknownRepositoryError {
	message := fmt.Sprintf("unknown repository: %s", name)
	if len(known) > 0 {
		message += fmt.Sprintf(" (configured: %s)", strings.Join(known, ", "))
	}
	return &UnknownRepositoryError{
		baseError: baseError{
			code:    "UNKNOWN_REPOSITORY",
			message: message,
		},
		Name:  name,
		Known: known,
	}
}

// AbortedError is returned when the user declines the confirmation prompt.
// It is a cancellation, not a failure.
type AbortedError struct {
	baseError
}

// NewAbortedError creates a new aborted error
func NewAbortedError() *AbortedError {
	return &AbortedError{
		baseError: baseError{
			code:    "ABORTED",
			message: "aborted by user",
		},
	}
}

// ToolExitError carries the non-zero exit code of the spawned backup tool.
// The tool has already written its own diagnostics, so this error produces
// no message of its own.
type ToolExitError struct {
	baseError
	Command  string
	ExitCode int
}

// NewToolExitError creates a new tool exit error
func NewToolExitError(command string, exitCode int) *ToolExitError {
	return &ToolExitError{
		baseError: baseError{
			code:    "TOOL_EXIT",
			message: fmt.Sprintf("command exited with code %d", exitCode),
		},
		Command:  command,
		ExitCode: exitCode,
	}
}

// UsageError represents an invalid invocation
type UsageError struct {
	baseError
}

// NewUsageError creates a new usage error
func NewUsageError(message string) *UsageError {
	return &UsageError{
		baseError: baseError{
			code:    "USAGE",
			message: message,
		},
	}
}

// ExecutionError represents errors while spawning the external tool
type ExecutionError struct {
	baseError
	Command string
}

// NewExecutionError creates a new execution error
func NewExecutionError(command string, message string, cause error) *ExecutionError {
	return &ExecutionError{
		baseError: baseError{
			code:    "EXEC_ERROR",
			message: message,
			cause:   cause,
		},
		Command: command,
	}
}

// ExitCode maps an error onto the process exit-code contract.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var toolErr *ToolExitError
	if errors.As(err, &toolErr) {
		return toolErr.ExitCode
	}

	var abortErr *AbortedError
	if errors.As(err, &abortErr) {
		return ExitAborted
	}

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitUsage
	}

	var repoErr *UnknownRepositoryError
	if errors.As(err, &repoErr) {
		return ExitUsage
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}

	return ExitInternal
}

// Silent reports whether err should terminate the process without printing
// a message. True for forwarded tool exits (the tool already reported).
func Silent(err error) bool {
	var toolErr *ToolExitError
	return errors.As(err, &toolErr)
}
