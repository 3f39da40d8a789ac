package hostid

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by [Provider.Reference] and recorded in [DiagnosticInfo.Errors].
var (
	// ErrNoIdentifiers is returned when no machine identifier could be read.
	ErrNoIdentifiers = errors.New("no machine identifiers found")

	// ErrEmptyNamespace is returned when Reference is called without a namespace.
	ErrEmptyNamespace = errors.New("machine reference namespace is empty")

	// ErrEmptyValue is recorded when a source returned an empty value.
	ErrEmptyValue = errors.New("empty value returned")

	// ErrNotFound is returned when a value is not present in command output
	// or system files.
	ErrNotFound = errors.New("value not found")

	// ErrAllMethodsFailed is returned when every source for a component has
	// been tried without success.
	ErrAllMethodsFailed = errors.New("all collection methods failed")
)

// CommandError records a failed system command execution.
type CommandError struct {
	Command string // command name, e.g. "ioreg", "powershell"
	Err     error  // underlying error from exec
}

// Error returns a human-readable description of the command failure.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ParseError records a failure while parsing command or system output.
type ParseError struct {
	Source string // data source, e.g. "system_profiler JSON", "ioreg output"
	Err    error  // underlying parse error
}

// Error returns a human-readable description of the parse failure.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ComponentError records a failure while collecting a specific component.
// These errors appear in [DiagnosticInfo.Errors].
type ComponentError struct {
	Component string // component name, e.g. "machine-id"
	Err       error  // underlying error
}

// Error returns a human-readable description of the component failure.
func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %q: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *ComponentError) Unwrap() error {
	return e.Err
}
