package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
//
// `run` does not use ExitFailure: it exits with the number of failed
// cases, capped at 255.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Verification failure (selfcheck scenario mismatch)
	ExitCommandError = 2 // Command error (bad config, unreadable history database, etc.)
)

// Error codes reported in JSON error responses.
const (
	ErrCodeConfig       = "E001" // Config could not be loaded or validated
	ErrCodeHistoryOpen  = "E002" // History database could not be opened
	ErrCodeHistoryWrite = "E003" // Report could not be recorded
	ErrCodeHistoryRead  = "E004" // Stored runs could not be read
	ErrCodeRunNotFound  = "E005" // No stored run with the requested ID
)

// ExitError carries the process exit code for a command error.
type ExitError struct {
	Code    int    // Process exit status
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps the error returned by Execute to a process exit status:
// 0 for nil, the carried code for an ExitError, ExitCommandError for any
// other error (flag parsing, unknown command).
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostics; keeps JSON on Writer parseable
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command result.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success writes a successful result. Text mode prints data with its
// default formatting, so callers usually pass a preformatted string.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes an error result. In text mode it goes to ErrWriter.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	w := f.errWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err under code and returns the ExitError for the command to
// return. Write errors are dropped: the exit status still signals failure.
func (f *OutputFormatter) Fail(code string, exitCode int, message string, err error) error {
	var details any
	if err != nil {
		details = err.Error()
	}
	_ = f.Error(code, message, details)
	return WrapExitError(exitCode, message, err)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
