package cli

import (
	"errors"

	"github.com/yaklabco/ifdeflens/pkg/runner"
)

// Exit codes for ifdeflens.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitMalformed indicates at least one file has unbalanced directives.
	ExitMalformed = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrMalformedFiles is returned when a scan found unbalanced directives.
var ErrMalformedFiles = errors.New("malformed files found")

// ErrUnreadableFiles is returned when a scan could not read some files.
var ErrUnreadableFiles = errors.New("unreadable files found")

// ExitError carries the exit code a command failure maps to.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCodeFromResult determines the exit code for a finished scan.
// Malformed files take precedence over read errors.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasMalformed() {
		return ExitMalformed
	}

	if result.HasErrors() {
		return ExitIOError
	}

	return ExitSuccess
}

// ExitCode maps an error returned from Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Cobra reports flag and argument problems as plain errors.
	return ExitInvalidUsage
}

// IsReported reports whether err only signals an exit code for results
// that were already printed.
func IsReported(err error) bool {
	return errors.Is(err, ErrMalformedFiles) || errors.Is(err, ErrUnreadableFiles)
}
