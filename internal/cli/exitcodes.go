package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/goxaml/internal/configloader"
	"github.com/yaklabco/goxaml/pkg/runner"
)

// Exit codes for goxaml.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitIssues indicates the run completed but found diagnostics,
	// malformed documents or pending formatting changes.
	ExitIssues = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration or schema file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrIssuesFound is returned when a run found issues. It only selects the
// exit code and is not worth logging.
var ErrIssuesFound = errors.New("issues found")

// errFilesFailed reports files that could not be read or written.
var errFilesFailed = errors.New("some files could not be processed")

// ExitError carries an explicit exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	return &ExitError{Code: ExitInvalidUsage, Err: err}
}

func usageErrorf(format string, args ...any) error {
	return usageError(fmt.Errorf(format, args...))
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrIssuesFound) {
		return ExitIssues
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var validationErr *configloader.ValidationError
	if errors.As(err, &validationErr) {
		return ExitConfigError
	}

	// Cobra reports argument and command errors as plain strings.
	msg := err.Error()
	for _, marker := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires at least", "required flag"} {
		if strings.Contains(msg, marker) {
			return ExitInvalidUsage
		}
	}

	return ExitInternalError
}

// ExitCodeFromResult determines the exit code of a multi-file run. File
// errors win over issues. failOnChanges also counts documents whose
// formatting would change.
func ExitCodeFromResult(result *runner.Result, failOnChanges bool) int {
	if result == nil {
		return ExitSuccess
	}

	stats := result.Stats

	switch {
	case stats.FilesErrored > 0:
		return ExitIOError
	case stats.DiagnosticsTotal > 0 || stats.FilesMalformed > 0:
		return ExitIssues
	case failOnChanges && stats.FilesChanged > stats.FilesWritten:
		return ExitIssues
	default:
		return ExitSuccess
	}
}

// resultError turns ExitCodeFromResult into the error a command returns.
func resultError(result *runner.Result, failOnChanges bool) error {
	switch code := ExitCodeFromResult(result, failOnChanges); code {
	case ExitSuccess:
		return nil
	case ExitIssues:
		return ErrIssuesFound
	default:
		return &ExitError{Code: code, Err: errFilesFailed}
	}
}
