package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ppiankov/auditmatrix/internal/verify"
)

// Exit codes for CLI commands
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Verification failure
	ExitCommandError = 2 // Command error (unreadable document, bad config or catalog)
)

// ExitError carries the process exit status for a failed command
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
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

// NewExitError creates a new ExitError with the given code and message
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode extracts the exit status from an error. Errors that carry no
// code are command errors: cobra reports bad flags and arguments that way.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// reportVerification prints one VERIFY ERROR line per failure and returns
// an ExitFailure error when there were any
func reportVerification(w io.Writer, result verify.Result) error {
	if result.Passed() {
		return nil
	}
	for _, msg := range result.Errors {
		fmt.Fprintln(w, verify.ErrorPrefix+msg)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("verification failed with %d error(s)", len(result.Errors)))
}
