package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/kbukum/shellcmd/process"
)

// Exit statuses used when the child never produced one.
const (
	ExitFailure      = 1
	ExitNotExecuted  = 126
	ExitNotFound     = 127
	ExitInterrupted  = 130
	exitSignalOffset = 128
)

// ExitCodeError makes the CLI exit with Code. Err is the failure behind it,
// if any.
type ExitCodeError struct {
	Code int
	Err  error
}

// NewExitCodeError returns an ExitCodeError with no underlying cause.
func NewExitCodeError(code int) *ExitCodeError {
	return &ExitCodeError{Code: code}
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitCodeError) Unwrap() error { return e.Err }

// exitCodeFor maps an execution error onto the status the CLI exits with.
// A child that exited non-zero passes its own status through; a child that
// died from a signal reports 128+N like a shell.
// An interrupted run reports 130 like a shell does on SIGINT.
func exitCodeFor(err error) int {
	if out, ok := process.IsExitFailure(err); ok {
		switch {
		case out.Signal > 0:
			return exitSignalOffset + out.Signal
		case out.ExitCode > 0:
			return out.ExitCode
		}
		return ExitFailure
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	if process.IsNotFound(err) {
		return ExitNotFound
	}
	if process.IsSpawnFailure(err) && errors.Is(err, fs.ErrPermission) {
		return ExitNotExecuted
	}
	return ExitFailure
}

// silentExit wraps err so main exits with the matching status. Exit
// failures are not printed: the child's stderr already explains them.
func silentExit(err error) error {
	return &ExitCodeError{Code: exitCodeFor(err), Err: err}
}
