package process

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	apperrors "github.com/kbukum/shellcmd/errors"
)

// Build violations.
var (
	ErrEmptyProgram   = errors.New("process: empty program name")
	ErrInvalidCommand = errors.New("process: invalid command")
)

// ErrCanceled is wrapped, next to the context's error, when the context
// ended before the process finished.
var ErrCanceled = errors.New("process: canceled")

// BuildError reports a Command that cannot be executed.
type BuildError struct {
	Field  string
	Reason string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("process: invalid command: %s: %s", e.Field, e.Reason)
}

func (e *BuildError) Unwrap() error { return e.Err }

// SpawnError reports a process the OS never started.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("process: start %s: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// DecodeError reports captured output that is not valid UTF-8.
// Offset is the byte index of the first invalid sequence.
type DecodeError struct {
	Stream string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("process: decode %s at byte %d: %v", e.Stream, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StreamError reports a failed read or write on one of the child's pipes.
type StreamError struct {
	Stream string
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("process: %s: %v", e.Stream, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ExitError reports a process that ran and exited non-zero.
// Outcome is the same value Execute returns alongside it.
type ExitError struct {
	Program string
	Outcome *Outcome
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("process: %s exited with status %d", e.Program, e.Outcome.ExitCode)
}

// IsExitFailure returns the outcome carried by an *ExitError in err's chain.
func IsExitFailure(err error) (*Outcome, bool) {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Outcome, true
	}
	return nil, false
}

// IsSpawnFailure reports whether err means the process never ran.
func IsSpawnFailure(err error) bool {
	var se *SpawnError
	return errors.As(err, &se)
}

// IsNotFound reports whether err is a spawn failure for a missing executable.
func IsNotFound(err error) bool {
	return IsSpawnFailure(err) && (errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist))
}

// ToAppError maps an Execute error onto the shared error codes.
func ToAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if ae, ok := apperrors.AsAppError(err); ok {
		return ae
	}

	var (
		be  *BuildError
		se  *SpawnError
		de  *DecodeError
		ste *StreamError
		ee  *ExitError
	)
	switch {
	case errors.As(err, &be):
		return apperrors.InvalidCommand(be.Field + ": " + be.Reason).WithCause(err)
	case errors.As(err, &se):
		switch {
		case IsNotFound(err):
			return apperrors.CommandNotFound(se.Program).WithCause(err)
		case errors.Is(err, fs.ErrPermission):
			return apperrors.PermissionDenied(se.Program).WithCause(err)
		default:
			return apperrors.SpawnFailed(se.Program, err)
		}
	case errors.As(err, &de):
		return apperrors.DecodeFailed(de.Stream, err).WithDetail("offset", de.Offset)
	case errors.As(err, &ste):
		return apperrors.StreamFailed(ste.Stream, err)
	case errors.As(err, &ee):
		return apperrors.ExitFailure(ee.Program, ee.Outcome.ExitCode).WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("execute").WithCause(err)
	case errors.Is(err, context.Canceled):
		return apperrors.Canceled("execute").WithCause(err)
	default:
		return apperrors.Internal(err)
	}
}
