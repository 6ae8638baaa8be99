package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/kbukum/shellcmd/logger"
)

// DefaultGracePeriod is the SIGTERM to SIGKILL delay for canceled children.
const DefaultGracePeriod = 5 * time.Second

// Stream names used in errors and logs.
const (
	StreamStdin  = "stdin"
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// Execute runs cmd to completion and returns its outcome.
//
// A process that exits non-zero returns the outcome together with an
// *ExitError carrying the same outcome. A *BuildError, *SpawnError,
// *StreamError or *DecodeError returns a nil outcome. If ctx ends first the
// process group gets SIGTERM, then SIGKILL after the grace period, and the
// returned error wraps both ErrCanceled and ctx.Err().
func Execute(ctx context.Context, cmd Command) (*Outcome, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := logger.Get(logger.ComponentProcess).WithContext(ctx).WithFields(logger.Fields(
		logger.FieldExecutionID, id,
		logger.FieldProgram, cmd.program,
	))

	c := exec.CommandContext(ctx, cmd.program, cmd.args...) //nolint:gosec // running caller-chosen programs is the purpose of this package
	c.Dir = cmd.dir
	c.Env = mergeEnv(cmd.env)
	grace := cmd.gracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	configureCancel(c, grace)

	stdin, stdout, stderr, err := openPipes(c)
	if err != nil {
		return nil, &SpawnError{Program: cmd.program, Err: err}
	}

	log.Debug("starting process", logger.Fields(logger.FieldArgs, cmd.args))
	start := time.Now()
	if err := c.Start(); err != nil {
		closeAll(stdin, stdout, stderr)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %s not started: %w", ErrCanceled, cmd.program, ctxErr)
		}
		log.Warn("process failed to start", logger.ErrorFields("start", err))
		return nil, &SpawnError{Program: cmd.program, Err: err}
	}
	log.Debug("process started", logger.Fields(logger.FieldPID, c.Process.Pid))

	// A child that ignores SIGTERM can leave descendants holding the pipes
	// open. Force the drains to finish once the grace period is over.
	stopForce := context.AfterFunc(ctx, func() {
		time.AfterFunc(grace, func() { closeAll(stdout, stderr) })
	})
	defer stopForce()

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error { return writeInput(stdin, cmd.input) })
	g.Go(func() error { return drain(StreamStdout, &outBuf, stdout) })
	g.Go(func() error { return drain(StreamStderr, &errBuf, stderr) })
	ioErr := g.Wait()

	// Reap on every path once Start succeeded.
	waitErr := c.Wait()
	duration := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil && (ioErr != nil || waitErr != nil) {
		log.Debug("process killed by context", logger.MergeWithDuration(logger.ErrorFields("wait", ctxErr), duration))
		return nil, fmt.Errorf("%w: %s killed: %w", ErrCanceled, cmd.program, ctxErr)
	}
	if ioErr != nil {
		log.Warn("process stream failed", logger.ErrorFields("drain", ioErr))
		return nil, ioErr
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		log.Warn("process wait failed", logger.ErrorFields("wait", waitErr))
		return nil, &StreamError{Stream: "wait", Err: waitErr}
	}

	outText, err := decode(StreamStdout, outBuf.Bytes())
	if err != nil {
		log.Warn("process output is not valid UTF-8", logger.ErrorFields("decode", err))
		return nil, err
	}
	errText, err := decode(StreamStderr, errBuf.Bytes())
	if err != nil {
		log.Warn("process output is not valid UTF-8", logger.ErrorFields("decode", err))
		return nil, err
	}

	outcome := &Outcome{
		ID:       id,
		Success:  c.ProcessState.Success(),
		Stdout:   outText,
		Stderr:   errText,
		ExitCode: c.ProcessState.ExitCode(),
		Signal:   exitSignal(c.ProcessState),
		Duration: duration,
	}
	log.Debug("process finished", logger.MergeWithDuration(logger.Fields(logger.FieldExitCode, outcome.ExitCode), duration))

	if !outcome.Success {
		return outcome, &ExitError{Program: cmd.program, Outcome: outcome}
	}
	return outcome, nil
}

// ExecuteIgnoringStatus runs cmd and returns its outcome whatever the exit
// status. Fatal errors are returned unchanged.
func ExecuteIgnoringStatus(ctx context.Context, cmd Command) (*Outcome, error) {
	outcome, err := Execute(ctx, cmd)
	if o, ok := IsExitFailure(err); ok {
		return o, nil
	}
	return outcome, err
}

func openPipes(c *exec.Cmd) (io.WriteCloser, io.ReadCloser, io.ReadCloser, error) {
	stdin, err := c.StdinPipe()
	if err != nil {
		return nil, nil, nil, err
	}
	stdout, err := c.StdoutPipe()
	if err != nil {
		closeAll(stdin)
		return nil, nil, nil, err
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		closeAll(stdin, stdout)
		return nil, nil, nil, err
	}
	return stdin, stdout, stderr, nil
}

// writeInput writes the whole input, or nothing, then closes stdin so the
// child sees EOF. A child that exits without reading its input is not an
// error.
func writeInput(w io.WriteCloser, input *string) error {
	var err error
	if input != nil {
		_, err = io.WriteString(w, *input)
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err == nil || errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) {
		return nil
	}
	return &StreamError{Stream: StreamStdin, Err: err}
}

func drain(stream string, dst *bytes.Buffer, r io.Reader) error {
	if _, err := dst.ReadFrom(r); err != nil {
		return &StreamError{Stream: stream, Err: err}
	}
	return nil
}

func decode(stream string, raw []byte) (string, error) {
	text, n, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return "", &DecodeError{Stream: stream, Offset: n, Err: err}
	}
	return string(text), nil
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
