package runner

import (
	"context"
	"time"

	"github.com/kbukum/shellcmd/logger"
	"github.com/kbukum/shellcmd/process"
)

// WithLogging logs every execution. Exit failures are expected outcomes and
// log at debug; fatal errors log at error.
func WithLogging(log *logger.Logger) Middleware {
	return func(inner Executor) Executor {
		return &loggingExecutor{inner: inner, log: log}
	}
}

type loggingExecutor struct {
	inner Executor
	log   *logger.Logger
}

func (l *loggingExecutor) Name() string { return l.inner.Name() }

func (l *loggingExecutor) Execute(ctx context.Context, cmd process.Command) (*process.Outcome, error) {
	start := time.Now()
	out, err := l.inner.Execute(ctx, cmd)
	duration := time.Since(start)

	fields := logger.Fields(
		"executor", l.inner.Name(),
		logger.FieldProgram, cmd.Name(),
		logger.FieldDuration, duration.Milliseconds(),
	)
	if out != nil {
		fields[logger.FieldExecutionID] = out.ID
		fields[logger.FieldExitCode] = out.ExitCode
	}

	log := l.log.WithContext(ctx)
	switch {
	case err == nil:
		log.Debug("command ok", fields)
	case out != nil:
		log.Debug("command exited non-zero", fields)
	default:
		fields[logger.FieldStatus] = string(process.ToAppError(err).Code)
		log.Error("command failed", logger.MergeWithError(fields, err))
	}
	return out, err
}
