package runner

import (
	"context"

	"github.com/kbukum/shellcmd/observability"
	"github.com/kbukum/shellcmd/process"
)

// WithTracing wraps each execution in a span named "{serviceName}.{executor}".
func WithTracing(serviceName string) Middleware {
	return func(inner Executor) Executor {
		return &tracingExecutor{inner: inner, serviceName: serviceName}
	}
}

type tracingExecutor struct {
	inner       Executor
	serviceName string
}

func (t *tracingExecutor) Name() string { return t.inner.Name() }

func (t *tracingExecutor) Execute(ctx context.Context, cmd process.Command) (*process.Outcome, error) {
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+t.inner.Name())
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrServiceName, t.serviceName)
	observability.SetSpanAttribute(ctx, observability.AttrExecutor, t.inner.Name())
	observability.SetSpanAttribute(ctx, observability.AttrProgram, cmd.Name())
	observability.SetSpanAttribute(ctx, observability.AttrArgs, cmd.Args())

	out, err := t.inner.Execute(ctx, cmd)
	if out != nil {
		observability.SetSpanAttribute(ctx, observability.AttrExecutionID, out.ID)
		observability.SetSpanAttribute(ctx, observability.AttrExitCode, out.ExitCode)
		observability.SetSpanAttribute(ctx, observability.AttrDurationMs, out.Duration.Milliseconds())
		observability.SetSpanAttribute(ctx, observability.AttrStdoutLength, len(out.Stdout))
		observability.SetSpanAttribute(ctx, observability.AttrStderrLength, len(out.Stderr))
	}
	if err != nil {
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(process.ToAppError(err).Code))
		observability.SetSpanError(ctx, err)
	}
	return out, err
}
