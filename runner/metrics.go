package runner

import (
	"context"
	"time"

	"github.com/kbukum/shellcmd/observability"
	"github.com/kbukum/shellcmd/process"
)

// WithMetrics records execution count, duration, active children and fatal
// errors on metrics.
func WithMetrics(metrics *observability.Metrics) Middleware {
	return func(inner Executor) Executor {
		return &metricsExecutor{inner: inner, metrics: metrics}
	}
}

type metricsExecutor struct {
	inner   Executor
	metrics *observability.Metrics
}

func (m *metricsExecutor) Name() string { return m.inner.Name() }

func (m *metricsExecutor) Execute(ctx context.Context, cmd process.Command) (*process.Outcome, error) {
	program := cmd.Name()
	m.metrics.RecordStart(ctx, program)
	start := time.Now()
	out, err := m.inner.Execute(ctx, cmd)
	duration := time.Since(start)

	status := observability.StatusOK
	switch {
	case err == nil:
	case out != nil:
		status = observability.StatusExitFailure
	default:
		status = observability.StatusError
		m.metrics.RecordError(ctx, string(process.ToAppError(err).Code), program)
	}
	m.metrics.RecordExecution(ctx, program, status, duration)
	return out, err
}
