// Package observability wires OpenTelemetry tracing and metrics for command
// execution.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("shellcmd"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "process.execute")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("shellcmd"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("shellcmd"))
//	metrics.RecordExecution(ctx, "grep", observability.StatusExitFailure, duration)
//
// Setup does both from one Config and returns a single shutdown function.
package observability
