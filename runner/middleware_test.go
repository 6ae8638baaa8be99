package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/shellcmd/logger"
	"github.com/kbukum/shellcmd/observability"
	"github.com/kbukum/shellcmd/process"
	"github.com/kbukum/shellcmd/runner"
)

// fakeExecutor returns canned results without spawning anything.
func fakeExecutor(out *process.Outcome, err error) runner.ExecutorFunc {
	return runner.ExecutorFunc{ExecName: "fake", Fn: func(context.Context, process.Command) (*process.Outcome, error) {
		return out, err
	}}
}

func exitFailure() (*process.Outcome, error) {
	out := &process.Outcome{ID: "exec-1", ExitCode: 1, Stdout: "", Duration: time.Millisecond}
	return out, &process.ExitError{Program: "grep", Outcome: out}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(tag string) runner.Middleware {
		return func(inner runner.Executor) runner.Executor {
			return runner.ExecutorFunc{ExecName: inner.Name(), Fn: func(ctx context.Context, cmd process.Command) (*process.Outcome, error) {
				order = append(order, tag+":before")
				out, err := inner.Execute(ctx, cmd)
				order = append(order, tag+":after")
				return out, err
			}}
		}
	}

	e := runner.Chain(mw("A"), mw("B"))(fakeExecutor(&process.Outcome{Success: true}, nil))
	if _, err := e.Execute(context.Background(), process.New("x")); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(order, " "); got != "A:before B:before B:after A:after" {
		t.Errorf("unexpected order %s", got)
	}
	if e.Name() != "fake" {
		t.Errorf("expected name passthrough, got %q", e.Name())
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "", &buf)

	e := runner.WithLogging(log)(fakeExecutor(exitFailure()))
	_, _ = e.Execute(context.Background(), process.New("grep"))

	e = runner.WithLogging(log)(fakeExecutor(nil, &process.SpawnError{Program: "grep", Err: errors.New("fork failed")}))
	_, _ = e.Execute(context.Background(), process.New("grep"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}

	var first, second map[string]interface{}
	_ = json.Unmarshal([]byte(lines[0]), &first)
	_ = json.Unmarshal([]byte(lines[1]), &second)
	if first["level"] != "debug" || first[logger.FieldExitCode] != float64(1) || first[logger.FieldExecutionID] != "exec-1" {
		t.Errorf("unexpected exit-failure line %v", first)
	}
	if second["level"] != "error" || second[logger.FieldStatus] != "SPAWN_FAILED" {
		t.Errorf("unexpected spawn-failure line %v", second)
	}
}

func TestWithTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	}()

	e := runner.WithTracing("shellcmd")(fakeExecutor(exitFailure()))
	_, _ = e.Execute(context.Background(), process.New("grep").WithArgs("x"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "shellcmd.fake" {
		t.Errorf("expected span shellcmd.fake, got %s", span.Name)
	}
	if span.Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", span.Status.Code)
	}
	attrs := map[string]string{}
	for _, kv := range span.Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[observability.AttrProgram] != "grep" || attrs[observability.AttrExitCode] != "1" {
		t.Errorf("unexpected attributes %v", attrs)
	}
	if attrs[observability.AttrErrorCode] != "EXIT_FAILURE" {
		t.Errorf("expected error code attribute, got %v", attrs[observability.AttrErrorCode])
	}
}

func TestWithMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()
	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	_, _ = runner.WithMetrics(metrics)(fakeExecutor(&process.Outcome{Success: true}, nil)).Execute(ctx, process.New("true"))
	_, _ = runner.WithMetrics(metrics)(fakeExecutor(exitFailure())).Execute(ctx, process.New("grep"))
	_, _ = runner.WithMetrics(metrics)(fakeExecutor(nil, &process.SpawnError{Program: "nope", Err: errors.New("x")})).Execute(ctx, process.New("nope"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	statuses := map[string]int64{}
	var errorsTotal int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch m.Name {
				case "process.execution.total":
					status, _ := dp.Attributes.Value("status")
					statuses[status.AsString()] += dp.Value
				case "process.error.total":
					errorsTotal += dp.Value
				}
			}
		}
	}
	want := map[string]int64{observability.StatusOK: 1, observability.StatusExitFailure: 1, observability.StatusError: 1}
	for k, v := range want {
		if statuses[k] != v {
			t.Errorf("status %s: expected %d, got %d", k, v, statuses[k])
		}
	}
	if errorsTotal != 1 {
		t.Errorf("expected 1 fatal error, got %d", errorsTotal)
	}
}
