package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("shellcmd")
	if cfg.ServiceName != "shellcmd" {
		t.Errorf("expected ServiceName 'shellcmd', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 || !cfg.Insecure {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("shellcmd")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewMetricsNoop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	metrics.RecordStart(ctx, "grep")
	metrics.RecordExecution(ctx, "grep", StatusOK, 10*time.Millisecond)
	metrics.RecordError(ctx, "SPAWN_FAILED", "grep")
}

func TestMetricsRecordExecution(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	metrics.RecordStart(ctx, "grep")
	metrics.RecordExecution(ctx, "grep", StatusExitFailure, 5*time.Millisecond)
	metrics.RecordStart(ctx, "grep")
	metrics.RecordExecution(ctx, "grep", StatusOK, 5*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	total := findSum(rm, "process.execution.total")
	if total == nil {
		t.Fatal("process.execution.total not recorded")
	}
	var sum int64
	for _, dp := range total.DataPoints {
		sum += dp.Value
	}
	if sum != 2 || len(total.DataPoints) != 2 {
		t.Errorf("expected 2 executions over 2 statuses, got %d over %d", sum, len(total.DataPoints))
	}

	active := findSum(rm, "process.execution.active")
	if active == nil || len(active.DataPoints) != 1 || active.DataPoints[0].Value != 0 {
		t.Errorf("expected no active executions, got %+v", active)
	}
}

func findSum(rm metricdata.ResourceMetrics, name string) *metricdata.Sum[int64] {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if s, ok := m.Data.(metricdata.Sum[int64]); ok {
				return &s
			}
		}
	}
	return nil
}

func TestStartSpanAndAttributes(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), SpanExecute)
	SetSpanAttribute(ctx, AttrProgram, "grep")
	SetSpanAttribute(ctx, AttrExitCode, 1)
	SetSpanAttribute(ctx, AttrArgs, []string{"-n", "x"})
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", got.Status.Code)
	}
	if len(got.Attributes) != 3 {
		t.Errorf("expected 3 attributes, got %v", got.Attributes)
	}
	if len(got.Events) != 1 {
		t.Errorf("expected one recorded error event, got %d", len(got.Events))
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	// Must not panic.
	SetSpanAttribute(ctx, AttrProgram, "grep")
	SetSpanError(ctx, errors.New("boom"))
	if SpanFromContext(ctx).IsRecording() {
		t.Error("background context must not carry a recording span")
	}
}

func TestStartSpanUsesGlobalProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), SpanPipe)
	defer span.End()
	if ctx == nil || span == nil {
		t.Fatal("expected a context and a span")
	}
	if Tracer("x") == nil || Meter("x") == nil {
		t.Error("expected non-nil tracer and meter")
	}
}

func TestInitTracerSamplingRates(t *testing.T) {
	for _, rate := range []float64{1.0, 0.0, 0.5} {
		cfg := DefaultTracerConfig("test")
		cfg.SampleRate = rate
		tp, err := InitTracer(context.Background(), cfg)
		if err != nil {
			t.Fatalf("rate %v: %v", rate, err)
		}
		shutdown(t, tp.Shutdown)
	}
}

func TestInitMeter(t *testing.T) {
	cfg := DefaultMeterConfig("test")
	cfg.Insecure = false
	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	shutdown(t, mp.Shutdown)
}

func TestSetupDisabled(t *testing.T) {
	stop, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := stop(context.Background()); err != nil {
		t.Errorf("no-op shutdown returned %v", err)
	}
}

func TestSetupEnabled(t *testing.T) {
	stop, err := Setup(context.Background(), Config{Endpoint: "localhost:4318", Insecure: true, ServiceName: "test"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	shutdown(t, stop)
}

// shutdown ignores export errors: no collector listens in tests.
func shutdown(t *testing.T, fn func(context.Context) error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = fn(ctx)
}
