package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/shellcmd/logger"
)

// Execution statuses recorded on metrics.
const (
	StatusOK          = "ok"
	StatusExitFailure = "exit_failure"
	StatusError       = "error"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The caller must Shutdown the returned provider on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(config.ServiceName, config.ServiceVersion, config.Environment)),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded per command execution.
type Metrics struct {
	executionTotal    metric.Int64Counter
	executionDuration metric.Float64Histogram
	executionActive   metric.Int64UpDownCounter
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	executionTotal, err := meter.Int64Counter("process.execution.total",
		metric.WithDescription("Total number of command executions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.execution.total counter: %w", err)
	}

	executionDuration, err := meter.Float64Histogram("process.execution.duration",
		metric.WithDescription("Duration of command executions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.execution.duration histogram: %w", err)
	}

	executionActive, err := meter.Int64UpDownCounter("process.execution.active",
		metric.WithDescription("Number of child processes currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.execution.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("process.error.total",
		metric.WithDescription("Total fatal execution errors by code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.error.total counter: %w", err)
	}

	return &Metrics{
		executionTotal:    executionTotal,
		executionDuration: executionDuration,
		executionActive:   executionActive,
		errorTotal:        errorTotal,
	}, nil
}

// RecordStart increments the active execution count.
func (m *Metrics) RecordStart(ctx context.Context, program string) {
	m.executionActive.Add(ctx, 1, metric.WithAttributes(attribute.String("program", program)))
}

// RecordExecution decrements the active count and records one finished
// execution with its status.
func (m *Metrics) RecordExecution(ctx context.Context, program, status string, duration time.Duration) {
	m.executionActive.Add(ctx, -1, metric.WithAttributes(attribute.String("program", program)))
	m.executionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("program", program),
		attribute.String("status", status),
	))
	m.executionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("program", program),
	))
}

// RecordError records a fatal error by code and program.
func (m *Metrics) RecordError(ctx context.Context, code, program string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("program", program),
	))
}
