package observability

import (
	"context"
	"errors"
)

// Config enables tracing and metrics together. An empty Endpoint disables
// both and Setup installs nothing. A zero SampleRate samples everything.
type Config struct {
	Endpoint       string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	ServiceName    string  `yaml:"-" mapstructure:"-"`
	ServiceVersion string  `yaml:"-" mapstructure:"-"`
	Environment    string  `yaml:"-" mapstructure:"-"`
}

// Enabled reports whether an exporter endpoint is configured.
func (c Config) Enabled() bool { return c.Endpoint != "" }

// Setup initializes the tracer and meter providers described by cfg and
// returns a function that flushes and shuts both down.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	tcfg := DefaultTracerConfig(cfg.ServiceName)
	tcfg.Endpoint = cfg.Endpoint
	tcfg.Insecure = cfg.Insecure
	if cfg.SampleRate > 0 {
		tcfg.SampleRate = cfg.SampleRate
	}
	if cfg.ServiceVersion != "" {
		tcfg.ServiceVersion = cfg.ServiceVersion
	}
	if cfg.Environment != "" {
		tcfg.Environment = cfg.Environment
	}
	tp, err := InitTracer(ctx, tcfg)
	if err != nil {
		return nil, err
	}

	mcfg := DefaultMeterConfig(cfg.ServiceName)
	mcfg.Endpoint = tcfg.Endpoint
	mcfg.Insecure = tcfg.Insecure
	mcfg.ServiceVersion = tcfg.ServiceVersion
	mcfg.Environment = tcfg.Environment
	mp, err := InitMeter(ctx, mcfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
