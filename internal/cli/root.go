// Package cli implements the shellcmd command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/shellcmd/config"
	"github.com/kbukum/shellcmd/logger"
	"github.com/kbukum/shellcmd/observability"
	"github.com/kbukum/shellcmd/runner"
	"github.com/kbukum/shellcmd/version"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile   string
	logLevel     string
	logFormat    string
	otelEndpoint string
}

// app carries the state built by the persistent pre-run hook.
type app struct {
	opts     globalOptions
	cfg      Config
	metrics  *observability.Metrics
	shutdown func(context.Context) error
}

// NewRootCmd builds the shellcmd command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   serviceName,
		Short: "Run external programs with captured output",
		Long: `shellcmd runs one external program at a time without a shell.

Arguments are passed verbatim, stdin can be supplied as text, and stdout and
stderr are captured and decoded as UTF-8. Pipelines are string-mediated: each
stage runs to completion before its output becomes the next stage's input.`,
		Version:       version.GetShortVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configFile, "config", "", "config file (default: ./shellcmd.yml, ./config.yml or the user config dir)")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
	flags.StringVar(&a.opts.logFormat, "log-format", "", "log format: console or json")
	flags.StringVar(&a.opts.otelEndpoint, "otel-endpoint", "", "OTLP/HTTP endpoint for traces and metrics")

	root.AddCommand(newRunCmd(a), newPipeCmd(a), newVersionCmd())
	return root
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the running command,
// which is then stopped with the configured grace period.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	return err
}

// reportError prints failures that were not already reported. Execution
// failures carry an ExitCodeError and have been logged by the runner.
func reportError(w io.Writer, err error) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return
	}
	fmt.Fprintf(w, "%s: %v\n", serviceName, err)
}

// setup loads the configuration, applies flag overrides, and initializes
// logging and observability.
func (a *app) setup(cmd *cobra.Command) error {
	opts := []config.LoaderOption{
		config.WithEnvPrefix(envPrefix),
		config.WithDefault("name", serviceName),
	}
	if a.opts.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.opts.configFile))
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}
	switch {
	case a.opts.logLevel != "":
		cfg.Logging.Level = a.opts.logLevel
	case cfg.Logging.Level == "" && !cfg.Debug:
		// Keep stderr for the child's output unless asked otherwise.
		cfg.Logging.Level = "warn"
	}
	if a.opts.logFormat != "" {
		cfg.Logging.Format = a.opts.logFormat
	}
	if a.opts.otelEndpoint != "" {
		cfg.Observability.Endpoint = a.opts.otelEndpoint
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(&cfg.Logging)
	logger.RegisterDefaults()
	a.cfg = cfg

	ocfg := cfg.Observability
	ocfg.ServiceName = cfg.Name
	ocfg.ServiceVersion = version.GetShortVersion()
	ocfg.Environment = cfg.Environment
	shutdown, err := observability.Setup(cmd.Context(), ocfg)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	a.shutdown = shutdown
	if ocfg.Enabled() {
		m, err := observability.NewMetrics(observability.Meter(cfg.Name))
		if err != nil {
			_ = a.close(cmd.Context())
			return fmt.Errorf("observability: %w", err)
		}
		a.metrics = m
	}

	logger.Get(logger.ComponentCLI).Debug("configured", logger.Fields(
		"service", cfg.Name,
		"environment", cfg.Environment,
		"otel", ocfg.Enabled(),
	))
	return nil
}

// finally flushes telemetry once the command is done, whether or not it
// failed, and passes err through.
func (a *app) finally(ctx context.Context, err error) error {
	if cerr := a.close(ctx); cerr != nil {
		logger.Get(logger.ComponentCLI).Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, cerr.Error()))
	}
	return err
}

func (a *app) close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	shutdown := a.shutdown
	a.shutdown = nil
	return shutdown(context.WithoutCancel(ctx))
}

// newRunner builds a runner from the loaded configuration with per-call
// overrides applied.
func (a *app) newRunner(override func(*runner.Config)) (*runner.Runner, error) {
	cfg := a.cfg.Runner
	if override != nil {
		override(&cfg)
	}
	mws := []runner.Middleware{runner.WithLogging(logger.Get(logger.ComponentRunner))}
	if a.cfg.Observability.Enabled() {
		mws = append(mws, runner.WithTracing(a.cfg.Name))
	}
	if a.metrics != nil {
		mws = append(mws, runner.WithMetrics(a.metrics))
	}
	return runner.New(cfg, mws...)
}
