package runner

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/kbukum/shellcmd/observability"
	"github.com/kbukum/shellcmd/process"
	"github.com/kbukum/shellcmd/validation"
)

// Config holds defaults applied to every command a Runner executes.
type Config struct {
	// Name identifies the runner in logs, spans and errors.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`
	// Dir is the working directory for commands that set none.
	Dir string `yaml:"dir,omitempty" mapstructure:"dir"`
	// Env is overlaid before each command's own overlay.
	Env map[string]string `yaml:"env,omitempty" mapstructure:"env"`
	// GracePeriod is the SIGTERM to SIGKILL delay for commands that set none.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period" validate:"gte=0"`
	// Timeout bounds each execution. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
	// IgnoreStatus reports non-zero exits as plain outcomes.
	IgnoreStatus bool `yaml:"ignore_status,omitempty" mapstructure:"ignore_status"`
	// Resilience is applied innermost, around the spawn.
	Resilience ResilienceConfig `yaml:"resilience,omitempty" mapstructure:"resilience"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "process"
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = process.DefaultGracePeriod
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	v := validation.New()
	for _, k := range slices.Sorted(maps.Keys(c.Env)) {
		v.EnvKey("env", k).NoNUL("env."+k, c.Env[k])
	}
	return v.Error()
}

// Runner executes commands with shared defaults and middleware.
type Runner struct {
	cfg  Config
	exec Executor
}

// New builds a Runner. Middlewares are applied outermost first; the
// configured resilience policies sit innermost.
func New(cfg Config, mws ...Middleware) (*Runner, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chain := slices.Clone(mws)
	if !cfg.Resilience.IsEmpty() {
		chain = append(chain, WithResilience(cfg.Resilience))
	}
	base := &processExecutor{name: cfg.Name, ignoreStatus: cfg.IgnoreStatus}
	return &Runner{cfg: cfg, exec: Chain(chain...)(base)}, nil
}

// Name returns the runner name.
func (r *Runner) Name() string { return r.cfg.Name }

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// Execute applies the runner defaults to cmd and runs it through the chain.
func (r *Runner) Execute(ctx context.Context, cmd process.Command) (*process.Outcome, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	return r.exec.Execute(ctx, r.prepare(cmd))
}

// Pipe runs a string-mediated pipeline like process.Pipe, sending every
// stage through the chain. The timeout bounds the whole pipeline.
func (r *Runner) Pipe(ctx context.Context, first process.Command, rest ...process.Command) (*process.Outcome, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanPipe)
	defer span.End()

	stages := append([]process.Command{first}, rest...)
	observability.SetSpanAttribute(ctx, "shellcmd.pipe.stages", len(stages))

	var prev *process.Outcome
	for i, stage := range stages {
		stage = r.prepare(stage)
		if prev != nil {
			stage = stage.WithInput(prev.Stdout)
		}
		out, err := r.exec.Execute(ctx, stage)
		if i == len(stages)-1 {
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
			if err != nil && out == nil {
				return nil, fmt.Errorf("runner: pipe stage %d (%s): %w", i, stage.Name(), err)
			}
			return out, err
		}
		if o, ok := process.IsExitFailure(err); ok {
			out, err = o, nil
		}
		if err != nil {
			observability.SetSpanError(ctx, err)
			return nil, fmt.Errorf("runner: pipe stage %d (%s): %w", i, stage.Name(), err)
		}
		prev = out
	}
	return prev, nil
}

// prepare applies the runner defaults without overriding what cmd sets.
func (r *Runner) prepare(cmd process.Command) process.Command {
	if cmd.Dir() == "" && r.cfg.Dir != "" {
		cmd = cmd.WithDir(r.cfg.Dir)
	}
	if len(r.cfg.Env) > 0 {
		own, _ := cmd.Environ()
		cmd = cmd.WithEnvMap(r.cfg.Env).WithEnvMap(own)
	}
	if cmd.GracePeriod() == 0 {
		cmd = cmd.WithGracePeriod(r.cfg.GracePeriod)
	}
	return cmd
}
