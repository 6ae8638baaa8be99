package runner

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/shellcmd/errors"
	"github.com/kbukum/shellcmd/process"
	"github.com/kbukum/shellcmd/resilience"
)

// ResilienceConfig bundles optional resilience policies. Nil fields are
// skipped; an empty config is a passthrough.
type ResilienceConfig struct {
	// CircuitBreaker stops launching a program after repeated spawn failures.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	// Retry re-runs executions whose error is retryable.
	Retry *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
	// Bulkhead caps concurrently running children.
	Bulkhead *resilience.BulkheadConfig `yaml:"bulkhead" mapstructure:"bulkhead"`
}

// IsEmpty reports whether no policy is configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.CircuitBreaker == nil && c.Retry == nil && c.Bulkhead == nil
}

// ResilienceState holds the primitives built from a ResilienceConfig.
// Breaker state lives here, so one state must be shared across calls.
type ResilienceState struct {
	cb       *resilience.CircuitBreaker
	bh       *resilience.Bulkhead
	retryCfg *resilience.RetryConfig
}

// BuildResilience initializes the configured primitives. It returns nil for
// an empty config.
//
// Unless set explicitly, the breaker counts only spawn failures and retry
// only fires on retryable errors (transient spawn failures, timeouts and
// unavailable executors). A non-zero exit is never retried.
func BuildResilience(cfg ResilienceConfig) *ResilienceState {
	if cfg.IsEmpty() {
		return nil
	}
	s := &ResilienceState{}
	if cfg.Retry != nil {
		retryCfg := *cfg.Retry
		if retryCfg.RetryIf == nil {
			retryCfg.RetryIf = IsRetryable
		}
		s.retryCfg = &retryCfg
	}
	if cfg.CircuitBreaker != nil {
		cbCfg := *cfg.CircuitBreaker
		if cbCfg.IsFailure == nil {
			cbCfg.IsFailure = process.IsSpawnFailure
		}
		s.cb = resilience.NewCircuitBreaker(cbCfg)
	}
	if cfg.Bulkhead != nil {
		s.bh = resilience.NewBulkhead(*cfg.Bulkhead)
	}
	return s
}

// CircuitState reports the breaker state, StateClosed when there is none.
func (s *ResilienceState) CircuitState() resilience.State {
	if s == nil || s.cb == nil {
		return resilience.StateClosed
	}
	return s.cb.State()
}

// IsRetryable is the default retry filter.
func IsRetryable(err error) bool {
	return resilience.DefaultRetryIf(err) && process.ToAppError(err).Retryable
}

// WithResilience applies the resilience chain to each execution. The state
// is built once, so the breaker remembers failures across calls.
func WithResilience(cfg ResilienceConfig) Middleware {
	state := BuildResilience(cfg)
	return func(inner Executor) Executor {
		if state == nil {
			return inner
		}
		return &resilientExecutor{inner: inner, state: state}
	}
}

type resilientExecutor struct {
	inner Executor
	state *ResilienceState
}

func (r *resilientExecutor) Name() string { return r.inner.Name() }

func (r *resilientExecutor) Execute(ctx context.Context, cmd process.Command) (*process.Outcome, error) {
	return ExecuteWithResilience(ctx, r.inner.Name(), r.state, func() (*process.Outcome, error) {
		return r.inner.Execute(ctx, cmd)
	})
}

// ExecuteWithResilience runs fn through Bulkhead → CircuitBreaker → Retry → fn.
// Rejections by a policy are returned as *errors.AppError with code
// UNAVAILABLE; errors from fn pass through unchanged.
func ExecuteWithResilience[T any](ctx context.Context, name string, s *ResilienceState, fn func() (T, error)) (T, error) {
	if s == nil {
		return fn()
	}

	call := fn
	if s.retryCfg != nil {
		retryCfg := *s.retryCfg
		call = func() (T, error) {
			return resilience.Retry(ctx, retryCfg, fn)
		}
	}

	if s.cb != nil {
		cbCall := call
		call = func() (T, error) {
			var (
				result    T
				resultErr error
				ran       bool
			)
			cbErr := s.cb.Execute(func() error {
				ran = true
				result, resultErr = cbCall()
				return resultErr
			})
			if !ran {
				return result, wrapResilienceError(name, cbErr)
			}
			return result, resultErr
		}
	}

	if s.bh != nil {
		var ran bool
		result, err := resilience.ExecuteWithResult(ctx, s.bh, func() (T, error) {
			ran = true
			return call()
		})
		if err != nil && !ran {
			return result, wrapResilienceError(name, err)
		}
		return result, err
	}

	return call()
}

// wrapResilienceError converts policy rejections to AppError.
func wrapResilienceError(name string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return apperrors.Unavailable(name).WithCause(err).WithDetail("reason", "circuit open")
	case errors.Is(err, resilience.ErrBulkheadFull), errors.Is(err, resilience.ErrBulkheadTimeout):
		return apperrors.Unavailable(name).WithCause(err).WithDetail("reason", "concurrency limit reached")
	case errors.Is(err, context.Canceled):
		return apperrors.Canceled("wait for slot").WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("wait for slot").WithCause(err)
	default:
		return err
	}
}
