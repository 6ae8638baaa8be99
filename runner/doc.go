// Package runner executes process.Commands through a configurable chain of
// middleware: logging, tracing, metrics and resilience.
//
//	r, err := runner.New(runner.Config{Name: "git", Timeout: 30 * time.Second},
//		runner.WithLogging(logger.Get("runner")),
//		runner.WithTracing("shellcmd"),
//	)
//	out, err := r.Execute(ctx, process.New("git").WithArgs("status", "--short"))
//
// Runner-level defaults (working directory, environment overlay, grace
// period, timeout) are applied to every command before it enters the chain.
// A command's own settings win over the defaults.
package runner
