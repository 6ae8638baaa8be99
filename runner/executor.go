package runner

import (
	"context"

	"github.com/kbukum/shellcmd/process"
)

// Executor runs one command. Implementations follow process.Execute's
// contract: an *process.ExitError comes with the outcome it carries.
type Executor interface {
	Name() string
	Execute(ctx context.Context, cmd process.Command) (*process.Outcome, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc struct {
	ExecName string
	Fn       func(ctx context.Context, cmd process.Command) (*process.Outcome, error)
}

func (f ExecutorFunc) Name() string { return f.ExecName }

func (f ExecutorFunc) Execute(ctx context.Context, cmd process.Command) (*process.Outcome, error) {
	return f.Fn(ctx, cmd)
}

// processExecutor is the innermost Executor and the only one that spawns.
type processExecutor struct {
	name         string
	ignoreStatus bool
}

func (p *processExecutor) Name() string { return p.name }

func (p *processExecutor) Execute(ctx context.Context, cmd process.Command) (*process.Outcome, error) {
	if p.ignoreStatus {
		return process.ExecuteIgnoringStatus(ctx, cmd)
	}
	return process.Execute(ctx, cmd)
}
