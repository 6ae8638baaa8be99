package process

import (
	"context"
	"fmt"
)

// Pipe runs first and then each command in rest, feeding every stage the
// captured stdout of the stage before it. Input set on a later stage is
// replaced.
//
// Like a shell pipeline without pipefail, only the last stage's exit status
// counts: intermediate stages run with ExecuteIgnoringStatus, the last with
// Execute. A fatal error in any stage stops the chain.
func Pipe(ctx context.Context, first Command, rest ...Command) (*Outcome, error) {
	stages := append([]Command{first}, rest...)
	last := len(stages) - 1

	var prev *Outcome
	for i, stage := range stages {
		if prev != nil {
			stage = stage.WithInput(prev.Stdout)
		}
		if i == last {
			outcome, err := Execute(ctx, stage)
			if err != nil && outcome == nil {
				return nil, fmt.Errorf("process: pipe stage %d (%s): %w", i, stage.Name(), err)
			}
			return outcome, err
		}
		outcome, err := ExecuteIgnoringStatus(ctx, stage)
		if err != nil {
			return nil, fmt.Errorf("process: pipe stage %d (%s): %w", i, stage.Name(), err)
		}
		prev = outcome
	}
	return prev, nil
}
