package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/shellcmd/process"
)

// stageSeparator splits pipe arguments into stages. It must be quoted so
// the invoking shell does not interpret it.
const stageSeparator = "|"

func newPipeCmd(a *app) *cobra.Command {
	o := &execOptions{}
	cmd := &cobra.Command{
		Use:   "pipe [flags] [--] A [ARGS...] '|' B [ARGS...]...",
		Short: "Run a string-mediated pipeline",
		Long: `Run programs one after another, feeding each stage's captured stdout
to the next stage as its input.

Stages are separated by a literal '|' argument. Every stage runs to
completion before the next one starts. A non-zero exit of an inner stage
does not stop the pipeline; the exit status is the last stage's.
--input feeds the first stage, --env and --dir apply to every stage and
--timeout bounds the whole pipeline.`,
		Example: `  shellcmd pipe -- cat words.txt '|' sort '|' uniq -c
  printf 'b\na\n' | shellcmd pipe --input-file - -- sort '|' head -n 1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finally(cmd.Context(), runPipe(cmd, a, o, args))
		},
	}
	o.register(cmd)
	return cmd
}

func runPipe(cmd *cobra.Command, a *app, o *execOptions, args []string) error {
	if err := o.validate(); err != nil {
		return err
	}
	argvs, err := splitStages(args)
	if err != nil {
		return err
	}
	env, err := o.envOverlay()
	if err != nil {
		return err
	}

	stages := make([]process.Command, 0, len(argvs))
	names := make([]string, 0, len(argvs))
	for i, argv := range argvs {
		c, err := buildCommand(argv, env)
		if err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
		stages = append(stages, c)
		names = append(names, c.String())
	}
	input, ok, err := o.stdinText(cmd)
	if err != nil {
		return err
	}
	if ok {
		stages[0] = stages[0].WithInput(input)
	}

	r, err := a.newRunner(o.overrideRunner)
	if err != nil {
		return err
	}
	out, err := r.Pipe(cmd.Context(), stages[0], stages[1:]...)
	return finish(cmd, o.output, strings.Join(names, " | "), out, err)
}

// splitStages splits args on the separator. Empty stages are rejected.
func splitStages(args []string) ([][]string, error) {
	var stages [][]string
	start := 0
	for i := 0; i <= len(args); i++ {
		if i < len(args) && args[i] != stageSeparator {
			continue
		}
		if i == start {
			return nil, fmt.Errorf("empty pipeline stage at position %d", len(stages))
		}
		stages = append(stages, args[start:i])
		start = i + 1
	}
	return stages, nil
}
