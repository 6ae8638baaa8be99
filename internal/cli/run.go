package cli

import (
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	o := &execOptions{}
	cmd := &cobra.Command{
		Use:   "run [flags] [--] PROGRAM [ARGS...]",
		Short: "Run one program and print its captured output",
		Long: `Run one program without a shell and print its captured output.

The program is looked up on PATH and ARGS are passed verbatim. With the
default text output the child's stdout and stderr are copied to shellcmd's
own, and shellcmd exits with the child's exit status (127 when the program
was not found).`,
		Example: `  shellcmd run -- grep -n foo notes.txt
  shellcmd run --input $'b\na' -o json sort
  shellcmd run -e LC_ALL=C --timeout 5s -- make test`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.finally(cmd.Context(), runRun(cmd, a, o, args))
		},
	}
	o.register(cmd)
	return cmd
}

func runRun(cmd *cobra.Command, a *app, o *execOptions, args []string) error {
	if err := o.validate(); err != nil {
		return err
	}
	env, err := o.envOverlay()
	if err != nil {
		return err
	}
	c, err := buildCommand(args, env)
	if err != nil {
		return err
	}
	input, ok, err := o.stdinText(cmd)
	if err != nil {
		return err
	}
	if ok {
		c = c.WithInput(input)
	}

	r, err := a.newRunner(o.overrideRunner)
	if err != nil {
		return err
	}
	out, err := r.Execute(cmd.Context(), c)
	return finish(cmd, o.output, c.String(), out, err)
}
