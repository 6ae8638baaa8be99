package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/shellcmd/process"
	"github.com/kbukum/shellcmd/runner"
	"github.com/kbukum/shellcmd/validation"
)

// execOptions are the flags shared by run and pipe.
type execOptions struct {
	env          []string
	envFile      string
	input        string
	inputFile    string
	dir          string
	timeout      time.Duration
	ignoreStatus bool
	output       string
}

func (o *execOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	// Everything after the program name belongs to the child.
	flags.SetInterspersed(false)
	flags.StringArrayVarP(&o.env, "env", "e", nil, "set KEY=VALUE in the child environment (repeatable, later wins)")
	flags.StringVar(&o.envFile, "env-file", "", "read environment overrides from a dotenv file")
	flags.StringVarP(&o.input, "input", "i", "", "text written to the child's stdin")
	flags.StringVar(&o.inputFile, "input-file", "", "file whose contents are written to stdin (- reads shellcmd's own stdin)")
	flags.StringVarP(&o.dir, "dir", "C", "", "working directory for the child")
	flags.DurationVar(&o.timeout, "timeout", 0, "stop the child after this long (0 = no limit)")
	flags.BoolVar(&o.ignoreStatus, "ignore-status", false, "treat a non-zero exit as success")
	flags.StringVarP(&o.output, "output", "o", formatText, "output format: text, json or yaml")
	cmd.MarkFlagsMutuallyExclusive("input", "input-file")
}

func (o *execOptions) validate() error {
	return validation.New().
		OneOf("output", o.output, outputFormats).
		Custom(o.timeout >= 0, "timeout", "must not be negative").
		Error()
}

// overrideRunner applies the per-call runner settings.
func (o *execOptions) overrideRunner(cfg *runner.Config) {
	if o.dir != "" {
		cfg.Dir = o.dir
	}
	if o.timeout > 0 {
		cfg.Timeout = o.timeout
	}
	if o.ignoreStatus {
		cfg.IgnoreStatus = true
	}
}

// envOverlay returns the env-file entries followed by the --env pairs.
func (o *execOptions) envOverlay() ([]process.EnvVar, error) {
	var vars []process.EnvVar
	if o.envFile != "" {
		loaded, err := process.LoadEnvFile(o.envFile)
		if err != nil {
			return nil, err
		}
		vars = append(vars, loaded...)
	}
	for _, pair := range o.env {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("--env %q: expected KEY=VALUE", pair)
		}
		vars = append(vars, process.Env(key, value))
	}
	return vars, nil
}

// stdinText resolves --input or --input-file. The second result is false
// when neither flag was given, so the child gets an empty, closed stdin.
func (o *execOptions) stdinText(cmd *cobra.Command) (string, bool, error) {
	switch {
	case cmd.Flags().Changed("input"):
		return o.input, true, nil
	case o.inputFile == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(b), true, nil
	case o.inputFile != "":
		b, err := os.ReadFile(o.inputFile)
		if err != nil {
			return "", false, fmt.Errorf("read input file: %w", err)
		}
		return string(b), true, nil
	}
	return "", false, nil
}

// buildCommand turns argv into a Command carrying the env overlay.
func buildCommand(argv []string, env []process.EnvVar) (process.Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return process.Command{}, process.ErrEmptyProgram
	}
	c := process.New(argv[0]).WithArgs(argv[1:]...)
	if len(env) > 0 {
		c = c.WithEnv(env...)
	}
	return c, nil
}
