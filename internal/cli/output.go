package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/shellcmd/process"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var outputFormats = []string{formatText, formatJSON, formatYAML}

// report is the json and yaml rendering of an outcome.
type report struct {
	ID         string `json:"id" yaml:"id"`
	Command    string `json:"command" yaml:"command"`
	Success    bool   `json:"success" yaml:"success"`
	ExitCode   int    `json:"exit_code" yaml:"exit_code"`
	Signal     int    `json:"signal,omitempty" yaml:"signal,omitempty"`
	DurationMs int64  `json:"duration_ms" yaml:"duration_ms"`
	Stdout     string `json:"stdout" yaml:"stdout"`
	Stderr     string `json:"stderr" yaml:"stderr"`
}

func newReport(command string, out *process.Outcome) report {
	return report{
		ID:         out.ID,
		Command:    command,
		Success:    out.Success,
		ExitCode:   out.ExitCode,
		Signal:     out.Signal,
		DurationMs: out.Duration.Milliseconds(),
		Stdout:     out.Stdout,
		Stderr:     out.Stderr,
	}
}

// finish renders out when the child ran and converts err into the exit
// status of the CLI.
func finish(cmd *cobra.Command, format, command string, out *process.Outcome, err error) error {
	if out != nil {
		if rerr := render(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, command, out); rerr != nil {
			return rerr
		}
	}
	if err != nil {
		return silentExit(err)
	}
	return nil
}

func render(stdout, stderr io.Writer, format, command string, out *process.Outcome) error {
	return encode(stdout, format, newReport(command, out), func(w io.Writer) error {
		if _, err := io.WriteString(w, out.Stdout); err != nil {
			return err
		}
		_, err := io.WriteString(stderr, out.Stderr)
		return err
	})
}

// encode writes v as json or yaml, or calls text for the text format.
func encode(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatText:
		return text(w)
	}
	return fmt.Errorf("unknown output format %q", format)
}
