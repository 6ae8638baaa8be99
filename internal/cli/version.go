package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/shellcmd/validation"
	"github.com/kbukum/shellcmd/version"
)

func newVersionCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.New().OneOf("output", output, outputFormats).Error(); err != nil {
				return err
			}
			info := version.GetVersionInfo()
			return encode(cmd.OutOrStdout(), output, info, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s\n  commit:   %s\n  branch:   %s\n  built:    %s\n  go:       %s\n  platform: %s\n",
					version.About(), orUnknown(info.GitCommit), orUnknown(info.GitBranch),
					orUnknown(info.BuildTime), info.GoVersion, info.Platform)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
