package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information shown by `version` and --version.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	date = d
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cargo-sysdeps version %s\n", version)
			if commit != "" {
				fmt.Fprintf(out, "commit: %s\n", commit)
			}
			if date != "" {
				fmt.Fprintf(out, "built: %s\n", date)
			}
		},
	}
}
