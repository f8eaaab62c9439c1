package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) scanCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Print the native library names the project probes for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(manifestPath)
			if err != nil {
				return err
			}
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}

			ids, err := m.Scan(cmd.Context(), dir)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest-path", "", "path to Cargo.toml or the project directory")
	return cmd
}
