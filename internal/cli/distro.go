package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) distroCmd() *cobra.Command {
	var distroFlag string

	cmd := &cobra.Command{
		Use:   "distro",
		Short: "Show the distribution packages are resolved for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			d, err := m.Distro(cmd.Context(), distroFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Family: %s\n", d.Family)
			fmt.Fprintf(out, "Release: %s\n", d.Release)
			fmt.Fprintf(out, "Index: %s\n", m.Cache().IndexPath(d))
			return nil
		},
	}

	cmd.Flags().StringVarP(&distroFlag, "distro", "d", "", "distribution as <family>-<release> (default: this system)")
	return cmd
}
