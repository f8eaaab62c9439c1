package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) crossSetupCmd() *cobra.Command {
	var (
		arch       string
		distroFlag string
	)

	cmd := &cobra.Command{
		Use:   "cross-setup",
		Short: "Enable a foreign architecture in the package manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			d, err := m.Distro(ctx, distroFlag)
			if err != nil {
				return fmt.Errorf("resolving distribution: %w", err)
			}

			return m.CrossSetup(ctx, d, arch)
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "foreign architecture (e.g. arm64)")
	cmd.Flags().StringVarP(&distroFlag, "distro", "d", "", "target distribution as <family>-<release> (default: this system)")
	_ = cmd.MarkFlagRequired("arch")
	return cmd
}
