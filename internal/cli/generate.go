package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		distroFlag   string
		stream       bool
		manifestPath string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the system packages the project needs",
		Long: `Scan the project and print one providing package per line.

Examples:
  cargo sysdeps generate
  cargo sysdeps generate --distro ubuntu-22.04
  cargo sysdeps generate --distro arch --stream > packages.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			dir, err := projectDir(manifestPath)
			if err != nil {
				return err
			}
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			d, err := m.Distro(ctx, distroFlag)
			if err != nil {
				return fmt.Errorf("resolving distribution: %w", err)
			}

			res, err := m.Generate(ctx, dir, d, stream)
			if err != nil {
				return err
			}

			for _, pkg := range res.Packages {
				fmt.Fprintln(cmd.OutOrStdout(), pkg)
			}
			if len(res.Missing) > 0 {
				logger.Warn("some dependencies have no package", "count", len(res.Missing), "distro", d)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&distroFlag, "distro", "d", "", "target distribution as <family>-<release> (default: this system)")
	cmd.Flags().BoolVar(&stream, "stream", false, "parse repository indexes from the network without caching them")
	cmd.Flags().StringVar(&manifestPath, "manifest-path", "", "path to Cargo.toml or the project directory")
	return cmd
}
