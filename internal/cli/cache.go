package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the repository index cache",
	}

	cmd.AddCommand(a.cacheClearCmd())
	cmd.AddCommand(a.cachePathCmd())
	return cmd
}

func (a *app) cacheClearCmd() *cobra.Command {
	var distroFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the cached index and downloads for a distribution",
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

			n, err := m.Cache().Clear(d)
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			loggerFromContext(ctx).Info("cleared cache", "distro", d, "files", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&distroFlag, "distro", "d", "", "distribution as <family>-<release> (default: this system)")
	return cmd
}

func (a *app) cachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.config.CacheDir)
			return nil
		},
	}
}
