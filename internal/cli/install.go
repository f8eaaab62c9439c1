package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/cargo-sysdeps/pkg/installer"
)

func (a *app) installCmd() *cobra.Command {
	var (
		input      string
		distroFlag string
		arch       string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a package list with the system package manager",
		Long: `Install packages listed one per line, read from --input or standard input.

Examples:
  cargo sysdeps generate | sudo cargo sysdeps install
  cargo sysdeps install --input packages.txt --arch arm64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var r io.Reader = cmd.InOrStdin()
			if input != "" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("opening package list: %w", err)
				}
				defer f.Close()
				r = f
			}

			pkgs, err := installer.ReadPackageList(r)
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

			return m.Install(ctx, pkgs, d, arch)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "file with one package per line (default: standard input)")
	cmd.Flags().StringVarP(&distroFlag, "distro", "d", "", "target distribution as <family>-<release> (default: this system)")
	cmd.Flags().StringVar(&arch, "arch", "", "install packages for this architecture (pkg:arch)")
	return cmd
}
