package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	sysdeps "github.com/arc-language/cargo-sysdeps"
	"github.com/arc-language/cargo-sysdeps/pkg/core"
)

// app holds the state shared by every command of one invocation
type app struct {
	cfgFile  string
	cacheDir string
	verbose  bool

	config *core.Config

	// newManager is replaced in tests
	newManager func(*sysdeps.Options) (*sysdeps.Manager, error)
}

// Execute runs the command line with args.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd(&app{newManager: sysdeps.NewManager})
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cargo-sysdeps",
		Short: "Resolve and install the system packages a cargo project needs",
		Long: `cargo-sysdeps - system dependencies for cargo projects

Scans the dependency graph for pkg-config probes and system-deps metadata,
then maps each library to the distribution package that ships its .pc file.
Run it as "cargo sysdeps <command>".`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.SetVersionTemplate(fmt.Sprintf("cargo-sysdeps %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	// Global flags
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/cargo-sysdeps/config.yaml)")
	root.PersistentFlags().StringVar(&a.cacheDir, "cache-dir", "", "cache directory (overrides config and CARGO_SYSDEPS_CACHE_DIR)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(a.generateCmd())
	root.AddCommand(a.scanCmd())
	root.AddCommand(a.installCmd())
	root.AddCommand(a.crossSetupCmd())
	root.AddCommand(a.distroCmd())
	root.AddCommand(a.cacheCmd())
	root.AddCommand(versionCmd())

	return root
}

// setup loads the configuration, applies flag overrides and attaches the
// logger to the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := core.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	if a.cacheDir != "" {
		cfg.CacheDir = a.cacheDir
	}
	if a.verbose {
		cfg.Debug = true
	}
	a.config = cfg

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), level)
	cmd.SetContext(withLogger(cmd.Context(), logger))
	return nil
}

// manager builds the Manager for a command.
func (a *app) manager(cmd *cobra.Command) (*sysdeps.Manager, error) {
	return a.newManager(&sysdeps.Options{
		Config: a.config,
		Logger: loggerFromContext(cmd.Context()),
	})
}

// projectDir turns --manifest-path into the directory cargo runs in.
func projectDir(manifestPath string) (string, error) {
	if manifestPath == "" {
		return os.Getwd()
	}
	fi, err := os.Stat(manifestPath)
	if err != nil {
		return "", fmt.Errorf("manifest path: %w", err)
	}
	if fi.IsDir() {
		return manifestPath, nil
	}
	return filepath.Dir(manifestPath), nil
}
