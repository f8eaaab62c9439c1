// Package sysdeps finds the native libraries a cargo project builds against
// and maps them to the distribution packages that provide them.
package sysdeps

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/arc-language/cargo-sysdeps/pkg/core"
	"github.com/arc-language/cargo-sysdeps/pkg/distro"
	"github.com/arc-language/cargo-sysdeps/pkg/index"
	"github.com/arc-language/cargo-sysdeps/pkg/installer"
	"github.com/arc-language/cargo-sysdeps/pkg/registry"
	"github.com/arc-language/cargo-sysdeps/pkg/scanner"
)

// Re-export types for convenience
type (
	Config     = core.Config
	Descriptor = distro.Descriptor
	Family     = distro.Family
	Result     = index.Result
	Runner     = core.Runner
	Fetcher    = index.Fetcher
	// RegistryEntry is one entry of the overrides file.
	RegistryEntry = registry.Entry
)

// Re-export family constants
const (
	FamilyDebian = distro.Debian
	FamilyUbuntu = distro.Ubuntu
	FamilyArch   = distro.Arch
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Options configures a Manager. Only Config is required.
type Options struct {
	Config  *Config
	Runner  Runner      // Default: core.NewExecRunner()
	Fetcher Fetcher     // Default: index.NewClient(Config.Timeout)
	Logger  *log.Logger // Default: discard
}

// Manager ties distribution detection, scanning, resolution and
// installation together
type Manager struct {
	config    *Config
	cache     *index.Cache
	distros   *distro.Resolver
	scanner   *scanner.Scanner
	resolver  *index.Resolver
	installer *installer.Installer
	logger    *log.Logger
}

// NewManager creates a Manager. It fails if the cache directory cannot be
// created or the overrides file cannot be loaded.
func NewManager(opts *Options) (*Manager, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	runner := opts.Runner
	if runner == nil {
		runner = core.NewExecRunner()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = index.NewClient(cfg.Timeout)
	}

	cache, err := index.NewCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	var overrides index.Overrides
	if cfg.OverridesFile != "" {
		reg, err := registry.Load(cfg.OverridesFile)
		if err != nil {
			return nil, fmt.Errorf("loading overrides: %w", err)
		}
		logger.Debug("loaded overrides", "path", cfg.OverridesFile)
		overrides = reg
	}

	return &Manager{
		config: cfg,
		cache:  cache,
		distros: &distro.Resolver{
			Fetcher:       fetcher,
			DistroInfoURL: cfg.DistroInfoURL,
			Logger:        logger,
		},
		scanner: scanner.New(&scanner.Config{
			Runner:      runner,
			ProbeMethod: cfg.ProbeMethod,
			Logger:      logger,
		}),
		resolver: index.NewResolver(&index.Config{
			Cache:     cache,
			Fetcher:   fetcher,
			Sources:   index.DefaultSources(cfg),
			Overrides: overrides,
			Logger:    logger,
		}),
		installer: installer.New(&installer.Config{
			Runner: runner,
			Logger: logger,
		}),
		logger: logger,
	}, nil
}

// Cache returns the on-disk cache handle
func (m *Manager) Cache() *index.Cache {
	return m.cache
}

// Distro resolves "<family>-<release>" or, when override is empty, the
// running system.
func (m *Manager) Distro(ctx context.Context, override string) (Descriptor, error) {
	return m.distros.Resolve(ctx, override)
}

// Scan returns the dependency identifiers of the cargo project in dir.
func (m *Manager) Scan(ctx context.Context, dir string) ([]string, error) {
	return m.scanner.Scan(ctx, dir)
}

// Resolve maps ids to packages for d.
func (m *Manager) Resolve(ctx context.Context, ids []string, d Descriptor, stream bool) (*Result, error) {
	return m.resolver.Resolve(ctx, ids, d, stream)
}

// Generate scans the project in dir and resolves what it found for d.
func (m *Manager) Generate(ctx context.Context, dir string, d Descriptor, stream bool) (*Result, error) {
	ids, err := m.Scan(ctx, dir)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("scanned project", "dir", dir, "deps", len(ids))

	return m.Resolve(ctx, ids, d, stream)
}

// Install installs pkgs on d, qualified with arch when it is set.
func (m *Manager) Install(ctx context.Context, pkgs []string, d Descriptor, arch string) error {
	return m.installer.Install(ctx, pkgs, d, arch)
}

// CrossSetup prepares the package manager of d for arch.
func (m *Manager) CrossSetup(ctx context.Context, d Descriptor, arch string) error {
	return m.installer.CrossSetup(ctx, d, arch)
}
