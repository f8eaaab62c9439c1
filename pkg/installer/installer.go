package installer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/cargo-sysdeps/pkg/core"
	"github.com/arc-language/cargo-sysdeps/pkg/distro"
)

// ErrUnknownArch indicates an architecture name that is empty or malformed
var ErrUnknownArch = errors.New("unknown architecture")

// Config configures an Installer
type Config struct {
	Runner core.Runner // Required
	Logger *log.Logger // Optional
}

// Installer hands resolved packages to the system package manager
type Installer struct {
	runner core.Runner
	logger *log.Logger
}

// New creates an Installer
func New(cfg *Config) *Installer {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Installer{runner: cfg.Runner, logger: logger}
}

// Command returns the package manager invocation installing pkgs on d. With
// arch set every package is qualified as pkg:arch.
func Command(d distro.Descriptor, pkgs []string, arch string) (string, []string, error) {
	var name string
	var args []string
	switch {
	case d.Family.UsesApt():
		name, args = "apt-get", []string{"install", "-y"}
	case d.Family == distro.Arch:
		name, args = "pacman", []string{"-S", "--needed", "--noconfirm"}
	default:
		return "", nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFamily, d.Family)
	}

	if arch != "" && d.Family.UsesApt() {
		a, err := ParseArchitecture(arch)
		if err != nil {
			return "", nil, err
		}
		arch = a.String()
	}

	for _, pkg := range pkgs {
		if arch != "" {
			pkg = pkg + ":" + arch
		}
		args = append(args, pkg)
	}
	return name, args, nil
}

// Install installs pkgs on d. An empty list does nothing.
func (i *Installer) Install(ctx context.Context, pkgs []string, d distro.Descriptor, arch string) error {
	if len(pkgs) == 0 {
		i.logger.Info("nothing to install")
		return nil
	}

	name, args, err := Command(d, pkgs, arch)
	if err != nil {
		return err
	}

	i.logger.Info("installing", "packages", len(pkgs), "manager", name, "distro", d)
	if err := i.runner.Run(ctx, "", name, args...); err != nil {
		return fmt.Errorf("installing packages: %w", err)
	}
	return nil
}

// CrossSetup enables arch as a foreign architecture on apt-based systems and
// refreshes the package lists. Other families need no setup.
func (i *Installer) CrossSetup(ctx context.Context, d distro.Descriptor, arch string) error {
	if !d.Family.UsesApt() {
		i.logger.Info("no cross-architecture setup needed", "distro", d)
		return nil
	}

	a, err := ParseArchitecture(arch)
	if err != nil {
		return err
	}

	i.logger.Info("adding architecture", "arch", a)
	if err := i.runner.Run(ctx, "", "dpkg", "--add-architecture", a.String()); err != nil {
		return fmt.Errorf("adding architecture %s: %w", a, err)
	}
	if err := i.runner.Run(ctx, "", "apt-get", "update"); err != nil {
		return fmt.Errorf("updating package lists: %w", err)
	}
	return nil
}

// ReadPackageList reads one package name per line. Surrounding whitespace is
// trimmed and blank lines are skipped.
func ReadPackageList(r io.Reader) ([]string, error) {
	var pkgs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			pkgs = append(pkgs, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading package list: %w", err)
	}
	return pkgs, nil
}
