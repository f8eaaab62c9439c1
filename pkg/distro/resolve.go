package distro

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/cargo-sysdeps/pkg/core"
)

// Resolver builds the Descriptor for an invocation
type Resolver struct {
	Fetcher        Fetcher     // Used for numeric release → codename lookups
	DistroInfoURL  string      // Base URL of the distro-info-data CSVs
	OSReleasePaths []string    // Default: DefaultOSReleasePaths
	Logger         *log.Logger // Optional
}

// ParseOverride splits "<family>-<release>" on the first hyphen. A value
// without a hyphen names a family with no release ("arch").
func ParseOverride(s string) (family, release string) {
	family, release, _ = strings.Cut(strings.TrimSpace(s), "-")
	return family, release
}

// Resolve returns the descriptor for override, or for the local os-release
// data when override is empty. Apt-based families must carry a release.
func (r *Resolver) Resolve(ctx context.Context, override string) (Descriptor, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if override == "" {
		paths := r.OSReleasePaths
		if len(paths) == 0 {
			paths = DefaultOSReleasePaths
		}
		osr, err := ReadOSRelease(paths)
		if err != nil {
			return Descriptor{}, err
		}
		d := osr.Descriptor()
		logger.Debug("detected distribution", "distro", d)
		if err := checkRelease(d); err != nil {
			return Descriptor{}, err
		}
		return d, nil
	}

	family, release := ParseOverride(override)
	d := New(family, release)

	if startsWithDigit(d.Release) && r.Fetcher != nil {
		codename, err := LookupCodename(ctx, r.Fetcher, r.DistroInfoURL, d.Family, d.Release)
		if err != nil {
			return Descriptor{}, err
		}
		logger.Debug("translated release", "family", d.Family, "version", d.Release, "codename", codename)
		d = New(family, codename)
	}

	if err := checkRelease(d); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

func checkRelease(d Descriptor) error {
	if d.Family.UsesApt() && d.Release == "" {
		return fmt.Errorf("%w for %s (use --distro %s-<release>)", core.ErrMissingRelease, d.Family, d.Family)
	}
	return nil
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
