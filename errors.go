package sysdeps

import (
	"github.com/arc-language/cargo-sysdeps/pkg/core"
	"github.com/arc-language/cargo-sysdeps/pkg/installer"
	"github.com/arc-language/cargo-sysdeps/pkg/scanner"
)

var (
	// ErrUnsupportedFamily indicates the distribution family has no installer
	ErrUnsupportedFamily = core.ErrUnsupportedFamily

	// ErrMissingRelease indicates an apt-based distribution without a release
	ErrMissingRelease = core.ErrMissingRelease

	// ErrNoOSRelease indicates no os-release data was found and no override was given
	ErrNoOSRelease = core.ErrNoOSRelease

	// ErrGraphFetch indicates cargo failed to fetch or describe the dependency graph
	ErrGraphFetch = core.ErrGraphFetch

	// ErrCacheDir indicates the cache directory is missing or unusable
	ErrCacheDir = core.ErrCacheDir

	// ErrUnexpectedStatus indicates a non-200 HTTP response
	ErrUnexpectedStatus = core.ErrUnexpectedStatus

	// ErrUnknownArch indicates an architecture name that is empty or malformed
	ErrUnknownArch = installer.ErrUnknownArch

	// ErrSyntax marks a build script that does not parse
	ErrSyntax = scanner.ErrSyntax
)

// Error wraps an error with additional context
type Error = core.Error
