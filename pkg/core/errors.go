package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFamily indicates the distribution family has no installer
	ErrUnsupportedFamily = errors.New("unsupported distribution family")

	// ErrMissingRelease indicates an apt-based distribution without a release
	ErrMissingRelease = errors.New("distribution release required")

	// ErrNoOSRelease indicates no os-release data was found and no override was given
	ErrNoOSRelease = errors.New("no os-release data")

	// ErrGraphFetch indicates cargo failed to fetch or describe the dependency graph
	ErrGraphFetch = errors.New("dependency graph fetch failed")

	// ErrCacheDir indicates the cache directory is missing or unusable
	ErrCacheDir = errors.New("cache directory unavailable")

	// ErrUnexpectedStatus indicates a non-200 HTTP response
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// Error wraps an error with additional context
type Error struct {
	Op     string // Operation that failed
	Target string // File, URL or package if applicable
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
