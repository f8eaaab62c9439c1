package distro

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arc-language/cargo-sysdeps/pkg/core"
)

// DefaultOSReleasePaths are the os-release(5) locations, in lookup order.
var DefaultOSReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// OSRelease holds the os-release fields the descriptor is built from
type OSRelease struct {
	ID              string
	VersionID       string
	VersionCodename string
}

// Descriptor converts the os-release data, preferring the codename over the
// numeric version.
func (o *OSRelease) Descriptor() Descriptor {
	release := o.VersionCodename
	if release == "" {
		release = o.VersionID
	}
	return New(o.ID, release)
}

// ReadOSRelease reads the first existing file in paths.
func ReadOSRelease(paths []string) (*OSRelease, error) {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &core.Error{Op: "reading os-release", Target: path, Err: err}
		}
		defer f.Close()

		osr, err := ParseOSRelease(f)
		if err != nil {
			return nil, &core.Error{Op: "parsing os-release", Target: path, Err: err}
		}
		return osr, nil
	}

	return nil, fmt.Errorf("%w (looked in %s)", core.ErrNoOSRelease, strings.Join(paths, ", "))
}

// ParseOSRelease parses KEY=value lines, ignoring comments and unknown keys.
func ParseOSRelease(r io.Reader) (*OSRelease, error) {
	scanner := bufio.NewScanner(r)
	osr := &OSRelease{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)

		switch key {
		case "ID":
			osr.ID = value
		case "VERSION_ID":
			osr.VersionID = value
		case "VERSION_CODENAME":
			osr.VersionCodename = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return osr, nil
}
