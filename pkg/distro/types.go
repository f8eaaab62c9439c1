package distro

import (
	"fmt"
	"strings"
)

// Family identifies a Linux distribution family
type Family string

const (
	Debian Family = "debian"
	Ubuntu Family = "ubuntu"
	Arch   Family = "arch"
)

// KnownFamilies contains every family with repository sources and an installer
var KnownFamilies = []Family{Debian, Ubuntu, Arch}

// IsKnown reports whether f is one of KnownFamilies.
func (f Family) IsKnown() bool {
	for _, known := range KnownFamilies {
		if f == known {
			return true
		}
	}
	return false
}

// UsesApt reports whether the family is managed with apt/dpkg.
func (f Family) UsesApt() bool {
	return f == Debian || f == Ubuntu
}

func (f Family) String() string {
	return string(f)
}

// Descriptor identifies the target distribution release. It is built once per
// invocation and never modified afterwards.
type Descriptor struct {
	Family  Family
	Release string // Codename (bookworm, jammy) or raw version; empty for rolling releases
}

// New returns a descriptor with family and release in canonical form.
func New(family, release string) Descriptor {
	return Descriptor{
		Family:  Family(canonical(family)),
		Release: canonical(release),
	}
}

// Key is the cache key for the descriptor, "<family>-<release>".
func (d Descriptor) Key() string {
	return fmt.Sprintf("%s-%s", d.Family, d.Release)
}

func (d Descriptor) String() string {
	if d.Release == "" {
		return string(d.Family)
	}
	return d.Key()
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
