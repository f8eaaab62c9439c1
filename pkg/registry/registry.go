package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/arc-language/cargo-sysdeps/pkg/distro"
)

// AptKey names a package for every apt-based family at once
const AptKey = "apt"

// Entry is one [deps.<identifier>] table of the overrides file
type Entry struct {
	Name     string            `toml:"-"`
	Libs     []string          `toml:"libs"`     // Other identifiers served by the same entry
	Packages map[string]string `toml:"packages"` // family (or "apt") -> package
}

// Package returns the package for family. A family-specific name wins over
// the shared apt name.
func (e *Entry) Package(family distro.Family) (string, bool) {
	if pkg, ok := e.Packages[string(family)]; ok && pkg != "" {
		return pkg, true
	}
	if family.UsesApt() {
		if pkg, ok := e.Packages[AptKey]; ok && pkg != "" {
			return pkg, true
		}
	}
	return "", false
}

type file struct {
	Deps map[string]*Entry `toml:"deps"`
}

// Registry maps dependency identifiers to packages for identifiers the
// repository index has no pkg-config entry for.
//
//	[deps.zlib]
//	libs = ["z"]
//	packages = { apt = "zlib1g-dev", arch = "zlib" }
type Registry struct {
	entries map[string]*Entry
	aliases map[string]*Entry
}

// Load reads the overrides file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: reading %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse decodes an overrides document.
func Parse(data string) (*Registry, error) {
	var f file
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("registry: failed to parse: %w", err)
	}

	r := &Registry{
		entries: make(map[string]*Entry, len(f.Deps)),
		aliases: make(map[string]*Entry),
	}
	for name, entry := range f.Deps {
		if entry == nil {
			continue
		}
		entry.Name = name
		r.entries[name] = entry
		for _, lib := range entry.Libs {
			r.aliases[lib] = entry
		}
	}
	return r, nil
}

// Entry returns the entry for id, matching names before aliases.
func (r *Registry) Entry(id string) (*Entry, bool) {
	if e, ok := r.entries[id]; ok {
		return e, true
	}
	e, ok := r.aliases[id]
	return e, ok
}

// Lookup returns the package providing id on family, retrying with
// underscores replaced by hyphens.
func (r *Registry) Lookup(id string, family distro.Family) (string, bool) {
	for _, key := range []string{id, strings.ReplaceAll(id, "_", "-")} {
		if e, ok := r.Entry(key); ok {
			if pkg, ok := e.Package(family); ok {
				return pkg, true
			}
		}
	}
	return "", false
}
