package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/cargo-sysdeps/pkg/distro"
)

const overrides = `
[deps.zlib]
libs = ["z", "libz"]
packages = { apt = "zlib1g-dev", arch = "zlib" }

[deps.openssl]
packages = { apt = "libssl-dev", ubuntu = "libssl3-dev" }

[deps.dbus-1]
packages = { debian = "libdbus-1-dev" }
`

func TestLookup(t *testing.T) {
	r, err := Parse(overrides)
	require.NoError(t, err)

	tests := []struct {
		id     string
		family distro.Family
		want   string
		ok     bool
	}{
		{"zlib", distro.Debian, "zlib1g-dev", true},
		{"zlib", distro.Ubuntu, "zlib1g-dev", true},
		{"zlib", distro.Arch, "zlib", true},
		{"z", distro.Arch, "zlib", true},
		{"openssl", distro.Ubuntu, "libssl3-dev", true},
		{"openssl", distro.Debian, "libssl-dev", true},
		{"openssl", distro.Arch, "", false},
		{"dbus_1", distro.Debian, "libdbus-1-dev", true},
		{"dbus-1", distro.Ubuntu, "", false},
		{"zlib", distro.Family("fedora"), "", false},
		{"unknown", distro.Debian, "", false},
	}
	for _, tt := range tests {
		got, ok := r.Lookup(tt.id, tt.family)
		assert.Equal(t, tt.ok, ok, "%s/%s", tt.id, tt.family)
		assert.Equal(t, tt.want, got, "%s/%s", tt.id, tt.family)
	}
}

func TestEntryPrefersName(t *testing.T) {
	r, err := Parse(`
[deps.a]
libs = ["b"]
packages = { arch = "from-a" }

[deps.b]
packages = { arch = "from-b" }
`)
	require.NoError(t, err)

	e, ok := r.Entry("b")
	require.True(t, ok)
	assert.Equal(t, "b", e.Name)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.toml")
	require.NoError(t, os.WriteFile(path, []byte(overrides), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	pkg, ok := r.Lookup("libz", distro.Debian)
	assert.True(t, ok)
	assert.Equal(t, "zlib1g-dev", pkg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Parse("[deps.zlib\npackages = 1")
	assert.Error(t, err)
}
