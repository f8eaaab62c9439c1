package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sysdeps "github.com/arc-language/cargo-sysdeps"
	"github.com/arc-language/cargo-sysdeps/pkg/scanner"
)

type fakeRunner struct {
	metadata []byte
	calls    [][]string
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	return nil
}

func (f *fakeRunner) Output(_ context.Context, _ string, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.metadata, nil
}

func testApp(runner *fakeRunner) *app {
	return &app{newManager: func(o *sysdeps.Options) (*sysdeps.Manager, error) {
		o.Runner = runner
		return sysdeps.NewManager(o)
	}}
}

func execute(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// baseArgs points the invocation at a config file that does not exist and a
// private cache directory.
func baseArgs(t *testing.T) []string {
	return []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--cache-dir", t.TempDir()}
}

func demoProject(t *testing.T) (string, []byte) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.rs"), []byte(`fn main() { c.probe("libfoo"); }`), 0o644))

	meta, err := json.Marshal(&scanner.Metadata{
		Packages: []scanner.Package{{
			ID:           "demo 0.1.0",
			ManifestPath: filepath.Join(dir, "Cargo.toml"),
			Metadata:     json.RawMessage(`{"system-deps": {"nowhere": "1"}}`),
		}},
		Resolve: &scanner.Resolve{Nodes: []scanner.Node{{ID: "demo 0.1.0"}}},
	})
	require.NoError(t, err)
	return dir, meta
}

func TestCachePath(t *testing.T) {
	cache := t.TempDir()
	out, err := execute(t, testApp(&fakeRunner{}), "", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--cache-dir", cache, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, cache+"\n", out)
}

func TestScanCommand(t *testing.T) {
	dir, meta := demoProject(t)
	runner := &fakeRunner{metadata: meta}

	args := append(baseArgs(t), "scan", "--manifest-path", filepath.Join(dir, "build.rs"))
	out, err := execute(t, testApp(runner), "", args...)
	require.NoError(t, err)
	assert.Equal(t, "libfoo\nnowhere\n", out)
}

func TestGenerateCommand(t *testing.T) {
	dir, meta := demoProject(t)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("usr/lib/pkgconfig/libfoo.pc libdevel/libfoo-dev\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/debian/dists/trixie/main/Contents-arm64.gz" {
			_, _ = w.Write(buf.Bytes())
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("mirrors:\n  debian: "+srv.URL+"/debian\ncontents_arch: arm64\n"), 0o644))

	out, err := execute(t, testApp(&fakeRunner{metadata: meta}), "",
		"--config", cfgPath, "--cache-dir", t.TempDir(),
		"generate", "--distro", "debian-trixie", "--manifest-path", dir)
	require.NoError(t, err)
	assert.Equal(t, "libfoo-dev\n", out)
}

func TestInstallCommand(t *testing.T) {
	runner := &fakeRunner{}
	args := append(baseArgs(t), "install", "--distro", "debian-bookworm", "--arch", "arm64")
	_, err := execute(t, testApp(runner), "libfoo-dev\n\nzlib1g-dev\n", args...)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"apt-get", "install", "-y", "libfoo-dev:arm64", "zlib1g-dev:arm64"}}, runner.calls)
}

func TestInstallCommandFromFile(t *testing.T) {
	list := filepath.Join(t.TempDir(), "packages.txt")
	require.NoError(t, os.WriteFile(list, []byte("zlib\n"), 0o644))

	runner := &fakeRunner{}
	args := append(baseArgs(t), "install", "--distro", "arch", "--input", list)
	_, err := execute(t, testApp(runner), "", args...)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"pacman", "-S", "--needed", "--noconfirm", "zlib"}}, runner.calls)
}

func TestInstallCommandUnsupported(t *testing.T) {
	args := append(baseArgs(t), "install", "--distro", "fedora-40")
	_, err := execute(t, testApp(&fakeRunner{}), "gcc\n", args...)
	assert.ErrorIs(t, err, sysdeps.ErrUnsupportedFamily)
}

func TestCrossSetupCommand(t *testing.T) {
	runner := &fakeRunner{}
	args := append(baseArgs(t), "cross-setup", "--arch", "arm64", "--distro", "ubuntu-noble")
	_, err := execute(t, testApp(runner), "", args...)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"dpkg", "--add-architecture", "arm64"}, {"apt-get", "update"}}, runner.calls)
}

func TestCrossSetupRequiresArch(t *testing.T) {
	args := append(baseArgs(t), "cross-setup", "--distro", "debian-bookworm")
	_, err := execute(t, testApp(&fakeRunner{}), "", args...)
	assert.Error(t, err)
}

func TestDistroCommand(t *testing.T) {
	args := append(baseArgs(t), "distro", "--distro", "Arch")
	out, err := execute(t, testApp(&fakeRunner{}), "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Family: arch\n")
	assert.Contains(t, out, "arch--pc.index")
}

func TestCacheClearCommand(t *testing.T) {
	cache := t.TempDir()
	index := filepath.Join(cache, "debian-bookworm-pc.index")
	require.NoError(t, os.WriteFile(index, []byte("a b\n"), 0o644))

	_, err := execute(t, testApp(&fakeRunner{}), "",
		"--config", filepath.Join(t.TempDir(), "none.yaml"), "--cache-dir", cache,
		"cache", "clear", "--distro", "debian-bookworm")
	require.NoError(t, err)
	assert.NoFileExists(t, index)
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "abc123", "")
	t.Cleanup(func() { SetVersion("dev", "", "") })

	out, err := execute(t, testApp(&fakeRunner{}), "", append(baseArgs(t), "version")...)
	require.NoError(t, err)
	assert.Equal(t, "cargo-sysdeps version 1.2.3\ncommit: abc123\n", out)
}
