package index

import (
	"archive/tar"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentsFixture = `FILE                                                    LOCATION
usr/bin/foo                                             utils/foo-bin
usr/lib/x86_64-linux-gnu/pkgconfig/libfoo.pc            pkg1,pkg2
usr/lib/x86_64-linux-gnu/pkgconfig/gtk+-3.0.pc          libdevel/libgtk-3-dev
usr/share/pkgconfig/xkeyboard-config.pc                 x11/xkb-data
usr/share/doc/libbar/examples/bar.pc                    doc/libbar-doc
usr/lib/pkgconfig/notpc.pcx                             libdevel/notpc
`

type tarEntry struct {
	name string
	body string
	dir  bool
}

func buildTar(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if e.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
			hdr.Size = 0
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func TestParseContents(t *testing.T) {
	idx := make(Index)
	n, err := ParseContents(strings.NewReader(contentsFixture), idx)
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, Index{
		// Multiple owners: the last comma-separated package wins. This
		// tie-break is kept as-is; it is not obviously the right choice.
		"libfoo":           "pkg2",
		"gtk+-3.0":         "libgtk-3-dev",
		"xkeyboard-config": "xkb-data",
	}, idx)
}

func TestParseContentsStemKeepsInnerDots(t *testing.T) {
	// Only the final extension is dropped, matching a file stem.
	idx := make(Index)
	_, err := ParseContents(strings.NewReader("usr/lib/pkgconfig/glib-2.0.pc libdevel/libglib2.0-dev\n"), idx)
	require.NoError(t, err)

	assert.Equal(t, Index{"glib-2.0": "libglib2.0-dev"}, idx)
}

func TestParseContentsLaterLinesOverwrite(t *testing.T) {
	input := "usr/lib/pkgconfig/z.pc libdevel/first\nusr/lib/aarch64/pkgconfig/z.pc libdevel/second\n"
	idx := make(Index)
	_, err := ParseContents(strings.NewReader(input), idx)
	require.NoError(t, err)

	assert.Equal(t, "second", idx["z"])
}

func TestParseFilesArchive(t *testing.T) {
	data := buildTar(t, []tarEntry{
		{name: "zlib-1:1.3.1-2/", dir: true},
		{name: "zlib-1:1.3.1-2/desc", body: "%FILENAME%\nzlib-1:1.3.1-2-x86_64.pkg.tar.zst\n\n%NAME%\nzlib\n\n%VERSION%\n1:1.3.1-2\n"},
		{name: "zlib-1:1.3.1-2/files", body: "%FILES%\nusr/\nusr/include/zlib.h\nusr/lib/pkgconfig/\nusr/lib/pkgconfig/zlib.pc\n"},
		{name: "libxml2-2.12.6-1/files", body: "%FILES%\nusr/lib/pkgconfig/libxml-2.0.pc\nusr/share/doc/x.pc\n"},
		{name: "openssl-3.3.0-1/usr/lib/pkgconfig/openssl.pc", body: "Name: OpenSSL\n"},
	})

	idx := make(Index)
	n, err := ParseFilesArchive(bytes.NewReader(data), idx)
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, Index{
		"zlib":       "zlib",
		"libxml-2.0": "libxml2",
		// An entry that is itself a .pc file maps to the archive's first
		// path component.
		"openssl": "openssl-3.3.0-1",
	}, idx)
}

func TestParseFilesArchiveCorrupt(t *testing.T) {
	data := buildTar(t, []tarEntry{{name: "a-1-1/usr/lib/pkgconfig/a.pc", body: "x"}})
	_, err := ParseFilesArchive(bytes.NewReader(data[:100]), make(Index))
	assert.Error(t, err)
}

func TestTrimPkgVersion(t *testing.T) {
	tests := map[string]string{
		"zlib-1:1.3.1-2":         "zlib",
		"gtk-doc-1.34.0-1":       "gtk-doc",
		"lib32-glibc-2.39+r52-1": "lib32-glibc",
		"noversion":              "noversion",
		"one-dash":               "one-dash",
	}
	for in, want := range tests {
		assert.Equal(t, want, trimPkgVersion(in), in)
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse(strings.NewReader(""), Format(42), make(Index))
	assert.Error(t, err)
}
