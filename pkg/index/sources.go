package index

import (
	"fmt"
	"path"
	"strings"

	"github.com/arc-language/cargo-sysdeps/pkg/core"
	"github.com/arc-language/cargo-sysdeps/pkg/distro"
)

// Format identifies the layout of a repository metadata file
type Format int

const (
	// FormatContents is a Debian Contents file: "<path> <section/pkg,...>" per line
	FormatContents Format = iota
	// FormatFilesArchive is a pacman .files tar archive with one directory per package
	FormatFilesArchive
)

func (f Format) String() string {
	switch f {
	case FormatContents:
		return "contents"
	case FormatFilesArchive:
		return "files-archive"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Source is one repository metadata file contributing to an index
type Source struct {
	Name   string // Component or repository name (main, universe, core, extra)
	URL    string
	Format Format
}

// FileName is the final path segment of the URL, used for the raw cache copy
// and to pick the decompressor.
func (s Source) FileName() string {
	return path.Base(s.URL)
}

// SourceTable lists the sources for a descriptor, in merge order.
type SourceTable func(d distro.Descriptor) []Source

// Ubuntu Contents components, in merge order
var ubuntuComponents = []string{"main", "universe"}

// Arch repositories, in merge order
var archRepos = []string{"core", "extra"}

// DefaultSources builds the source table from the configured mirrors. Unknown
// families get no sources, and therefore an empty index.
func DefaultSources(cfg *core.Config) SourceTable {
	return func(d distro.Descriptor) []Source {
		switch d.Family {
		case distro.Debian:
			return []Source{contentsSource(cfg.Mirrors.Debian, d.Release, "main", cfg.ContentsArch)}

		case distro.Ubuntu:
			sources := make([]Source, 0, len(ubuntuComponents))
			for _, component := range ubuntuComponents {
				sources = append(sources, contentsSource(cfg.Mirrors.Ubuntu, d.Release, component, cfg.ContentsArch))
			}
			return sources

		case distro.Arch:
			sources := make([]Source, 0, len(archRepos))
			for _, repo := range archRepos {
				sources = append(sources, Source{
					Name:   repo,
					URL:    fmt.Sprintf("%s/%s/os/%s/%s.files.tar.gz", trimSlash(cfg.Mirrors.Arch), repo, cfg.PacmanArch, repo),
					Format: FormatFilesArchive,
				})
			}
			return sources

		default:
			return nil
		}
	}
}

func contentsSource(mirror, release, component, arch string) Source {
	return Source{
		Name:   component,
		URL:    fmt.Sprintf("%s/dists/%s/%s/Contents-%s.gz", trimSlash(mirror), release, component, arch),
		Format: FormatContents,
	}
}

func trimSlash(s string) string {
	return strings.TrimSuffix(s, "/")
}
