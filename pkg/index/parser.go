package index

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const pkgconfigSegment = "/pkgconfig/"

// Parse reads one decompressed source stream into idx. It returns the number
// of rows written; later rows overwrite earlier ones.
func Parse(r io.Reader, format Format, idx Index) (int, error) {
	switch format {
	case FormatContents:
		return ParseContents(r, idx)
	case FormatFilesArchive:
		return ParseFilesArchive(r, idx)
	default:
		return 0, fmt.Errorf("unknown source format %s", format)
	}
}

// ParseContents parses a Debian Contents file. Relevant lines have a first
// column under a pkgconfig directory ending in .pc; the owning package is the
// last comma-separated entry of the last column, without its section prefix.
func ParseContents(r io.Reader, idx Index) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, ".pc") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || !isPkgconfigFile(fields[0]) {
			continue
		}

		// A file shipped by several packages lists them all; the last one wins.
		owners := strings.Split(fields[len(fields)-1], ",")
		owner := owners[len(owners)-1]
		if i := strings.LastIndex(owner, "/"); i >= 0 {
			owner = owner[i+1:]
		}
		if owner == "" {
			continue
		}

		idx.Set(stem(fields[0]), owner)
		n++
	}

	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("scanning contents file: %w", err)
	}
	return n, nil
}

// ParseFilesArchive parses a pacman .files archive. Every entry whose own
// path ends in .pc maps to the first path component of the entry. Per-package
// "files" listings contribute their pkgconfig files, owned by the %NAME% from
// the sibling "desc" entry.
func ParseFilesArchive(r io.Reader, idx Index) (int, error) {
	tarReader := tar.NewReader(r)
	names := make(map[string]string) // package directory -> %NAME%

	n := 0
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("reading tar entry: %w", err)
		}

		name := strings.TrimPrefix(header.Name, "./")
		dir := firstComponent(name)

		switch {
		case strings.HasSuffix(name, ".pc"):
			if dir == "" {
				continue
			}
			idx.Set(stem(name), dir)
			n++

		case header.Typeflag == tar.TypeReg && path.Base(name) == "desc":
			if pkg := parseDescName(tarReader); pkg != "" {
				names[dir] = pkg
			}

		case header.Typeflag == tar.TypeReg && path.Base(name) == "files":
			owner, ok := names[dir]
			if !ok {
				owner = trimPkgVersion(dir)
			}
			files, err := parseFilesList(tarReader)
			if err != nil {
				return n, fmt.Errorf("reading %s: %w", name, err)
			}
			for _, f := range files {
				idx.Set(stem(f), owner)
				n++
			}
		}
	}

	return n, nil
}

// parseDescName returns the %NAME% value of a pacman desc file.
func parseDescName(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	var currentHeader string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			currentHeader = line
			continue
		}

		if currentHeader == "%NAME%" {
			return line
		}
	}
	return ""
}

// parseFilesList returns the pkgconfig files in the %FILES% section of a
// pacman files listing.
func parseFilesList(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var files []string
	var currentHeader string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			currentHeader = line
			continue
		}
		if currentHeader == "%FILES%" && isPkgconfigFile(line) {
			files = append(files, line)
		}
	}
	return files, scanner.Err()
}

func isPkgconfigFile(p string) bool {
	return strings.Contains(p, pkgconfigSegment) && strings.HasSuffix(p, ".pc")
}

// stem is the base name without its extension.
func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

func firstComponent(p string) string {
	first, _, _ := strings.Cut(p, "/")
	return first
}

// trimPkgVersion drops the "-pkgver-pkgrel" suffix of a pacman package
// directory ("zlib-1:1.3.1-2" -> "zlib").
func trimPkgVersion(dir string) string {
	name := dir
	for range 2 {
		i := strings.LastIndex(name, "-")
		if i <= 0 {
			return dir
		}
		name = name[:i]
	}
	return name
}
