package index

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arc-language/cargo-sysdeps/pkg/core"
	"github.com/arc-language/cargo-sysdeps/pkg/distro"
)

// Index maps a pkg-config module name to the package shipping its .pc file
type Index map[string]string

// Set records key → pkg, replacing any earlier owner.
func (idx Index) Set(key, pkg string) {
	idx[key] = pkg
}

// Lookup returns the owner of key.
func (idx Index) Lookup(key string) (string, bool) {
	pkg, ok := idx[key]
	return pkg, ok
}

// WriteTo writes one "<key> <package>" line per entry, sorted by key.
func (idx Index) WriteTo(w io.Writer) (int64, error) {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	var written int64
	for _, k := range keys {
		n, err := fmt.Fprintf(bw, "%s %s\n", k, idx[k])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// ReadIndex parses lines written by WriteTo. Lines without a space are ignored.
func ReadIndex(r io.Reader) (Index, error) {
	idx := make(Index)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, pkg, ok := strings.Cut(scanner.Text(), " ")
		if !ok {
			continue
		}
		idx[key] = pkg
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Cache is the on-disk cache holding parsed indexes and raw source copies.
// It assumes a single writer; there is no locking.
type Cache struct {
	dir string
}

// NewCache opens dir as the cache, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: no cache directory configured", core.ErrCacheDir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCacheDir, err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// IndexPath is the parsed index file for d.
func (c *Cache) IndexPath(d distro.Descriptor) string {
	return filepath.Join(c.dir, d.Key()+"-pc.index")
}

// RawPath is the raw copy of src for d. The file keeps the URL's final
// segment; the per-descriptor and per-source directories keep sources that
// share a file name (Contents-amd64.gz) apart.
func (c *Cache) RawPath(d distro.Descriptor, src Source) string {
	return filepath.Join(c.rawDir(d), src.Name, src.FileName())
}

func (c *Cache) rawDir(d distro.Descriptor) string {
	return filepath.Join(c.dir, "raw", d.Key())
}

// LoadIndex returns the cached index for d. The boolean is false when no
// index file exists.
func (c *Cache) LoadIndex(d distro.Descriptor) (Index, bool, error) {
	f, err := os.Open(c.IndexPath(d))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &core.Error{Op: "opening index", Target: c.IndexPath(d), Err: err}
	}
	defer f.Close()

	idx, err := ReadIndex(f)
	if err != nil {
		return nil, false, &core.Error{Op: "reading index", Target: c.IndexPath(d), Err: err}
	}
	return idx, true, nil
}

// SaveIndex writes idx as the cached index for d.
func (c *Cache) SaveIndex(d distro.Descriptor, idx Index) error {
	f, err := os.Create(c.IndexPath(d))
	if err != nil {
		return &core.Error{Op: "creating index", Target: c.IndexPath(d), Err: err}
	}

	if _, err := idx.WriteTo(f); err != nil {
		f.Close()
		return &core.Error{Op: "writing index", Target: c.IndexPath(d), Err: err}
	}
	return f.Close()
}

// Clear removes the index and raw copies for d. It returns the number of
// files removed.
func (c *Cache) Clear(d distro.Descriptor) (int, error) {
	count := 0

	err := os.Remove(c.IndexPath(d))
	switch {
	case err == nil:
		count++
	case !errors.Is(err, os.ErrNotExist):
		return count, err
	}

	rawDir := c.rawDir(d)
	err = filepath.WalkDir(rawDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if !entry.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}

	return count, os.RemoveAll(rawDir)
}
