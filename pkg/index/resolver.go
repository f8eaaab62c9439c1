package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/cargo-sysdeps/pkg/distro"
)

// Fetcher retrieves a remote file. *Client implements it.
type Fetcher interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
}

// Overrides supplies a package for identifiers the index cannot resolve.
type Overrides interface {
	Lookup(id string, family distro.Family) (string, bool)
}

// Config configures a Resolver
type Config struct {
	Cache     *Cache      // Required
	Fetcher   Fetcher     // Required unless every index is already cached
	Sources   SourceTable // Required
	Overrides Overrides   // Optional
	Logger    *log.Logger // Optional; diagnostics go here
}

// Resolver maps dependency identifiers to distribution packages through a
// cached reverse index
type Resolver struct {
	cache     *Cache
	fetcher   Fetcher
	sources   SourceTable
	overrides Overrides
	logger    *log.Logger
}

// Result is the outcome of a resolution pass
type Result struct {
	Packages []string // Sorted, without duplicates
	Missing  []string // Identifiers with no provider, sorted
}

// NewResolver creates a Resolver
func NewResolver(cfg *Config) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Resolver{
		cache:     cfg.Cache,
		fetcher:   cfg.Fetcher,
		sources:   cfg.Sources,
		overrides: cfg.Overrides,
		logger:    logger,
	}
}

// Resolve returns the providing packages for ids under d. Identifiers that
// resolve to nothing are reported and dropped. With stream set, sources are
// parsed straight from the network and no raw copy is kept.
func (r *Resolver) Resolve(ctx context.Context, ids []string, d distro.Descriptor, stream bool) (*Result, error) {
	idx, err := r.Index(ctx, d, stream)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	res := &Result{}
	for _, id := range ids {
		pkg, ok := Lookup(idx, id)
		if !ok && r.overrides != nil {
			pkg, ok = r.overrides.Lookup(id, d.Family)
		}
		if !ok {
			r.logger.Warn("missing dependency", "dep", id, "distro", d)
			res.Missing = append(res.Missing, id)
			continue
		}
		if _, dup := seen[pkg]; dup {
			continue
		}
		seen[pkg] = struct{}{}
		res.Packages = append(res.Packages, pkg)
	}

	sort.Strings(res.Packages)
	sort.Strings(res.Missing)
	return res, nil
}

// Lookup finds id in idx, retrying with underscores replaced by hyphens.
func Lookup(idx Index, id string) (string, bool) {
	if pkg, ok := idx.Lookup(id); ok {
		return pkg, true
	}
	return idx.Lookup(strings.ReplaceAll(id, "_", "-"))
}

// Index loads the cached index for d, building and caching it first if the
// index file does not exist.
func (r *Resolver) Index(ctx context.Context, d distro.Descriptor, stream bool) (Index, error) {
	idx, ok, err := r.cache.LoadIndex(d)
	if err != nil {
		return nil, err
	}
	if ok {
		r.logger.Debug("using cached index", "path", r.cache.IndexPath(d), "entries", len(idx))
		return idx, nil
	}

	idx, err = r.build(ctx, d, stream)
	if err != nil {
		return nil, fmt.Errorf("building index for %s: %w", d, err)
	}

	if err := r.cache.SaveIndex(d, idx); err != nil {
		return nil, err
	}
	r.logger.Debug("saved index", "path", r.cache.IndexPath(d), "entries", len(idx))
	return idx, nil
}

// build merges every source for d, in table order.
func (r *Resolver) build(ctx context.Context, d distro.Descriptor, stream bool) (Index, error) {
	idx := make(Index)

	sources := r.sources(d)
	if len(sources) == 0 {
		r.logger.Warn("no repository sources for distribution", "distro", d)
	}

	for _, src := range sources {
		n, err := r.parseSource(ctx, d, src, idx, stream)
		if err != nil {
			return nil, fmt.Errorf("indexing %s: %w", src.URL, err)
		}
		if n == 0 {
			r.logger.Warn("source has no pkg-config entries", "url", src.URL)
		}
		r.logger.Debug("indexed source", "source", src.Name, "entries", n)
	}

	return idx, nil
}

func (r *Resolver) parseSource(ctx context.Context, d distro.Descriptor, src Source, idx Index, stream bool) (int, error) {
	raw, err := r.openSource(ctx, d, src, stream)
	if err != nil {
		return 0, err
	}
	defer raw.Close()

	body, err := Decompress(raw, src.FileName())
	if err != nil {
		return 0, err
	}
	defer body.Close()

	return Parse(body, src.Format, idx)
}

// openSource returns the raw (still compressed) bytes of src: the network
// stream in stream mode, otherwise the cached copy, downloading it first when
// absent.
func (r *Resolver) openSource(ctx context.Context, d distro.Descriptor, src Source, stream bool) (io.ReadCloser, error) {
	if r.fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured for %s", src.URL)
	}

	if stream {
		r.logger.Info("downloading", "url", src.URL, "mode", "stream")
		return r.fetcher.Get(ctx, src.URL)
	}

	rawPath := r.cache.RawPath(d, src)
	if f, err := os.Open(rawPath); err == nil {
		r.logger.Debug("using cached source", "path", rawPath)
		return f, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	r.logger.Info("downloading", "url", src.URL)
	if err := r.download(ctx, src.URL, rawPath); err != nil {
		return nil, err
	}

	return os.Open(rawPath)
}

// download stores the body at url in path. A partial file is removed on failure.
func (r *Resolver) download(ctx context.Context, url, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	body, err := r.fetcher.Get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	written, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("downloading %s: %w", url, err)
	}

	r.logger.Debug("downloaded", "bytes", written, "path", path)
	return nil
}
