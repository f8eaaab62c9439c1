package scanner

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/cargo-sysdeps/pkg/core"
)

// Config configures a Scanner
type Config struct {
	Runner      core.Runner // Required for Scan
	ProbeMethod string      // Defaults to core.DefaultProbeMethod
	Logger      *log.Logger // Optional
}

// Scanner collects the native dependency identifiers of a cargo project
type Scanner struct {
	runner   core.Runner
	detector *Detector
	logger   *log.Logger
}

// New creates a Scanner
func New(cfg *Config) *Scanner {
	method := cfg.ProbeMethod
	if method == "" {
		method = core.DefaultProbeMethod
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Scanner{
		runner:   cfg.Runner,
		detector: NewDetector(method),
		logger:   logger,
	}
}

// Scan fetches the dependency graph of the project in dir and returns its
// dependency identifiers, sorted and without duplicates.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]string, error) {
	meta, err := FetchGraph(ctx, s.runner, dir)
	if err != nil {
		return nil, err
	}
	return s.ScanMetadata(ctx, meta), nil
}

// ScanMetadata collects identifiers from every active package in meta: its
// gated system-deps declarations and the probe calls in its build scripts.
// Unreadable or unparsable scripts are skipped.
func (s *Scanner) ScanMetadata(ctx context.Context, meta *Metadata) []string {
	active := meta.ActiveFeatures()
	found := make(map[string]struct{})

	for _, pkg := range meta.Packages {
		features, ok := active[pkg.ID]
		if !ok {
			continue
		}

		for _, decl := range ParseDeclarations(pkg.Metadata) {
			if decl.Active(features) {
				found[decl.PackageName] = struct{}{}
			} else {
				s.logger.Debug("declaration gated off", "package", pkg.Name, "dep", decl.Key)
			}
		}

		for _, script := range BuildScripts(pkg) {
			ids, err := s.scanFile(ctx, script)
			if err != nil {
				s.logger.Debug("skipping build script", "path", script, "err", err)
				continue
			}
			for _, id := range ids {
				found[id] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Scanner) scanFile(ctx context.Context, path string) ([]string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(ctx, src)
}

// BuildScripts lists the build-time sources of pkg: build.rs next to the
// manifest, every .rs file under build/, and the source of any custom-build
// target. Missing locations are left out.
func BuildScripts(pkg Package) []string {
	dir := filepath.Dir(pkg.ManifestPath)
	seen := make(map[string]struct{})
	var scripts []string

	add := func(path string) {
		path = filepath.Clean(path)
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		scripts = append(scripts, path)
	}

	if fi, err := os.Stat(filepath.Join(dir, "build.rs")); err == nil && !fi.IsDir() {
		add(filepath.Join(dir, "build.rs"))
	}

	_ = filepath.WalkDir(filepath.Join(dir, "build"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".rs") {
			add(path)
		}
		return nil
	})

	for _, t := range pkg.Targets {
		if t.IsBuildScript() && t.SrcPath != "" {
			add(t.SrcPath)
		}
	}

	return scripts
}
