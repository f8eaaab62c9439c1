package scanner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arc-language/cargo-sysdeps/pkg/core"
)

// Metadata is the subset of `cargo metadata --format-version 1` output the
// scanner reads
type Metadata struct {
	Packages      []Package `json:"packages"`
	Resolve       *Resolve  `json:"resolve"`
	WorkspaceRoot string    `json:"workspace_root"`
}

// Package is one package known to the registry, active or not
type Package struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	ManifestPath string          `json:"manifest_path"`
	Targets      []Target        `json:"targets"`
	Metadata     json.RawMessage `json:"metadata"`
}

// Target is a build target of a package
type Target struct {
	Name    string   `json:"name"`
	Kind    []string `json:"kind"`
	SrcPath string   `json:"src_path"`
}

// IsBuildScript reports whether the target is a custom build script.
func (t Target) IsBuildScript() bool {
	for _, k := range t.Kind {
		if k == "custom-build" {
			return true
		}
	}
	return false
}

// Resolve is the resolved dependency graph
type Resolve struct {
	Nodes []Node `json:"nodes"`
}

// Node is one active package in the resolved graph with its enabled features
type Node struct {
	ID       string   `json:"id"`
	Features []string `json:"features"`
}

// FetchGraph runs `cargo fetch` so every manifest and build script is on
// disk, then decodes `cargo metadata`. Any failure is fatal to a scan.
func FetchGraph(ctx context.Context, runner core.Runner, dir string) (*Metadata, error) {
	if err := runner.Run(ctx, dir, "cargo", "fetch"); err != nil {
		return nil, fmt.Errorf("%w: cargo fetch: %w", core.ErrGraphFetch, err)
	}

	out, err := runner.Output(ctx, dir, "cargo", "metadata", "--format-version", "1")
	if err != nil {
		return nil, fmt.Errorf("%w: cargo metadata: %w", core.ErrGraphFetch, err)
	}

	var meta Metadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, fmt.Errorf("%w: decoding cargo metadata: %w", core.ErrGraphFetch, err)
	}
	return &meta, nil
}

// ActiveFeatures maps every resolved node to its feature set. Packages absent
// from the map are inactive.
func (m *Metadata) ActiveFeatures() map[string]FeatureSet {
	active := make(map[string]FeatureSet)
	if m.Resolve == nil {
		return active
	}
	for _, node := range m.Resolve.Nodes {
		active[node.ID] = NewFeatureSet(node.Features...)
	}
	return active
}
