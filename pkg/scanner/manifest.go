package scanner

import (
	"encoding/json"
	"sort"
)

// FeatureSet is the set of features enabled for one graph node
type FeatureSet map[string]struct{}

// NewFeatureSet builds a set from names.
func NewFeatureSet(names ...string) FeatureSet {
	fs := make(FeatureSet, len(names))
	for _, n := range names {
		fs[n] = struct{}{}
	}
	return fs
}

// Has reports whether feature is enabled.
func (fs FeatureSet) Has(feature string) bool {
	_, ok := fs[feature]
	return ok
}

// Declaration is one entry of a package's [package.metadata.system-deps] table
type Declaration struct {
	Key         string
	PackageName string // "name" field, defaults to Key
	Feature     string // "feature" field, empty if ungated
	Optional    bool
}

// Active reports whether the declaration applies under features. An explicit
// feature gates it; otherwise an optional declaration is gated by a feature
// named like its key; otherwise it is always active.
func (d Declaration) Active(features FeatureSet) bool {
	switch {
	case d.Feature != "":
		return features.Has(d.Feature)
	case d.Optional:
		return features.Has(d.Key)
	default:
		return true
	}
}

// ParseDeclarations reads the system-deps table from package metadata. Entries
// that are not tables (plain version strings) are ungated declarations named
// by their key. Declarations are returned sorted by key.
func ParseDeclarations(metadata json.RawMessage) []Declaration {
	if len(metadata) == 0 {
		return nil
	}

	var meta struct {
		SystemDeps map[string]json.RawMessage `json:"system-deps"`
	}
	if err := json.Unmarshal(metadata, &meta); err != nil {
		return nil
	}

	decls := make([]Declaration, 0, len(meta.SystemDeps))
	for key, raw := range meta.SystemDeps {
		d := Declaration{Key: key, PackageName: key}

		var table map[string]any
		if err := json.Unmarshal(raw, &table); err == nil {
			if name, ok := table["name"].(string); ok {
				d.PackageName = name
			}
			if feature, ok := table["feature"].(string); ok {
				d.Feature = feature
			}
			if optional, ok := table["optional"].(bool); ok {
				d.Optional = optional
			}
		}

		decls = append(decls, d)
	}

	sort.Slice(decls, func(i, j int) bool { return decls[i].Key < decls[j].Key })
	return decls
}
