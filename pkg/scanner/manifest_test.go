package scanner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclarationActive(t *testing.T) {
	tests := []struct {
		name     string
		decl     Declaration
		features FeatureSet
		want     bool
	}{
		{"ungated", Declaration{Key: "zlib"}, NewFeatureSet(), true},
		{"optional off", Declaration{Key: "zlib", Optional: true}, NewFeatureSet("default"), false},
		{"optional on", Declaration{Key: "zlib", Optional: true}, NewFeatureSet("zlib"), true},
		{"feature off", Declaration{Key: "x11", Feature: "gui"}, NewFeatureSet("x11"), false},
		{"feature on", Declaration{Key: "x11", Feature: "gui"}, NewFeatureSet("gui"), true},
		{"feature wins over optional", Declaration{Key: "x11", Feature: "gui", Optional: true}, NewFeatureSet("x11"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.decl.Active(tt.features))
		})
	}
}

func TestParseDeclarations(t *testing.T) {
	meta := json.RawMessage(`{
		"docs": {"rs": {"all-features": true}},
		"system-deps": {
			"glib": {"name": "glib-2.0", "version": "2.66"},
			"zlib": "1.2",
			"x11": {"version": "1", "feature": "x11"},
			"gio": {"version": "2.66", "optional": true},
			"odd": {"name": 7}
		}
	}`)

	assert.Equal(t, []Declaration{
		{Key: "gio", PackageName: "gio", Optional: true},
		{Key: "glib", PackageName: "glib-2.0"},
		{Key: "odd", PackageName: "odd"},
		{Key: "x11", PackageName: "x11", Feature: "x11"},
		{Key: "zlib", PackageName: "zlib"},
	}, ParseDeclarations(meta))
}

func TestParseDeclarationsAbsent(t *testing.T) {
	assert.Empty(t, ParseDeclarations(nil))
	assert.Empty(t, ParseDeclarations(json.RawMessage(`null`)))
	assert.Empty(t, ParseDeclarations(json.RawMessage(`{"docs": {}}`)))
	assert.Empty(t, ParseDeclarations(json.RawMessage(`[1, 2]`)))
}
