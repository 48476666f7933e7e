// Package leaf synthesizes leaf surfaces from a short outline code and a
// species template.
//
// The outline code drives the same letter-derived perturbation as VLS
// programs: each letter nudges the outline radius, the outline is expanded
// into concentric rings toward the center, the innermost ring is fanned to a
// center vertex, and the result is subdivided, colored, bent, rotated and
// translated.
package leaf

import (
	"fmt"
	"sort"
)

// Template is the per-species configuration. Templates are values and are
// never mutated after registration.
type Template struct {
	Name        string  `json:"name" yaml:"name"`
	OutlineCode string  `json:"outlineCode" yaml:"outlineCode"`
	Segments    int     `json:"segments" yaml:"segments"`
	Width       float64 `json:"width" yaml:"width"`
	Length      float64 `json:"length" yaml:"length"`
	VeinCount   int     `json:"veinCount" yaml:"veinCount"`
	VeinDepth   float64 `json:"veinDepth" yaml:"veinDepth"`
	Ruffling    float64 `json:"ruffling" yaml:"ruffling"`
	// Shape is a descriptive tag ("ovate", "lobed", ...). Geometry does not read it.
	Shape string `json:"shape,omitempty" yaml:"shape,omitempty"`
}

// Validate reports the first problem that would stop synthesis.
func (t Template) Validate() error {
	if t.Segments < 3 {
		return fmt.Errorf("leaf: template %q: segments %d, need at least 3", t.Name, t.Segments)
	}
	if t.Length <= 0 {
		return fmt.Errorf("leaf: template %q: length must be positive", t.Name)
	}
	if t.Width < 0 || t.VeinDepth < 0 || t.Ruffling < 0 || t.VeinCount < 0 {
		return fmt.Errorf("leaf: template %q: negative width, vein or ruffling value", t.Name)
	}
	if _, err := ParseOutline(t.OutlineCode); err != nil {
		return fmt.Errorf("leaf: template %q: %w", t.Name, err)
	}
	return nil
}

var builtins = map[string]Template{
	"simple": {Name: "simple", OutlineCode: "A+B-C", Segments: 10, Width: 0.1, Length: 1.0,
		VeinCount: 3, VeinDepth: 0.02, Ruffling: 0.02, Shape: "ovate"},
	"oak": {Name: "oak", OutlineCode: "A+D-B+F-C+E", Segments: 16, Width: 0.3, Length: 1.2,
		VeinCount: 7, VeinDepth: 0.03, Ruffling: 0.05, Shape: "lobed"},
	"maple": {Name: "maple", OutlineCode: "A+H-C+K-E+H", Segments: 20, Width: 0.4, Length: 1.0,
		VeinCount: 5, VeinDepth: 0.03, Ruffling: 0.04, Shape: "palmate"},
	"willow": {Name: "willow", OutlineCode: "A+C+E", Segments: 12, Width: 0.05, Length: 2.0,
		VeinCount: 1, VeinDepth: 0.01, Ruffling: 0.01, Shape: "lanceolate"},
	"birch": {Name: "birch", OutlineCode: "A+C-B+D", Segments: 14, Width: 0.15, Length: 1.0,
		VeinCount: 6, VeinDepth: 0.02, Ruffling: 0.03, Shape: "ovate"},
	"fern": {Name: "fern", OutlineCode: "A-B+C-B+A", Segments: 24, Width: 0.08, Length: 1.8,
		VeinCount: 12, VeinDepth: 0.015, Ruffling: 0.02, Shape: "pinnate"},
}

// Builtin returns the built-in template for name.
func Builtin(name string) (Template, bool) {
	t, ok := builtins[name]
	return t, ok
}

// BuiltinNames returns the built-in species names, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Builtins returns a copy of every built-in template keyed by name.
func Builtins() map[string]Template {
	out := make(map[string]Template, len(builtins))
	for n, t := range builtins {
		out[n] = t
	}
	return out
}
