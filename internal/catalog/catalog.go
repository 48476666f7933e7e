// Package catalog loads leaf species templates from YAML or JSON files on
// top of the built-in set.
//
// A catalog file has a single "species" list. Each entry either defines a
// template in full or names a "base" species and overrides some fields.
// Files are checked against an embedded JSON Schema before they are decoded.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"vls-mesh/internal/leaf"
	"vls-mesh/internal/logging"
)

//go:embed catalog.schema.json
var schemaJSON string

const schemaURL = "schema://vls/catalog.schema.json"

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
}

// Catalog is a read-only set of templates keyed by species name.
type Catalog struct {
	templates map[string]leaf.Template
}

// Default returns a catalog holding only the built-in species.
func Default() *Catalog {
	return &Catalog{templates: leaf.Builtins()}
}

// Load reads a catalog file and layers it over the built-in species.
// Entries with an existing name replace that species.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	logging.Logger().Info("catalog: loaded", "path", path, "species", len(c.templates))
	return c, nil
}

type entry struct {
	Name        string   `json:"name"`
	Base        string   `json:"base"`
	OutlineCode *string  `json:"outlineCode"`
	Segments    *int     `json:"segments"`
	Width       *float64 `json:"width"`
	Length      *float64 `json:"length"`
	VeinCount   *int     `json:"veinCount"`
	VeinDepth   *float64 `json:"veinDepth"`
	Ruffling    *float64 `json:"ruffling"`
	Shape       *string  `json:"shape"`
}

func (e entry) apply(t leaf.Template) leaf.Template {
	t.Name = e.Name
	if e.OutlineCode != nil {
		t.OutlineCode = *e.OutlineCode
	}
	if e.Segments != nil {
		t.Segments = *e.Segments
	}
	if e.Width != nil {
		t.Width = *e.Width
	}
	if e.Length != nil {
		t.Length = *e.Length
	}
	if e.VeinCount != nil {
		t.VeinCount = *e.VeinCount
	}
	if e.VeinDepth != nil {
		t.VeinDepth = *e.VeinDepth
	}
	if e.Ruffling != nil {
		t.Ruffling = *e.Ruffling
	}
	if e.Shape != nil {
		t.Shape = *e.Shape
	}
	return t
}

type file struct {
	Species []entry `json:"species"`
}

// Parse decodes catalog data. YAML is accepted, and so is JSON since it is
// a YAML subset. Bases resolve against built-ins and earlier entries.
func Parse(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	// Round-trip through JSON so the validator sees JSON value types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var inst any
	if err := dec.Decode(&inst); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	c := Default()
	for _, e := range f.Species {
		var t leaf.Template
		if e.Base != "" {
			base, err := c.Get(e.Base)
			if err != nil {
				return nil, fmt.Errorf("species %q: %w", e.Name, err)
			}
			t = base
		}
		t = e.apply(t)
		if err := t.Validate(); err != nil {
			return nil, err
		}
		c.templates[t.Name] = t
	}
	return c, nil
}

// Names returns every species name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.templates))
	for n := range c.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the template for name. Unknown names produce an error that
// lists the closest matches.
func (c *Catalog) Get(name string) (leaf.Template, error) {
	if t, ok := c.templates[name]; ok {
		return t, nil
	}
	if s := c.Suggest(name); len(s) > 0 {
		return leaf.Template{}, fmt.Errorf("unknown species %q (did you mean %s?)", name, strings.Join(s, ", "))
	}
	return leaf.Template{}, fmt.Errorf("unknown species %q", name)
}

// Suggest returns up to three species names fuzzily matching name, best first.
func (c *Catalog) Suggest(name string) []string {
	names := c.Names()
	ranks := fuzzy.RankFindFold(name, names)
	for _, n := range names {
		if fuzzy.MatchFold(n, name) {
			ranks = append(ranks, fuzzy.Rank{Source: name, Target: n, Distance: fuzzy.LevenshteinDistance(name, n)})
		}
	}
	sort.Sort(ranks)

	var out []string
	seen := make(map[string]bool)
	for _, r := range ranks {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		out = append(out, r.Target)
		if len(out) == 3 {
			break
		}
	}
	return out
}
