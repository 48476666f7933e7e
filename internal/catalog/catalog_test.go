package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vls-mesh/internal/leaf"
)

const yamlCatalog = `
species:
  - name: ginkgo
    outlineCode: A+E-B+E
    segments: 18
    width: 0.5
    length: 0.9
    veinCount: 9
    veinDepth: 0.01
    ruffling: 0.03
    shape: fan
  - name: big-oak
    base: oak
    segments: 32
    length: 2.4
`

func TestParseYAML(t *testing.T) {
	c, err := Parse([]byte(yamlCatalog))
	require.NoError(t, err)

	g, err := c.Get("ginkgo")
	require.NoError(t, err)
	assert.Equal(t, leaf.Template{
		Name: "ginkgo", OutlineCode: "A+E-B+E", Segments: 18, Width: 0.5, Length: 0.9,
		VeinCount: 9, VeinDepth: 0.01, Ruffling: 0.03, Shape: "fan",
	}, g)

	oak, _ := leaf.Builtin("oak")
	big, err := c.Get("big-oak")
	require.NoError(t, err)
	assert.Equal(t, 32, big.Segments)
	assert.Equal(t, 2.4, big.Length)
	assert.Equal(t, oak.OutlineCode, big.OutlineCode)
	assert.Equal(t, oak.VeinCount, big.VeinCount)

	assert.Contains(t, c.Names(), "simple")
	assert.Len(t, c.Names(), len(leaf.BuiltinNames())+2)
}

func TestParseJSON(t *testing.T) {
	data := `{"species": [{"name": "simple", "outlineCode": "A", "segments": 6, "length": 1}]}`
	c, err := Parse([]byte(data))
	require.NoError(t, err)
	s, err := c.Get("simple")
	require.NoError(t, err)
	assert.Equal(t, 6, s.Segments)
	assert.Equal(t, "A", s.OutlineCode)
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := map[string]string{
		"missing species":     `{}`,
		"bad outline":         `{"species": [{"name": "x", "outlineCode": "abc", "segments": 6, "length": 1}]}`,
		"too few segments":    `{"species": [{"name": "x", "outlineCode": "A", "segments": 2, "length": 1}]}`,
		"fractional segments": `{"species": [{"name": "x", "outlineCode": "A", "segments": 6.5, "length": 1}]}`,
		"zero length":         `{"species": [{"name": "x", "outlineCode": "A", "segments": 6, "length": 0}]}`,
		"no base, no outline": `{"species": [{"name": "x", "segments": 6, "length": 1}]}`,
		"unknown field":       `{"species": [{"name": "x", "base": "oak", "colour": "red"}]}`,
		"not yaml":            "species: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestParseUnknownBase(t *testing.T) {
	_, err := Parse([]byte(`{"species": [{"name": "x", "base": "mapl"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maple")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCatalog), 0o644))
	c, err := Load(path)
	require.NoError(t, err)
	_, err = c.Get("ginkgo")
	assert.NoError(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetSuggests(t *testing.T) {
	c := Default()
	_, err := c.Get("willo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean willow`)

	assert.Equal(t, []string{"birch"}, c.Suggest("brch"))
	assert.Empty(t, c.Suggest("zzzz"))
}
