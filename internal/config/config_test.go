package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vls-mesh/internal/vls"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vls.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"base_dir": "/srv/assets",
		"gene_dir": "plants",
		"preview_fill": 0.75,
		"weld_tolerance": 0.0001,
		"seed": 12,
		"detail_level": "high"
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		BaseDir:       "/srv/assets",
		GeneDir:       "plants",
		PreviewFill:   0.75,
		WeldTolerance: 0.0001,
		Seed:          12,
		DetailLevel:   "high",
	}, cfg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":   `{"render_size": 256}`,
		"bad detail":    `{"detail_level": "ultra"}`,
		"bad view":      `{"preview_view": "fisheye"}`,
		"fill range":    `{"preview_fill": 1.5}`,
		"negative seed": `{"seed": -1}`,
		"not json":      `{`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	cfg := Config{BaseDir: "/data"}
	cfg.Resolve(Flags{})

	assert.Equal(t, filepath.Join("/data", "genes"), cfg.GeneDir)
	assert.Equal(t, filepath.Join("/data", "out"), cfg.OutputDir)
	assert.Equal(t, 256, cfg.PreviewSize)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, 0.9, cfg.PreviewFill)
	assert.Equal(t, "auto", cfg.PreviewView)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, vls.DefaultMaxPowerNodes, cfg.MaxPowerNodes)
	assert.Equal(t, "low", cfg.DetailLevel)
	assert.Equal(t, "exclusive", cfg.RingSpacing)
	assert.Empty(t, cfg.TemplateCatalog)
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	seed := uint64(0)
	cfg := Config{BaseDir: "/data", GeneDir: "plants", OutputDir: "/abs/out", Seed: 99, Workers: 3}
	cfg.Resolve(Flags{Catalog: "species.yaml", Workers: 8, View: "top", Seed: &seed, Detail: "medium", NoPreview: true})

	assert.Equal(t, filepath.Join("/data", "plants"), cfg.GeneDir)
	assert.Equal(t, "/abs/out", cfg.OutputDir)
	assert.Equal(t, filepath.Join("/data", "species.yaml"), cfg.TemplateCatalog)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, "medium", cfg.DetailLevel)
	assert.Equal(t, "top", cfg.PreviewView)
	assert.True(t, cfg.NoPreview)
}
