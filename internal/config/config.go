package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"vls-mesh/internal/vls"
)

//go:embed config.schema.json
var schemaJSON string

// Config holds all configurable paths and decode/preview settings.
type Config struct {
	// Paths
	BaseDir         string `json:"base_dir"`
	GeneDir         string `json:"gene_dir"`
	OutputDir       string `json:"output_dir"`
	TemplateCatalog string `json:"template_catalog"`
	TextureDir      string `json:"texture_dir"`

	// Preview settings
	PreviewSize int     `json:"preview_size"`
	PreviewFill float64 `json:"preview_fill"` // fraction of the canvas the mesh fills
	PreviewView string  `json:"preview_view"` // camera name, "auto" by default
	Supersample int     `json:"supersample"`
	Workers     int     `json:"workers"`
	NoPreview   bool    `json:"no_preview"`

	// Decode and synthesis
	MaxPowerNodes int     `json:"max_power_nodes"`
	WeldTolerance float64 `json:"weld_tolerance"`
	Seed          uint64  `json:"seed"`
	DetailLevel   string  `json:"detail_level"`
	RingSpacing   string  `json:"ring_spacing"`
}

// Load reads a JSON config file and returns Config.
// The file is validated against the embedded schema; fields not set keep
// their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := validate(data); err != nil {
		return Config{}, fmt.Errorf("config: validate %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

func validate(data []byte) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	const url = "schema://vls/config.schema.json"
	if err := compiler.AddResource(url, strings.NewReader(schemaJSON)); err != nil {
		return err
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return schema.Validate(v)
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.GeneDir != "" {
		c.GeneDir = flags.GeneDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Catalog != "" {
		c.TemplateCatalog = flags.Catalog
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.PreviewSize = flags.Size
	}
	if flags.View != "" {
		c.PreviewView = flags.View
	}
	if flags.Seed != nil {
		c.Seed = *flags.Seed
	}
	if flags.Detail != "" {
		c.DetailLevel = flags.Detail
	}
	if flags.NoPreview {
		c.NoPreview = true
	}

	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	if c.GeneDir == "" {
		c.GeneDir = filepath.Join(c.BaseDir, "genes")
	} else {
		c.GeneDir = c.abs(c.GeneDir)
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.BaseDir, "out")
	} else {
		c.OutputDir = c.abs(c.OutputDir)
	}
	if c.TemplateCatalog != "" {
		c.TemplateCatalog = c.abs(c.TemplateCatalog)
	}
	if c.TextureDir != "" {
		c.TextureDir = c.abs(c.TextureDir)
	}

	// Defaults for preview and decode settings
	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.PreviewFill <= 0 {
		c.PreviewFill = 0.9
	}
	if c.PreviewView == "" {
		c.PreviewView = "auto"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxPowerNodes <= 0 {
		c.MaxPowerNodes = vls.DefaultMaxPowerNodes
	}
	if c.DetailLevel == "" {
		c.DetailLevel = "low"
	}
	if c.RingSpacing == "" {
		c.RingSpacing = "exclusive"
	}
}

func (c *Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir   string
	GeneDir   string
	OutputDir string
	Catalog   string
	Workers   int
	Size      int
	View      string
	Seed      *uint64 // nil when the flag was not given
	Detail    string
	NoPreview bool
}

// detectBaseDir looks for a "genes" directory in the working directory and
// its parent, falling back to the working directory.
func detectBaseDir() string {
	cwd, _ := os.Getwd()
	for _, base := range []string{cwd, filepath.Dir(cwd)} {
		if st, err := os.Stat(filepath.Join(base, "genes")); err == nil && st.IsDir() {
			return base
		}
	}
	return cwd
}
