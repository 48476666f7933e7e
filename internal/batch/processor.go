// Package batch decodes a tree of .gene files across a worker pool, writing
// canonical mesh files, WebP previews and a manifest.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"vls-mesh/internal/gene"
	"vls-mesh/internal/logging"
	"vls-mesh/internal/mesh"
	"vls-mesh/internal/texture"
	"vls-mesh/internal/vls"
)

// MeshExt is the suffix of canonical CBOR mesh files.
const MeshExt = ".vlsb"

// DefaultPreviewSize is used when Config.PreviewSize is unset.
const DefaultPreviewSize = 256

// Config holds all shared resources for a batch run.
type Config struct {
	GeneDir     string
	OutputDir   string
	Decoder     *vls.Decoder
	TexResolver texture.Resolver // optional; looked up by the file's base name
	View        string           // preview view name, see viewmatrix.For
	PreviewSize int
	PreviewFill float64
	Supersample int
	Workers     int
	NoPreview   bool

	// Progress, when set, replaces the stdout progress ticker.
	Progress func(done, total int)
}

// Result holds the outcome of processing one .gene file.
type Result struct {
	Name      string        `json:"name"`
	Source    string        `json:"source"`
	Program   string        `json:"program"`
	Mesh      string        `json:"mesh,omitempty"`
	Preview   string        `json:"preview,omitempty"`
	Vertices  int           `json:"vertices"`
	Triangles int           `json:"triangles"`
	Digest    string        `json:"digest,omitempty"`
	Warnings  []vls.Warning `json:"warnings,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// Run processes all paths using a worker pool. Results keep the order of paths.
func Run(cfg Config, paths []string) []Result {
	total := len(paths)
	results := make([]Result, total)
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p == 0 {
					continue
				}
				if cfg.Progress != nil {
					cfg.Progress(int(p), total)
					continue
				}
				rate := float64(p) / time.Since(start).Seconds()
				fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
			}
		}
	}()

	// Worker pool
	work := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ProcessFile(cfg, paths[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		work <- i
	}
	close(work)

	wg.Wait()
	close(done)

	logging.Logger().Info("batch: done", "files", total, "elapsed", time.Since(start))
	return results
}

// ProcessFile decodes one .gene file and writes its outputs under
// OutputDir, mirroring the file's path relative to GeneDir.
func ProcessFile(cfg Config, path string) Result {
	name := gene.Name(cfg.GeneDir, path)
	res := Result{Name: name, Source: filepath.ToSlash(path)}
	fail := func(err error) Result {
		res.Error = err.Error()
		logging.Logger().Warn("batch: failed", "name", name, "err", err)
		return res
	}

	program, err := gene.Read(path)
	if err != nil {
		return fail(err)
	}
	res.Program = program

	dec := cfg.Decoder
	if dec == nil {
		dec = vls.NewDecoder(vls.DefaultOptions())
	}
	out := dec.Decode(program)
	res.Warnings = out.Warnings
	res.Vertices = out.Mesh.VertexCount()
	res.Triangles = out.Mesh.TriangleCount()

	meshRel := name + MeshExt
	digest, err := WriteMesh(filepath.Join(cfg.OutputDir, filepath.FromSlash(meshRel)), out.Mesh)
	if err != nil {
		return fail(err)
	}
	res.Mesh, res.Digest = meshRel, digest

	if !cfg.NoPreview {
		img, err := RenderPreview(out.Mesh, PreviewOptions{
			View:        cfg.View,
			Size:        cfg.PreviewSize,
			Supersample: cfg.Supersample,
			Fill:        cfg.PreviewFill,
			Texture:     lookupTexture(cfg.TexResolver, name),
		})
		if err != nil {
			return fail(err)
		}
		previewRel := name + ".webp"
		if err := WritePreview(filepath.Join(cfg.OutputDir, filepath.FromSlash(previewRel)), img); err != nil {
			return fail(err)
		}
		res.Preview = previewRel
	}

	res.Success = true
	return res
}

// WriteMesh stores b as canonical CBOR and returns its digest.
func WriteMesh(path string, b *mesh.Buffer) (string, error) {
	data, err := b.MarshalCanonical()
	if err != nil {
		return "", fmt.Errorf("batch: encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("batch: mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("batch: write %s: %w", path, err)
	}
	return b.Digest()
}
