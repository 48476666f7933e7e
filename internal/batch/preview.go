package batch

import (
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"vls-mesh/internal/filter"
	"vls-mesh/internal/mesh"
	"vls-mesh/internal/postprocess"
	"vls-mesh/internal/raster"
	"vls-mesh/internal/texture"
	"vls-mesh/internal/viewmatrix"
)

// PreviewOptions controls RenderPreview.
type PreviewOptions struct {
	View        string // viewmatrix name; empty means auto
	Size        int
	Supersample int
	Fill        float64 // fraction of the canvas the mesh fills
	Texture     *image.NRGBA
}

// MinComponentVerts is the size below which detached mesh pieces far from
// the main body are left out of previews.
const MinComponentVerts = 6

// RenderPreview drops stray components, rasterizes b supersampled,
// downsamples, clears pixel specks and centers the result on a size×size
// canvas.
func RenderPreview(b *mesh.Buffer, opts PreviewOptions) (*image.NRGBA, error) {
	view, err := viewmatrix.For(opts.View, b)
	if err != nil {
		return nil, err
	}
	size := opts.Size
	if size <= 0 {
		size = DefaultPreviewSize
	}
	fill := opts.Fill
	if fill <= 0 {
		fill = 0.9
	}

	b = filter.FilterComponents(b, MinComponentVerts)
	img := raster.RenderBuffer(b, raster.Options{View: view, Size: size, Supersample: opts.Supersample, Texture: opts.Texture})
	if opts.Supersample > 1 {
		img = postprocess.Downsample(img, size)
	}
	img = postprocess.RemoveSmallClusters(img, 0.02)
	return postprocess.CropAndCenter(img, size, fill), nil
}

// WritePreview encodes img as lossless WebP at path.
func WritePreview(p string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("batch: mkdir for %s: %w", p, err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("batch: create %s: %w", p, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("batch: webp encode %s: %w", p, err)
	}
	return nil
}

// lookupTexture resolves a texture named after the gene file's base name,
// so genes/trees/oak.gene picks up oak.png.
func lookupTexture(r texture.Resolver, name string) *image.NRGBA {
	if r == nil {
		return nil
	}
	return r.Resolve(path.Base(name))
}
