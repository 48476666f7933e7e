// Package texture loads optional preview textures from a directory of
// TGA, PNG or JPEG files.
package texture

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// Extensions lists the supported suffixes, best first: formats with an
// alpha channel win over JPEG when two files share a stem.
var Extensions = []string{".png", ".tga", ".jpg", ".jpeg"}

// LoadTexture reads a TGA, PNG or JPEG file and returns an NRGBA image.
func LoadTexture(path string) (*image.NRGBA, error) {
	decode := decoderFor(filepath.Ext(path))
	if decode == nil {
		return nil, fmt.Errorf("texture: unknown extension: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// decoderFor picks the decoder by extension. The tga package matches any
// input in image.Decode, so format sniffing cannot be used.
func decoderFor(ext string) func(io.Reader) (image.Image, error) {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Decode
	case ".tga":
		return tga.Decode
	case ".jpg", ".jpeg":
		return jpeg.Decode
	}
	return nil
}

// rank is the position of ext in Extensions, or -1.
func rank(ext string) int {
	ext = strings.ToLower(ext)
	for i, e := range Extensions {
		if e == ext {
			return i
		}
	}
	return -1
}

// toNRGBA converts any image to NRGBA with a zero origin.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
