package postprocess

import (
	"image"
	"math"
)

// AlphaBounds returns the smallest rectangle holding every non-transparent
// pixel, or an empty rectangle when there is none.
func AlphaBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	r := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if r.Empty() {
				r = px
			} else {
				r = r.Union(px)
			}
		}
	}
	return r
}

// CropAndCenter crops img to its visible pixels and scales them to fill
// fillRatio of a size×size transparent canvas, centered.
func CropAndCenter(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	src := AlphaBounds(img)
	if src.Empty() {
		return canvas
	}

	maxDim := float64(size) * fillRatio
	scale := maxDim / math.Max(float64(src.Dx()), float64(src.Dy()))
	newW := max(int(float64(src.Dx())*scale+0.5), 1)
	newH := max(int(float64(src.Dy())*scale+0.5), 1)
	offX := (size - newW) / 2
	offY := (size - newH) / 2

	dst := image.Rect(offX, offY, offX+newW, offY+newH).Intersect(canvas.Bounds())
	if dst.Empty() {
		return canvas
	}
	return scaleInto(canvas, dst, img, src)
}
