package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a square supersampled render to targetSize with
// premultiplied-alpha CatmullRom filtering, which avoids dark halos at
// transparent edges. Images already small enough are returned as is.
func Downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetSize && b.Dy() <= targetSize {
		return img
	}
	return scaleInto(image.NewNRGBA(image.Rect(0, 0, targetSize, targetSize)),
		image.Rect(0, 0, targetSize, targetSize), img, b)
}

// scaleInto resamples src[sr] into dst[dr] and returns dst. Pixels of dst
// outside dr are left untouched.
func scaleInto(dst *image.NRGBA, dr image.Rectangle, src *image.NRGBA, sr image.Rectangle) *image.NRGBA {
	premul := premultiply(src, sr)
	scaled := image.NewRGBA(dr)
	draw.CatmullRom.Scale(scaled, dr, premul, premul.Bounds(), draw.Src, nil)
	unpremultiply(dst, scaled)
	return dst
}

func premultiply(img *image.NRGBA, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			si := img.PixOffset(r.Min.X+x, r.Min.Y+y)
			di := out.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			out.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			out.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			out.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			out.Pix[di+3] = img.Pix[si+3]
		}
	}
	return out
}

// unpremultiply writes src into dst at src's bounds.
func unpremultiply(dst *image.NRGBA, src *image.RGBA) {
	r := src.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(x, y)
			di := dst.PixOffset(x, y)
			a := float64(src.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				dst.Pix[di] = clamp8(float64(src.Pix[si]) * inv)
				dst.Pix[di+1] = clamp8(float64(src.Pix[si+1]) * inv)
				dst.Pix[di+2] = clamp8(float64(src.Pix[si+2]) * inv)
			}
			dst.Pix[di+3] = src.Pix[si+3]
		}
	}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
