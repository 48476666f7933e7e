package raster

import (
	"image"
	"math"

	"vls-mesh/internal/mathutil"
)

// Vertex is one projected triangle corner.
type Vertex struct {
	X, Y, Z float64 // screen pixels; larger Z is nearer
	U, V    float64
	Color   mathutil.Vec3 // sRGB-encoded, 0..1
	Alpha   float64
}

// RasterizeTriangle fills one triangle with z-buffering, flat lighting from
// normal, per-vertex color interpolation and optional texture modulation.
func RasterizeTriangle(fb *FrameBuffer, tri [3]Vertex, normal mathutil.Vec3, tex *image.NRGBA, lc *LightConfig) {
	rasterize(fb, tri, lc.ComputeShade(normal), tex, lc, false)
}

// RasterizeTriangleAdditive adds the triangle's lit color, scaled by
// lc.Emissive, onto the framebuffer without depth testing. It draws the glow
// pass for emissive materials.
func RasterizeTriangleAdditive(fb *FrameBuffer, tri [3]Vertex, normal mathutil.Vec3, tex *image.NRGBA, lc *LightConfig) {
	if lc.Emissive <= 0 {
		return
	}
	rasterize(fb, tri, lc.ComputeShade(normal)*lc.Emissive, tex, lc, true)
}

// rasterize is the hot path: no allocation inside the pixel loop.
func rasterize(fb *FrameBuffer, tri [3]Vertex, shade float64, tex *image.NRGBA, lc *LightConfig, additive bool) {
	a, b, c := tri[0], tri[1], tri[2]

	minX := int(math.Min(math.Min(a.X, b.X), c.X))
	maxX := int(math.Max(math.Max(a.X, b.X), c.X)) + 1
	minY := int(math.Min(math.Min(a.Y, b.Y), c.Y))
	maxY := int(math.Max(math.Max(a.Y, b.Y), c.Y)) + 1
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12 := b.Y - c.Y
	dx21 := c.X - b.X
	dy20 := c.Y - a.Y
	dx02 := a.X - c.X

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - c.Y
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - c.X
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			zIdx := rowOff + sx
			z := w0*a.Z + w1*b.Z + w2*c.Z
			if !additive && z <= fb.ZBuf[zIdx] {
				continue
			}

			cr := w0*a.Color[0] + w1*b.Color[0] + w2*c.Color[0]
			cg := w0*a.Color[1] + w1*b.Color[1] + w2*c.Color[1]
			cb := w0*a.Color[2] + w1*b.Color[2] + w2*c.Color[2]
			ca := w0*a.Alpha + w1*b.Alpha + w2*c.Alpha
			if tex != nil {
				t := SampleTexture(tex, w0*a.U+w1*b.U+w2*c.U, w0*a.V+w1*b.V+w2*c.V)
				cr, cg, cb, ca = cr*t[0], cg*t[1], cb*t[2], ca*t[3]
			}

			// Skip transparent texels
			if ca < 8.0/255 {
				continue
			}

			fr := lc.Tone(clamp255(cr*255), shade)
			fg := lc.Tone(clamp255(cg*255), shade)
			fbl := lc.Tone(clamp255(cb*255), shade)

			px := zIdx * 4
			if additive {
				fb.Color[px] = clamp255(float64(fb.Color[px]) + fr)
				fb.Color[px+1] = clamp255(float64(fb.Color[px+1]) + fg)
				fb.Color[px+2] = clamp255(float64(fb.Color[px+2]) + fbl)
				// dark additions stay transparent
				if lum := clamp255(fr*0.299 + fg*0.587 + fbl*0.114); lum > fb.Color[px+3] {
					fb.Color[px+3] = lum
				}
				continue
			}
			fb.ZBuf[zIdx] = z
			fb.Color[px] = clamp255(fr)
			fb.Color[px+1] = clamp255(fg)
			fb.Color[px+2] = clamp255(fbl)
			fb.Color[px+3] = clamp255(ca * 255)
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
