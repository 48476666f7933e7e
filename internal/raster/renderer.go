// Package raster is a small software rasterizer for mesh previews.
package raster

import (
	"image"
	"math"
	"strconv"

	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

// Options controls a preview render.
type Options struct {
	View        mathutil.Mat3 // zero value means mathutil.PreviewView
	Size        int           // output edge in pixels before supersampling
	Supersample int           // 0 or 1 disables
	Texture     *image.NRGBA  // optional, sampled with vertex UVs
}

// RenderBuffer draws b into a square NRGBA image of Size*Supersample pixels.
// The mesh is rotated by View, centered and scaled to fit with a margin.
// Vertex colors are multiplied by the "color" material and the texture;
// "opacity" scales alpha. Emissive materials get an additive glow pass.
func RenderBuffer(b *mesh.Buffer, opts Options) *image.NRGBA {
	ss := max(opts.Supersample, 1)
	size := max(opts.Size, 1)
	renderSize := size * ss
	if b.TriangleCount() == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}
	view := opts.View
	if view == (mathutil.Mat3{}) {
		view = mathutil.PreviewView
	}

	// Rotate and bound
	n := b.VertexCount()
	tv := make([]mathutil.Vec3, n)
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := range tv {
		tv[i] = view.MulVec3(b.Position(i))
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], tv[i][k])
			hi[k] = math.Max(hi[k], tv[i][k])
		}
	}
	center := lo.Mid(hi)
	span := math.Max(math.Max(hi[0]-lo[0], hi[1]-lo[1]), 0.001)

	margin := 8 * ss
	scale := float64(renderSize-2*margin) / span
	half := float64(renderSize) / 2

	tint, opacity := materialTint(b)
	verts := make([]Vertex, n)
	for i, p := range tv {
		u, v := b.UV(i)
		verts[i] = Vertex{
			X:     half + (p[0]-center[0])*scale,
			Y:     half - (p[1]-center[1])*scale,
			Z:     (p[2] - center[2]) * scale,
			U:     u,
			V:     v,
			Color: mulVec(b.Color(i), tint),
			Alpha: opacity,
		}
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := LightConfigFor(b)
	for pass := 0; pass < 2; pass++ {
		if pass == 1 && lc.Emissive <= 0 {
			break
		}
		for t := 0; t < b.TriangleCount(); t++ {
			i0, i1, i2 := b.Triangle(t)
			normal := tv[i1].Sub(tv[i0]).Cross(tv[i2].Sub(tv[i0])).Normalize()
			if normal == (mathutil.Vec3{}) {
				continue
			}
			tri := [3]Vertex{verts[i0], verts[i1], verts[i2]}
			if pass == 0 {
				RasterizeTriangle(fb, tri, normal, opts.Texture, &lc)
			} else {
				RasterizeTriangleAdditive(fb, tri, normal, opts.Texture, &lc)
			}
		}
	}
	return fb.Image()
}

// materialTint returns the "color" material as a multiplier (white if unset
// or malformed) and the "opacity" material clamped to [0,1] (1 if unset).
func materialTint(b *mesh.Buffer) (mathutil.Vec3, float64) {
	tint := mesh.White
	if s, ok := b.Materials["color"].(string); ok {
		if c, ok := parseHexColor(s); ok {
			tint = c
		}
	}
	opacity := 1.0
	if o, ok := materialFloat(b, "opacity"); ok {
		opacity = clamp01(o)
	}
	return tint, opacity
}

// parseHexColor reads "#RRGGBB".
func parseHexColor(s string) (mathutil.Vec3, bool) {
	if len(s) != 7 || s[0] != '#' {
		return mathutil.Vec3{}, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return mathutil.Vec3{}, false
	}
	return mathutil.Vec3{
		float64(v>>16&0xff) / 255,
		float64(v>>8&0xff) / 255,
		float64(v&0xff) / 255,
	}, true
}

func mulVec(a, b mathutil.Vec3) mathutil.Vec3 {
	return mathutil.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
