package raster

import (
	"math"

	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

// Light descriptor types understood by the preview. Other types are ignored.
const (
	LightKey     = 1 // params: direction x,y,z
	LightRim     = 2 // params: direction x,y,z
	LightAmbient = 3 // params: intensity
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	ViewDir  mathutil.Vec3
	HalfMain mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
	Emissive float64 // strength of the additive glow pass; 0 disables it
}

// DefaultLightConfig returns the studio lighting used for previews.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{180, 260, 140}.Normalize()
	rimDir := mathutil.Vec3{-160, 130, -210}.Normalize()
	viewDir := mathutil.Vec3{0, -110, -400}.Normalize()

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		ViewDir:  viewDir,
		HalfMain: lightDir.Sub(viewDir).Normalize(),
		Ambient:  0.55,
		Hemi:     0.50,
		Direct:   1.50,
		Rim:      0.60,
		SpecInt:  0.45,
		SpecPow:  12.0,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// LightConfigFor starts from DefaultLightConfig and applies the mesh's
// lighting descriptors and the "gloss", "metallic" and "emissive" materials.
func LightConfigFor(b *mesh.Buffer) LightConfig {
	lc := DefaultLightConfig()
	for _, l := range b.Lights {
		switch {
		case l.Type == LightKey && len(l.Params) >= 3:
			if d := (mathutil.Vec3{l.Params[0], l.Params[1], l.Params[2]}).Normalize(); d != (mathutil.Vec3{}) {
				lc.LightDir = d
				lc.HalfMain = d.Sub(lc.ViewDir).Normalize()
			}
		case l.Type == LightRim && len(l.Params) >= 3:
			if d := (mathutil.Vec3{l.Params[0], l.Params[1], l.Params[2]}).Normalize(); d != (mathutil.Vec3{}) {
				lc.RimDir = d
			}
		case l.Type == LightAmbient && len(l.Params) >= 1:
			lc.Ambient = math.Max(0, l.Params[0])
		}
	}
	if g, ok := materialFloat(b, "gloss"); ok {
		lc.SpecPow = 4 + 60*clamp01(g)
	}
	if m, ok := materialFloat(b, "metallic"); ok {
		lc.SpecInt = 0.2 + 0.8*clamp01(m)
	}
	if e, ok := materialFloat(b, "emissive"); ok {
		lc.Emissive = math.Max(0, e)
	}
	return lc
}

// ComputeShade returns the combined lighting scalar for a face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	// Lambertian (abs for double-sided)
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	// Hemisphere fill
	hemi := (1.0-math.Abs(normal[1]))*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := normal.Dot(lc.HalfMain)
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Tone maps a shaded sRGB channel: decode, scale, ACES, encode.
func (lc *LightConfig) Tone(c uint8, shade float64) float64 {
	return math.Pow(ACESTonemap(srgbToLinear[c]*shade*lc.Exposure), lc.InvGamma) * 255
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func materialFloat(b *mesh.Buffer, key string) (float64, bool) {
	v, ok := b.Materials[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
