package vls

import (
	"math"

	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/ops"
)

const (
	SpiralSegments = 16
	SpiralTurns    = 2
	BezierSamples  = 8
)

// EndPosition returns where code moves a cursor at start, at unit scale.
// Axis and diagonal codes translate by their registry offset; every other
// code, known or not, returns start unchanged.
func EndPosition(start mathutil.Vec3, code string) mathutil.Vec3 {
	s, ok := ops.Lookup(code)
	if !ok {
		return start
	}
	switch {
	case s.Kind == ops.KindAxis:
		return start.Add(s.Offset)
	case s.Kind == ops.KindCurve && s.Curve == ops.CurveDiagonal:
		return start.Add(s.Offset)
	}
	return start
}

// InterpolateNodes returns n+1 evenly spaced samples from start to
// EndPosition(start, code), both ends included. When additive is false every
// coordinate of every sample is halved; this is a coarse stand-in for
// subtraction, not a geometric one.
func InterpolateNodes(start mathutil.Vec3, code string, n int, additive bool) []mathutil.Vec3 {
	if n < 0 {
		n = 0
	}
	end := EndPosition(start, code)
	out := make([]mathutil.Vec3, n+1)
	for i := 0; i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		out[i] = start.Lerp(end, t)
	}
	if n > 0 {
		out[n] = end
	}
	if !additive {
		for i := range out {
			out[i] = out[i].Scale(0.5)
		}
	}
	return out
}

// Spiral samples a two-turn helix of SpiralSegments points starting at pos.
// Radius is scale, total rise is scale; ccw=false flips the angular sign.
// pos itself is not part of the result.
func Spiral(pos mathutil.Vec3, scale float64, ccw bool) []mathutil.Vec3 {
	dir := 1.0
	if !ccw {
		dir = -1
	}
	out := make([]mathutil.Vec3, SpiralSegments)
	for i := 1; i <= SpiralSegments; i++ {
		t := float64(i) / SpiralSegments
		theta := t * SpiralTurns * 2 * math.Pi
		out[i-1] = pos.Add(mathutil.Vec3{
			scale * (math.Cos(theta) - 1),
			dir * scale * math.Sin(theta),
			scale * t,
		})
	}
	return out
}

// BezierHeight is the 1D quadratic blend (1-t)²·0 + 2(1-t)t·tension + t²·1.
func BezierHeight(t, tension float64) float64 {
	return 2*(1-t)*t*tension + t*t
}

// BezierProfile samples BezierSamples points: x advances linearly by scale
// while z follows BezierHeight·scale. It is a height profile, not a 3D
// parametric curve.
func BezierProfile(pos mathutil.Vec3, scale, tension float64) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, BezierSamples)
	for i := 1; i <= BezierSamples; i++ {
		t := float64(i) / BezierSamples
		out[i-1] = pos.Add(mathutil.Vec3{t * scale, 0, BezierHeight(t, tension) * scale})
	}
	return out
}
