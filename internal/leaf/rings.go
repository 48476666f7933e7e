package leaf

import (
	"fmt"
	"math"

	"vls-mesh/internal/mathutil"
)

// Spacing selects where the concentric rings sit between outline and center.
type Spacing int

const (
	// SpacingExclusive places ring k at t = k/letterCount, so no ring lands
	// on the center vertex (t = 1). It is the default: inclusive spacing welds
	// its collapsed last ring into the center and loses those vertices.
	SpacingExclusive Spacing = iota
	// SpacingInclusive places ring k at t = k/(letterCount-1). The last ring
	// has t = 1 and collapses onto the center axis.
	SpacingInclusive
)

func (s Spacing) String() string {
	switch s {
	case SpacingExclusive:
		return "exclusive"
	case SpacingInclusive:
		return "inclusive"
	}
	return fmt.Sprintf("Spacing(%d)", int(s))
}

// ParseSpacing accepts "exclusive" or "inclusive"; "" means exclusive.
func ParseSpacing(s string) (Spacing, error) {
	switch s {
	case "", "exclusive":
		return SpacingExclusive, nil
	case "inclusive":
		return SpacingInclusive, nil
	}
	return 0, fmt.Errorf("leaf: unknown ring spacing %q", s)
}

// RingT returns the parameter of ring k out of count rings.
func RingT(k, count int, s Spacing) float64 {
	if s == SpacingInclusive {
		if count < 2 {
			return 0
		}
		return float64(k) / float64(count-1)
	}
	return float64(k) / float64(count)
}

// Ring is one concentric level. Indices are filled once the points are
// added to a mesh.
type Ring struct {
	T       float64
	Points  []mathutil.Vec3
	Indices []int
}

// surface holds the perturbation amplitudes applied to ring points.
type surface struct {
	ruffling  float64
	veinCount int
	veinDepth float64
}

// expandRing scales the outline by (1-t) and adds two independent z terms:
// ruffling, fading toward the center, and veins, deepening toward it.
func expandRing(outline []OutlinePoint, t float64, s surface) Ring {
	r := Ring{T: t, Points: make([]mathutil.Vec3, len(outline))}
	for i, op := range outline {
		p := op.Pos.Scale(1 - t)
		ruffle := math.Sin(float64(i)*0.5+op.Op.Modifier()*2*math.Pi) * s.ruffling * (1 - t)
		vein := -math.Abs(math.Sin(op.Angle*float64(s.veinCount))) * s.veinDepth * t
		p[2] = ruffle + vein
		r.Points[i] = p
	}
	return r
}
