package leaf

import (
	"math"

	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

var (
	innerGreen = mathutil.Vec3{0.18, 0.45, 0.12}
	outerGreen = mathutil.Vec3{0.42, 0.78, 0.28}
)

// ColorJitter is the peak-to-peak brightness jitter applied per vertex.
const ColorJitter = 0.1

// Colorize paints every vertex with a green gradient by planar distance from
// the leaf center, darker at the center. It ignores any material color.
func Colorize(b *mesh.Buffer, length float64, rng Source) {
	for i := 0; i < b.VertexCount(); i++ {
		p := b.Position(i)
		d := math.Min(math.Hypot(p[0], p[1])/length, 1)
		c := innerGreen.Lerp(outerGreen, d).Scale(1 + (rng.Float64()-0.5)*ColorJitter)
		for k := range c {
			c[k] = math.Max(0, math.Min(1, c[k]))
		}
		b.SetColor(i, c)
	}
}
