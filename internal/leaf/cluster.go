package leaf

import (
	"math"

	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

// ClusterOptions places Count leaves around a branch.
type ClusterOptions struct {
	Count     int
	Origin    mathutil.Vec3
	Direction mathutil.Vec3 // branch direction; zero means +Z
	Spacing   float64       // distance along the branch between leaves
	Radius    float64       // distance from the branch axis
	// Leaf supplies detail, spacing, weld tolerance, base bend and the random
	// source. Position and Rotation are overwritten per leaf.
	Leaf Options
}

// Placement is where one cluster leaf ended up.
type Placement struct {
	Position mathutil.Vec3
	Rotation float64
	Bend     float64
}

// ClusterResult is the merged cluster mesh.
type ClusterResult struct {
	Mesh       *mesh.Buffer
	Placements []Placement
}

// Cluster spirals leaves along the branch by the golden angle, with
// randomized rotation and bend.
func Cluster(t Template, opts ClusterOptions) (*ClusterResult, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	rng := opts.Leaf.Rand
	if rng == nil {
		rng = NewSource(1)
	}
	dir := opts.Direction.Normalize()
	if dir == (mathutil.Vec3{}) {
		dir = mathutil.Vec3{0, 0, 1}
	}
	u, w := dir.Perpendicular()

	out := &ClusterResult{Mesh: mesh.New()}
	for i := 0; i < opts.Count; i++ {
		angle := float64(i) * mathutil.GoldenAngle
		radial := u.Scale(math.Cos(angle)).Add(w.Scale(math.Sin(angle)))
		pl := Placement{
			Position: opts.Origin.Add(dir.Scale(float64(i) * opts.Spacing)).Add(radial.Scale(opts.Radius)),
			Rotation: angle + (rng.Float64()-0.5)*0.5,
			Bend:     opts.Leaf.Bend + (rng.Float64()-0.5)*0.4,
		}
		lo := opts.Leaf
		lo.Position, lo.Rotation, lo.Bend, lo.Rand = pl.Position, pl.Rotation, pl.Bend, rng
		res, err := Generate(t, lo)
		if err != nil {
			return nil, err
		}
		mesh.Merge(out.Mesh, res.Mesh)
		out.Placements = append(out.Placements, pl)
	}
	return out, nil
}
