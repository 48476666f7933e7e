package leaf

import (
	"fmt"
	"math/rand/v2"

	"vls-mesh/internal/logging"
	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

// SubdivisionLevels is the fixed number of quadrisection passes.
const SubdivisionLevels = 2

// Source supplies uniform floats in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded PCG source.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Detail multiplies a template's segment count.
type Detail int

const (
	DetailLow Detail = iota
	DetailMedium
	DetailHigh
)

func (d Detail) String() string {
	switch d {
	case DetailLow:
		return "low"
	case DetailMedium:
		return "medium"
	case DetailHigh:
		return "high"
	}
	return fmt.Sprintf("Detail(%d)", int(d))
}

// Multiplier is 1, 2 or 3.
func (d Detail) Multiplier() int {
	switch d {
	case DetailMedium:
		return 2
	case DetailHigh:
		return 3
	}
	return 1
}

// ParseDetail accepts "low", "medium" or "high"; "" means low.
func ParseDetail(s string) (Detail, error) {
	switch s {
	case "", "low":
		return DetailLow, nil
	case "medium":
		return DetailMedium, nil
	case "high":
		return DetailHigh, nil
	}
	return 0, fmt.Errorf("leaf: unknown detail level %q", s)
}

// Options controls one leaf instance.
type Options struct {
	Detail  Detail
	Spacing Spacing
	// WeldTolerance > 0 replaces exact 6-decimal welding.
	WeldTolerance float64

	Position mathutil.Vec3
	Rotation float64 // radians about Z
	Bend     float64 // z += y*Bend

	// Rand drives ruffling and color jitter. Nil means NewSource(1).
	Rand Source
}

// Stats describes the mesh before subdivision.
type Stats struct {
	Segments      int
	Rings         int
	RawVertices   int
	BaseTriangles int
	Triangles     int
	Vertices      int
}

// Result is one synthesized leaf.
type Result struct {
	Mesh  *mesh.Buffer
	Rings []Ring
	// Center is the index of the shared center vertex.
	Center int
	Stats  Stats
}

// GenerateNamed synthesizes a built-in species.
func GenerateNamed(name string, opts Options) (*Result, error) {
	t, ok := Builtin(name)
	if !ok {
		return nil, fmt.Errorf("leaf: unknown species %q", name)
	}
	return Generate(t, opts)
}

// Generate synthesizes one leaf from t.
//
// Every ring gets vertices, but only the innermost ring is triangulated
// (fanned to the center). Outer rings are sampled and left unconnected.
// TODO: stitch ring k to ring k+1 with quad strips once the intended
// side-wall topology is settled; tests pin the current output.
func Generate(t Template, opts Options) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	ops, _ := ParseOutline(t.OutlineCode)
	rng := opts.Rand
	if rng == nil {
		rng = NewSource(1)
	}
	log := logging.Logger()

	segments := t.Segments * opts.Detail.Multiplier()
	outline := Outline(ops, segments, t.Length, t.Width)
	surf := surface{
		ruffling:  t.Ruffling * (0.75 + 0.5*rng.Float64()),
		veinCount: t.VeinCount,
		veinDepth: t.VeinDepth,
	}

	buf := mesh.New()
	bld := mesh.NewBuilder(buf, mesh.NewWelder(opts.WeldTolerance))
	uv := func(p mathutil.Vec3) (float64, float64) {
		return 0.5 + p[0]/(2*(t.Length+t.Width)), 0.5 + p[1]/(2*t.Length)
	}

	rings := make([]Ring, len(ops))
	for k := range rings {
		r := expandRing(outline, RingT(k, len(ops), opts.Spacing), surf)
		r.Indices = make([]int, len(r.Points))
		for i, p := range r.Points {
			u, v := uv(p)
			r.Indices[i], _ = bld.AddVertex(p, u, v, mesh.White)
		}
		rings[k] = r
		log.Debug("leaf: ring", "species", t.Name, "ring", k, "t", r.T)
	}
	center, _ := bld.AddVertex(mathutil.Origin, 0.5, 0.5, mesh.White)

	last := rings[len(rings)-1].Indices
	for i := range last {
		buf.AddTriangle(center, last[i], last[(i+1)%len(last)])
	}
	stats := Stats{
		Segments:      segments,
		Rings:         len(rings),
		RawVertices:   buf.VertexCount(),
		BaseTriangles: buf.TriangleCount(),
	}
	buf.Log = append(buf.Log, mesh.LogEntry{
		Index: 0, Chunk: t.OutlineCode, Category: "leaf", Code: t.Name, Effect: "fan",
		Note: fmt.Sprintf("%d rings x %d segments", len(rings), segments),
	})

	mesh.Subdivide(bld, SubdivisionLevels)
	buf.Log = append(buf.Log, mesh.LogEntry{
		Index: 1, Chunk: t.OutlineCode, Category: "leaf", Code: t.Name, Effect: "subdivide",
		Note: fmt.Sprintf("%d levels", SubdivisionLevels),
	})

	Colorize(buf, t.Length, rng)
	mesh.Transform(buf, InstanceMatrix(opts.Position, opts.Rotation, opts.Bend))
	mesh.RecomputeNormals(buf)

	stats.Triangles = buf.TriangleCount()
	stats.Vertices = buf.VertexCount()
	log.Debug("leaf: generated", "species", t.Name, "vertices", stats.Vertices, "triangles", stats.Triangles)
	return &Result{Mesh: buf, Rings: rings, Center: center, Stats: stats}, nil
}

// InstanceMatrix builds bend, then rotation about Z, then translation.
func InstanceMatrix(pos mathutil.Vec3, rotation, bend float64) mathutil.Mat4 {
	linear := mathutil.Mat3Mul(mathutil.RotZ(rotation), mathutil.ShearZY(bend))
	return mathutil.FromMat3Translation(linear, pos)
}
