package mesh

import (
	"vls-mesh/internal/logging"
	"vls-mesh/internal/mathutil"
)

// FanFromFirst indexes every vertex as a triangle fan anchored at vertex 0.
// Nothing is emitted for fewer than 3 vertices. This is a placeholder
// triangulation for raw decoder output, not a real surface.
func FanFromFirst(b *Buffer) {
	n := b.VertexCount()
	if n < 3 {
		return
	}
	for i := 1; i < n-1; i++ {
		b.AddTriangle(0, i, i+1)
	}
}

// Subdivide splits every triangle in b into 4 via edge midpoints, levels
// times. Midpoint vertices go through the builder's welder, so shared edges
// share one midpoint. Triangle count grows by 4^levels exactly.
func Subdivide(bld *Builder, levels int) {
	b := bld.Buf
	for l := 0; l < levels; l++ {
		src := b.Indices
		out := make([]uint32, 0, len(src)*4)
		for t := 0; t+2 < len(src); t += 3 {
			a, c0, c1 := int(src[t]), int(src[t+1]), int(src[t+2])
			ab := midpoint(bld, a, c0)
			bc := midpoint(bld, c0, c1)
			ca := midpoint(bld, c1, a)
			out = append(out,
				uint32(a), uint32(ab), uint32(ca),
				uint32(ab), uint32(c0), uint32(bc),
				uint32(ca), uint32(bc), uint32(c1),
				uint32(ab), uint32(bc), uint32(ca),
			)
		}
		b.Indices = out
		logging.Logger().Debug("mesh: subdivided", "level", l+1, "triangles", b.TriangleCount(), "vertices", b.VertexCount())
	}
}

func midpoint(bld *Builder, i, j int) int {
	b := bld.Buf
	ui, vi := b.UV(i)
	uj, vj := b.UV(j)
	idx, _ := bld.AddVertex(
		b.Position(i).Mid(b.Position(j)),
		(ui+uj)/2, (vi+vj)/2,
		b.Color(i).Mid(b.Color(j)),
	)
	return idx
}

// RecomputeNormals sets every vertex normal to the normalized sum of the
// area-weighted face normals touching it. Vertices with no usable
// contribution get DefaultNormal.
func RecomputeNormals(b *Buffer) {
	n := b.VertexCount()
	acc := make([]mathutil.Vec3, n)
	for t := 0; t < b.TriangleCount(); t++ {
		i0, i1, i2 := b.Triangle(t)
		p0, p1, p2 := b.Position(i0), b.Position(i1), b.Position(i2)
		fn := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[i0] = acc[i0].Add(fn)
		acc[i1] = acc[i1].Add(fn)
		acc[i2] = acc[i2].Add(fn)
	}
	for i := 0; i < n; i++ {
		nv := acc[i].Normalize()
		if nv == (mathutil.Vec3{}) {
			nv = DefaultNormal
		}
		b.Normals[i*3], b.Normals[i*3+1], b.Normals[i*3+2] = nv[0], nv[1], nv[2]
	}
}

// Transform applies m to every vertex position in place. Normals are left
// untouched; callers recompute them afterwards.
func Transform(b *Buffer, m mathutil.Mat4) {
	if m.IsIdentity() {
		return
	}
	for i := 0; i < b.VertexCount(); i++ {
		b.SetPosition(i, m.MulPoint(b.Position(i)))
	}
}
