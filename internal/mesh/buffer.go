// Package mesh holds the decode output contract: parallel vertex arrays,
// triangle indices, materials, lights and an operation audit log.
package mesh

import (
	"fmt"

	"vls-mesh/internal/mathutil"
)

// DefaultNormal is assigned to new vertices and to vertices whose
// accumulated face normal has zero length.
var DefaultNormal = mathutil.Vec3{0, 0, 1}

// White is the default vertex color.
var White = mathutil.Vec3{1, 1, 1}

// Light is one lighting descriptor entry, e.g. "1[0.5,1,0]".
type Light struct {
	Type   int       `json:"type" cbor:"type"`
	Params []float64 `json:"params" cbor:"params"`
}

// LogEntry records what one program chunk did. The log is an audit trail for
// tooling; renderers ignore it.
type LogEntry struct {
	Index    int    `json:"index"`
	Chunk    string `json:"chunk"`
	Category string `json:"category"`
	Code     string `json:"code,omitempty"`
	Effect   string `json:"effect"`
	Vertices []int  `json:"vertices,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Buffer is a decoded mesh. Vertices, Normals and Colors hold 3 floats per
// vertex, UVs 2 floats per vertex, Indices 3 entries per triangle.
type Buffer struct {
	Vertices  []float64
	Normals   []float64
	UVs       []float64
	Colors    []float64
	Indices   []uint32
	Materials map[string]any
	Lights    []Light
	Log       []LogEntry
}

// New returns an empty buffer with an initialized materials map.
func New() *Buffer {
	return &Buffer{Materials: make(map[string]any)}
}

// VertexCount returns the number of vertices.
func (b *Buffer) VertexCount() int {
	return len(b.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (b *Buffer) TriangleCount() int {
	return len(b.Indices) / 3
}

// IsEmpty reports whether the buffer has no geometry.
func (b *Buffer) IsEmpty() bool {
	return len(b.Vertices) == 0
}

// AppendVertex appends one vertex to every parallel array and returns its index.
// No welding is done here; see Builder.
func (b *Buffer) AppendVertex(pos, normal mathutil.Vec3, u, v float64, color mathutil.Vec3) int {
	idx := b.VertexCount()
	b.Vertices = append(b.Vertices, pos[0], pos[1], pos[2])
	b.Normals = append(b.Normals, normal[0], normal[1], normal[2])
	b.UVs = append(b.UVs, u, v)
	b.Colors = append(b.Colors, color[0], color[1], color[2])
	return idx
}

// AddTriangle appends one triangle.
func (b *Buffer) AddTriangle(i0, i1, i2 int) {
	b.Indices = append(b.Indices, uint32(i0), uint32(i1), uint32(i2))
}

// Position returns vertex i.
func (b *Buffer) Position(i int) mathutil.Vec3 {
	return mathutil.Vec3{b.Vertices[i*3], b.Vertices[i*3+1], b.Vertices[i*3+2]}
}

// SetPosition overwrites vertex i.
func (b *Buffer) SetPosition(i int, p mathutil.Vec3) {
	b.Vertices[i*3], b.Vertices[i*3+1], b.Vertices[i*3+2] = p[0], p[1], p[2]
}

// Normal returns the normal of vertex i.
func (b *Buffer) Normal(i int) mathutil.Vec3 {
	return mathutil.Vec3{b.Normals[i*3], b.Normals[i*3+1], b.Normals[i*3+2]}
}

// UV returns the texture coordinate of vertex i.
func (b *Buffer) UV(i int) (float64, float64) {
	return b.UVs[i*2], b.UVs[i*2+1]
}

// Color returns the color of vertex i.
func (b *Buffer) Color(i int) mathutil.Vec3 {
	return mathutil.Vec3{b.Colors[i*3], b.Colors[i*3+1], b.Colors[i*3+2]}
}

// SetColor overwrites the color of vertex i.
func (b *Buffer) SetColor(i int, c mathutil.Vec3) {
	b.Colors[i*3], b.Colors[i*3+1], b.Colors[i*3+2] = c[0], c[1], c[2]
}

// Triangle returns the three vertex indices of triangle t.
func (b *Buffer) Triangle(t int) (int, int, int) {
	return int(b.Indices[t*3]), int(b.Indices[t*3+1]), int(b.Indices[t*3+2])
}

// Validate checks that the parallel arrays are index-aligned and that every
// index references an existing vertex.
func (b *Buffer) Validate() error {
	if len(b.Vertices)%3 != 0 {
		return fmt.Errorf("mesh: vertices length %d not a multiple of 3", len(b.Vertices))
	}
	n := b.VertexCount()
	if len(b.Normals) != n*3 {
		return fmt.Errorf("mesh: normals length %d, want %d", len(b.Normals), n*3)
	}
	if len(b.UVs) != n*2 {
		return fmt.Errorf("mesh: uvs length %d, want %d", len(b.UVs), n*2)
	}
	if len(b.Colors) != n*3 {
		return fmt.Errorf("mesh: colors length %d, want %d", len(b.Colors), n*3)
	}
	if len(b.Indices)%3 != 0 {
		return fmt.Errorf("mesh: indices length %d not a multiple of 3", len(b.Indices))
	}
	for i, idx := range b.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh: index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all vertices.
// An empty buffer yields two zero vectors.
func (b *Buffer) Bounds() (mathutil.Vec3, mathutil.Vec3) {
	if b.IsEmpty() {
		return mathutil.Vec3{}, mathutil.Vec3{}
	}
	lo := b.Position(0)
	hi := lo
	for i := 1; i < b.VertexCount(); i++ {
		p := b.Position(i)
		for k := 0; k < 3; k++ {
			if p[k] < lo[k] {
				lo[k] = p[k]
			}
			if p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
	}
	return lo, hi
}

// Merge appends src's geometry to dst, offsetting indices. Materials from src
// fill keys dst does not have; lights and log entries are appended.
func Merge(dst, src *Buffer) {
	base := uint32(dst.VertexCount())
	dst.Vertices = append(dst.Vertices, src.Vertices...)
	dst.Normals = append(dst.Normals, src.Normals...)
	dst.UVs = append(dst.UVs, src.UVs...)
	dst.Colors = append(dst.Colors, src.Colors...)
	for _, idx := range src.Indices {
		dst.Indices = append(dst.Indices, idx+base)
	}
	if dst.Materials == nil {
		dst.Materials = make(map[string]any)
	}
	for k, v := range src.Materials {
		if _, ok := dst.Materials[k]; !ok {
			dst.Materials[k] = v
		}
	}
	dst.Lights = append(dst.Lights, src.Lights...)
	dst.Log = append(dst.Log, src.Log...)
}
