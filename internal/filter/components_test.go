package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

// quad appends a two-triangle square of edge size at origin o.
func quad(b *mesh.Buffer, o mathutil.Vec3, size float64) {
	base := b.VertexCount()
	for _, d := range []mathutil.Vec3{{0, 0, 0}, {size, 0, 0}, {size, size, 0}, {0, size, 0}} {
		b.AppendVertex(o.Add(d), mathutil.Vec3{0, 0, 1}, 0, 0, mesh.White)
	}
	b.AddTriangle(base, base+1, base+2)
	b.AddTriangle(base, base+2, base+3)
}

func TestComponents(t *testing.T) {
	b := mesh.New()
	quad(b, mathutil.Vec3{}, 1)
	quad(b, mathutil.Vec3{5, 0, 0}, 1)
	b.AppendVertex(mathutil.Vec3{9, 9, 9}, mathutil.Vec3{0, 0, 1}, 0, 0, mesh.White)

	comps := Components(b)
	require.Len(t, comps, 2)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, comps[0])
	assert.ElementsMatch(t, []int{4, 5, 6, 7}, comps[1])
}

func TestFilterComponentsDropsDistantSpecks(t *testing.T) {
	// one 7x1 strip sharing vertices between cells
	body := mesh.New()
	for i := 0; i < 8; i++ {
		body.AppendVertex(mathutil.Vec3{float64(i), 0, 0}, mathutil.Vec3{0, 0, 1}, 0, 0, mesh.White)
		body.AppendVertex(mathutil.Vec3{float64(i), 1, 0}, mathutil.Vec3{0, 0, 1}, 0, 0, mesh.White)
	}
	for i := 0; i < 7; i++ {
		body.AddTriangle(2*i, 2*i+2, 2*i+3)
		body.AddTriangle(2*i, 2*i+3, 2*i+1)
	}
	quad(body, mathutil.Vec3{100, 100, 0}, 0.1) // far speck
	quad(body, mathutil.Vec3{3, 1.5, 0}, 0.1)   // close speck

	out := FilterComponents(body, 6)
	assert.Equal(t, 14+2, out.TriangleCount())
	assert.Equal(t, body.VertexCount(), out.VertexCount())
	assert.Equal(t, 14+4, body.TriangleCount(), "input untouched")
	require.NoError(t, out.Validate())
}

func TestFilterComponentsSkipsSmallMeshes(t *testing.T) {
	b := mesh.New()
	quad(b, mathutil.Vec3{}, 1)
	quad(b, mathutil.Vec3{50, 0, 0}, 1)
	assert.Same(t, b, FilterComponents(b, 6))
}
