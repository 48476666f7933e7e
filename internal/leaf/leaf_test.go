package leaf

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vls-mesh/internal/mathutil"
)

func TestParseOutline(t *testing.T) {
	got, err := ParseOutline("A+B-C")
	require.NoError(t, err)
	want := []OutlineOp{{Letter: 'A'}, {Letter: 'B'}, {Letter: 'C', Inward: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseOutline mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"", "+", "A+", "A+-B", "a", "A B"} {
		_, err := ParseOutline(bad)
		assert.Error(t, err, bad)
	}
}

func TestOutlineOpMagnitude(t *testing.T) {
	assert.Equal(t, 0.0, OutlineOp{Letter: 'A'}.Magnitude())
	assert.InDelta(t, 0.04, OutlineOp{Letter: 'C'}.Magnitude(), 1e-12)
	assert.InDelta(t, -0.02, OutlineOp{Letter: 'C', Inward: true}.Magnitude(), 1e-12)
	assert.InDelta(t, 0.5, OutlineOp{Letter: 'Z'}.Magnitude(), 1e-12)
}

func TestOutlineWidthIsNotRadial(t *testing.T) {
	ops := []OutlineOp{{Letter: 'A'}}
	pts := Outline(ops, 4, 1, 0.25)
	require.Len(t, pts, 4)
	// at 90 degrees the width term shifts x while y keeps the plain radius
	assert.InDelta(t, 0.25, pts[1].Pos[0], 1e-12)
	assert.InDelta(t, 1, pts[1].Pos[1], 1e-12)
	assert.InDelta(t, 1, pts[0].Pos[0], 1e-12)
}

func TestGenerateSimpleLowCounts(t *testing.T) {
	res, err := GenerateNamed("simple", Options{Detail: DetailLow, Rand: NewSource(7)})
	require.NoError(t, err)

	assert.Equal(t, 10, res.Stats.Segments)
	assert.Equal(t, 3, res.Stats.Rings)
	assert.Equal(t, 31, res.Stats.RawVertices)
	assert.Equal(t, 10, res.Stats.BaseTriangles)
	assert.Equal(t, 160, res.Stats.Triangles)
	assert.Equal(t, 160, res.Mesh.TriangleCount())
	require.NoError(t, res.Mesh.Validate())
}

func TestGenerateDetailScalesSegments(t *testing.T) {
	for _, tt := range []struct {
		detail Detail
		want   int
	}{{DetailLow, 10}, {DetailMedium, 20}, {DetailHigh, 30}} {
		res, err := GenerateNamed("simple", Options{Detail: tt.detail})
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Stats.Segments, tt.detail.String())
		assert.Equal(t, tt.want*3+1, res.Stats.RawVertices)
		assert.Equal(t, tt.want*16, res.Stats.Triangles)
	}
}

func TestGenerateOnlyInnerRingIsTriangulated(t *testing.T) {
	res, err := GenerateNamed("simple", Options{})
	require.NoError(t, err)

	outer := make(map[int]bool)
	for _, r := range res.Rings[:len(res.Rings)-1] {
		for _, idx := range r.Indices {
			outer[idx] = true
		}
	}
	require.Len(t, outer, 20)
	for i, idx := range res.Mesh.Indices {
		assert.False(t, outer[int(idx)], "index %d references an outer ring vertex", i)
	}
}

func TestGenerateRingParameters(t *testing.T) {
	res, err := GenerateNamed("simple", Options{})
	require.NoError(t, err)
	ts := make([]float64, len(res.Rings))
	for i, r := range res.Rings {
		ts[i] = r.T
	}
	assert.InDeltaSlice(t, []float64{0, 1.0 / 3, 2.0 / 3}, ts, 1e-12)
	assert.Equal(t, 30, res.Center)
}

func TestGenerateInclusiveSpacingCollapsesLastRing(t *testing.T) {
	res, err := GenerateNamed("simple", Options{Spacing: SpacingInclusive})
	require.NoError(t, err)

	last := res.Rings[len(res.Rings)-1]
	assert.Equal(t, 1.0, last.T)
	for _, p := range last.Points {
		assert.Equal(t, 0.0, p[0])
		assert.Equal(t, 0.0, p[1])
	}
	assert.Less(t, res.Stats.RawVertices, 31)
	assert.Equal(t, 10, res.Stats.BaseTriangles)
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	a, err := GenerateNamed("oak", Options{Rand: NewSource(42)})
	require.NoError(t, err)
	b, err := GenerateNamed("oak", Options{Rand: NewSource(42)})
	require.NoError(t, err)
	c, err := GenerateNamed("oak", Options{Rand: NewSource(43)})
	require.NoError(t, err)

	da, err := a.Mesh.Digest()
	require.NoError(t, err)
	db, _ := b.Mesh.Digest()
	dc, _ := c.Mesh.Digest()
	assert.Equal(t, da, db)
	assert.NotEqual(t, da, dc)
}

func TestGenerateNormalsAreUnit(t *testing.T) {
	res, err := GenerateNamed("maple", Options{Rotation: 0.7, Bend: 0.3, Position: mathutil.Vec3{1, 2, 3}})
	require.NoError(t, err)
	for i := 0; i < res.Mesh.VertexCount(); i++ {
		assert.InDelta(t, 1.0, res.Mesh.Normal(i).Len(), 1e-9)
	}
}

func TestGenerateColorsAreGreen(t *testing.T) {
	res, err := GenerateNamed("birch", Options{})
	require.NoError(t, err)
	for i := 0; i < res.Mesh.VertexCount(); i++ {
		c := res.Mesh.Color(i)
		assert.Greater(t, c[1], c[0])
		assert.Greater(t, c[1], c[2])
	}
}

func TestGenerateTransformMovesCenter(t *testing.T) {
	pos := mathutil.Vec3{3, -1, 2}
	res, err := GenerateNamed("simple", Options{Position: pos, Rotation: math.Pi / 2, Bend: 0.5})
	require.NoError(t, err)
	got := res.Mesh.Position(res.Center)
	assert.InDeltaSlice(t, pos[:], got[:], 1e-12)
}

func TestInstanceMatrixBendsBeforeRotating(t *testing.T) {
	m := InstanceMatrix(mathutil.Vec3{}, math.Pi/2, 1)
	got := m.MulPoint(mathutil.Vec3{0, 1, 0})
	// bend lifts z by y, then the rotation turns +y into -x
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, got[:], 1e-12)
}

func TestGenerateRejectsBadTemplate(t *testing.T) {
	_, err := Generate(Template{Name: "bad", OutlineCode: "A", Segments: 2, Length: 1}, Options{})
	assert.Error(t, err)
	_, err = Generate(Template{Name: "bad", OutlineCode: "a", Segments: 8, Length: 1}, Options{})
	assert.Error(t, err)
	_, err = GenerateNamed("baobab", Options{})
	assert.Error(t, err)
}

func TestBuiltinsAreValid(t *testing.T) {
	names := BuiltinNames()
	assert.Equal(t, []string{"birch", "fern", "maple", "oak", "simple", "willow"}, names)
	for _, n := range names {
		tpl, ok := Builtin(n)
		require.True(t, ok)
		assert.NoError(t, tpl.Validate(), n)
		assert.Equal(t, n, tpl.Name)
	}
}

func TestParseDetailAndSpacing(t *testing.T) {
	d, err := ParseDetail("high")
	require.NoError(t, err)
	assert.Equal(t, DetailHigh, d)
	_, err = ParseDetail("ultra")
	assert.Error(t, err)

	s, err := ParseSpacing("inclusive")
	require.NoError(t, err)
	assert.Equal(t, SpacingInclusive, s)
	_, err = ParseSpacing("sideways")
	assert.Error(t, err)
}

func TestCluster(t *testing.T) {
	tpl, _ := Builtin("simple")
	opts := ClusterOptions{
		Count:     5,
		Direction: mathutil.Vec3{0, 0, 2},
		Spacing:   0.5,
		Radius:    0.3,
		Leaf:      Options{Rand: NewSource(9)},
	}
	res, err := Cluster(tpl, opts)
	require.NoError(t, err)
	require.Len(t, res.Placements, 5)
	assert.Equal(t, 5*160, res.Mesh.TriangleCount())
	require.NoError(t, res.Mesh.Validate())

	for i, pl := range res.Placements {
		assert.InDelta(t, float64(i)*0.5, pl.Position[2], 1e-12)
		assert.InDelta(t, 0.3, math.Hypot(pl.Position[0], pl.Position[1]), 1e-12)
	}

	opts.Leaf.Rand = NewSource(9)
	again, err := Cluster(tpl, opts)
	require.NoError(t, err)
	if diff := cmp.Diff(res.Placements, again.Placements); diff != "" {
		t.Errorf("placements not reproducible (-first +second):\n%s", diff)
	}

	empty, err := Cluster(tpl, ClusterOptions{})
	require.NoError(t, err)
	assert.True(t, empty.Mesh.IsEmpty())
}
