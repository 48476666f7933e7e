// Package filter drops stray geometry from meshes before previewing.
package filter

import (
	"math"

	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

// Components returns the connected vertex groups of b, joined by triangle
// edges. Vertices no triangle references are not part of any component.
func Components(b *mesh.Buffer) [][]int {
	n := b.VertexCount()
	adj := make(map[int][]int)
	for t := 0; t < b.TriangleCount(); t++ {
		i0, i1, i2 := b.Triangle(t)
		vi := [3]int{i0, i1, i2}
		for x := 0; x < 3; x++ {
			for y := x + 1; y < 3; y++ {
				va, vb := vi[x], vi[y]
				if va < 0 || va >= n || vb < 0 || vb >= n {
					continue
				}
				adj[va] = append(adj[va], vb)
				adj[vb] = append(adj[vb], va)
			}
		}
	}

	visited := make([]bool, n)
	var components [][]int
	for v := 0; v < n; v++ {
		if visited[v] || len(adj[v]) == 0 {
			continue
		}
		var comp []int
		stack := []int{v}
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[curr] {
				continue
			}
			visited[curr] = true
			comp = append(comp, curr)
			for _, nb := range adj[curr] {
				if !visited[nb] {
					stack = append(stack, nb)
				}
			}
		}
		components = append(components, comp)
	}
	return components
}

// FilterComponents removes small components lying away from the largest one.
// A component survives when it has at least minVerts vertices or its center
// falls within 0.4× the largest component's span of that component's box.
// The result shares vertex data with b; only Indices are rebuilt.
func FilterComponents(b *mesh.Buffer, minVerts int) *mesh.Buffer {
	if b.VertexCount() <= 2*minVerts || b.TriangleCount() == 0 {
		return b
	}
	components := Components(b)
	if len(components) <= 1 {
		return b
	}

	largestIdx := 0
	for i, c := range components {
		if len(c) > len(components[largestIdx]) {
			largestIdx = i
		}
	}
	largest := components[largestIdx]

	lMin := b.Position(largest[0])
	lMax := lMin
	for _, vi := range largest {
		p := b.Position(vi)
		for k := 0; k < 3; k++ {
			lMin[k] = math.Min(lMin[k], p[k])
			lMax[k] = math.Max(lMax[k], p[k])
		}
	}
	var lSpan float64
	for k := 0; k < 3; k++ {
		lSpan = math.Max(lSpan, lMax[k]-lMin[k])
	}

	keep := make([]bool, b.VertexCount())
	for i, comp := range components {
		if i != largestIdx && len(comp) < minVerts && !near(b, comp, lMin, lMax, lSpan) {
			continue
		}
		for _, vi := range comp {
			keep[vi] = true
		}
	}

	out := *b
	out.Indices = make([]uint32, 0, len(b.Indices))
	for t := 0; t < b.TriangleCount(); t++ {
		i0, i1, i2 := b.Triangle(t)
		if keep[i0] && keep[i1] && keep[i2] {
			out.Indices = append(out.Indices, uint32(i0), uint32(i1), uint32(i2))
		}
	}
	return &out
}

// near reports whether comp's center lies within 0.4·span of the box.
func near(b *mesh.Buffer, comp []int, lo, hi mathutil.Vec3, span float64) bool {
	var c [3]float64
	for _, vi := range comp {
		p := b.Position(vi)
		for k := 0; k < 3; k++ {
			c[k] += p[k]
		}
	}
	var distSq float64
	for k := 0; k < 3; k++ {
		c[k] /= float64(len(comp))
		switch {
		case c[k] < lo[k]:
			distSq += (lo[k] - c[k]) * (lo[k] - c[k])
		case c[k] > hi[k]:
			distSq += (c[k] - hi[k]) * (c[k] - hi[k])
		}
	}
	return distSq < span*span*0.16
}
