package mesh

import (
	"math"

	"vls-mesh/internal/mathutil"
)

// Welder maps positions to existing vertex indices.
type Welder interface {
	// Find returns the index of a previously inserted vertex matching p.
	Find(p mathutil.Vec3) (int, bool)
	// Insert records p as vertex idx.
	Insert(p mathutil.Vec3, idx int)
}

// NewWelder returns an ExactWelder when tolerance <= 0 and a
// ToleranceWelder otherwise.
func NewWelder(tolerance float64) Welder {
	if tolerance <= 0 {
		return NewExactWelder()
	}
	return NewToleranceWelder(tolerance)
}

// WeldKey is a position rounded to 6 decimals.
type WeldKey [3]int64

// KeyOf quantizes p to 6 decimals. Values that differ past the sixth decimal
// after rounding get different keys; there is no tolerance.
func KeyOf(p mathutil.Vec3) WeldKey {
	return WeldKey{quantize(p[0]), quantize(p[1]), quantize(p[2])}
}

func quantize(v float64) int64 {
	return int64(math.Round(v * 1e6))
}

// ExactWelder merges vertices whose 6-decimal keys are identical.
type ExactWelder struct {
	table map[WeldKey]int
}

func NewExactWelder() *ExactWelder {
	return &ExactWelder{table: make(map[WeldKey]int)}
}

func (w *ExactWelder) Find(p mathutil.Vec3) (int, bool) {
	idx, ok := w.table[KeyOf(p)]
	return idx, ok
}

func (w *ExactWelder) Insert(p mathutil.Vec3, idx int) {
	k := KeyOf(p)
	if _, ok := w.table[k]; !ok {
		w.table[k] = idx
	}
}

// Len returns the number of distinct keys.
func (w *ExactWelder) Len() int {
	return len(w.table)
}

// ToleranceWelder merges vertices closer than Tolerance using a spatial hash
// with cell size equal to the tolerance.
type ToleranceWelder struct {
	Tolerance float64
	cells     map[[3]int64][]tolEntry
}

type tolEntry struct {
	pos mathutil.Vec3
	idx int
}

func NewToleranceWelder(tolerance float64) *ToleranceWelder {
	return &ToleranceWelder{
		Tolerance: tolerance,
		cells:     make(map[[3]int64][]tolEntry),
	}
}

func (w *ToleranceWelder) cell(p mathutil.Vec3) [3]int64 {
	return [3]int64{
		int64(math.Floor(p[0] / w.Tolerance)),
		int64(math.Floor(p[1] / w.Tolerance)),
		int64(math.Floor(p[2] / w.Tolerance)),
	}
}

func (w *ToleranceWelder) Find(p mathutil.Vec3) (int, bool) {
	c := w.cell(p)
	best, bestDist := -1, math.Inf(1)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, e := range w.cells[[3]int64{c[0] + dx, c[1] + dy, c[2] + dz}] {
					d := e.pos.Sub(p).Len()
					if d <= w.Tolerance && d < bestDist {
						best, bestDist = e.idx, d
					}
				}
			}
		}
	}
	return best, best >= 0
}

func (w *ToleranceWelder) Insert(p mathutil.Vec3, idx int) {
	c := w.cell(p)
	w.cells[c] = append(w.cells[c], tolEntry{pos: p, idx: idx})
}

// Builder appends vertices to a Buffer through a Welder.
type Builder struct {
	Buf    *Buffer
	Welder Welder

	// Emitted counts AddVertex calls, welded or not.
	Emitted int
}

// NewBuilder wraps buf. A nil welder means exact welding.
func NewBuilder(buf *Buffer, w Welder) *Builder {
	if w == nil {
		w = NewExactWelder()
	}
	return &Builder{Buf: buf, Welder: w}
}

// AddVertex returns the index of an existing vertex at pos or appends a new
// one with the default normal. The second result is true when a new vertex
// was created.
func (b *Builder) AddVertex(pos mathutil.Vec3, u, v float64, color mathutil.Vec3) (int, bool) {
	b.Emitted++
	if idx, ok := b.Welder.Find(pos); ok {
		return idx, false
	}
	idx := b.Buf.AppendVertex(pos, DefaultNormal, u, v, color)
	b.Welder.Insert(pos, idx)
	return idx, true
}
