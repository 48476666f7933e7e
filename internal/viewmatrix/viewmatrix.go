// Package viewmatrix picks the camera rotation used for mesh previews.
package viewmatrix

import (
	"fmt"
	"sort"

	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

// View names accepted by For.
const (
	Auto         = "auto"
	ThreeQuarter = "three-quarter"
	Top          = "top"
	Front        = "front"
	Side         = "side"
)

var (
	// TiltedTop looks down Z, spun and tilted slightly so relief reads.
	TiltedTop = mathutil.Mat3Mul(mathutil.RotX(mathutil.Deg2Rad(-30)), mathutil.RotZ(mathutil.Deg2Rad(20)))

	// TiltedSide faces the YZ plane.
	TiltedSide = mathutil.Mat3Mul(mathutil.PreviewView, mathutil.RotZ(mathutil.Deg2Rad(90)))
)

var named = map[string]mathutil.Mat3{
	ThreeQuarter: mathutil.PreviewView,
	Top:          mathutil.TopView,
	Front:        mathutil.ModelFlip,
	Side:         mathutil.Mat3Mul(mathutil.ModelFlip, mathutil.RotZ(mathutil.Deg2Rad(90))),
}

// Names returns every accepted view name, sorted.
func Names() []string {
	out := []string{Auto}
	for n := range named {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Named returns a fixed view. Auto is not a fixed view.
func Named(name string) (mathutil.Mat3, bool) {
	m, ok := named[name]
	return m, ok
}

// For resolves name against b. An empty name means Auto.
func For(name string, b *mesh.Buffer) (mathutil.Mat3, error) {
	if name == "" || name == Auto {
		return AutoView(b), nil
	}
	if m, ok := named[name]; ok {
		return m, nil
	}
	return mathutil.Mat3{}, fmt.Errorf("viewmatrix: unknown view %q", name)
}

// AutoView routes by the flattest bounding-box axis so planar meshes are
// never drawn edge-on. Ties and empty meshes get the three-quarter view.
func AutoView(b *mesh.Buffer) mathutil.Mat3 {
	lo, hi := b.Bounds()
	ext := hi.Sub(lo)
	switch FlattestAxis(ext) {
	case 0:
		return TiltedSide
	case 2:
		return TiltedTop
	}
	return mathutil.PreviewView
}

// FlattestAxis returns the index of the strictly smallest extent, or 1 when
// no single axis is smallest.
func FlattestAxis(ext mathutil.Vec3) int {
	best := 0
	for k := 1; k < 3; k++ {
		if ext[k] < ext[best] {
			best = k
		}
	}
	for k := 0; k < 3; k++ {
		if k != best && ext[k] == ext[best] {
			return 1
		}
	}
	return best
}
