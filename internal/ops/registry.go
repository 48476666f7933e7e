// Package ops holds the static VLS operation tables.
//
// The tables map one-, two- and three-letter codes to their effect. They are
// built once at package init and never mutated, so lookups are safe from any
// number of goroutines.
package ops

import (
	"fmt"
	"sort"

	"vls-mesh/internal/mathutil"
)

// Kind is the effect class of an operation.
type Kind int

const (
	KindUnknown       Kind = iota // zero value, never in a table
	KindAxis                      // translate the cursor along one axis
	KindScale                     // multiply the cursor scale
	KindRotate                    // update rotation (tracked, never applied to positions)
	KindReset                     // move the cursor back to the origin
	KindCurve                     // emit a generated point sequence (see Curve)
	KindStructural                // tag only, no geometry
	KindUnimplemented             // declared, currently inert
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindAxis:          "axis",
	KindScale:         "scale",
	KindRotate:        "rotate",
	KindReset:         "reset",
	KindCurve:         "curve",
	KindStructural:    "structural",
	KindUnimplemented: "unimplemented",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Curve is the generator used by a KindCurve operation.
type Curve int

const (
	CurveNone Curve = iota
	CurveDiagonal
	CurveSpiralCW
	CurveSpiralCCW
	CurveBezier
)

var curveNames = [...]string{
	CurveNone:      "none",
	CurveDiagonal:  "diagonal",
	CurveSpiralCW:  "spiral-cw",
	CurveSpiralCCW: "spiral-ccw",
	CurveBezier:    "bezier",
}

func (c Curve) String() string {
	if int(c) >= 0 && int(c) < len(curveNames) {
		return curveNames[c]
	}
	return fmt.Sprintf("Curve(%d)", int(c))
}

// Spec is one registry entry.
//
// Offset is the unit displacement for KindAxis and CurveDiagonal entries.
// Factor is the default multiplier for KindScale and the default angle in
// degrees for KindRotate. Intent names what an unimplemented or structural
// entry is meant to do.
type Spec struct {
	Code        string
	Kind        Kind
	Curve       Curve
	Offset      mathutil.Vec3
	Factor      float64
	Intent      string
	Description string
}

// Implemented reports whether applying the entry can change decoder state.
func (s Spec) Implemented() bool {
	return s.Kind != KindUnimplemented && s.Kind != KindStructural
}

func axis(code string, x, y, z float64, desc string) Spec {
	return Spec{Code: code, Kind: KindAxis, Offset: mathutil.Vec3{x, y, z}, Description: desc}
}

func inert(code, intent string) Spec {
	return Spec{Code: code, Kind: KindUnimplemented, Intent: intent, Description: intent + " (not implemented)"}
}

func structural(code, intent string) Spec {
	return Spec{Code: code, Kind: KindStructural, Intent: intent, Description: intent + " tag"}
}

var single = index(
	axis("A", 0, 0, 1, "up 1"),
	axis("B", 0, 0, -1, "down 1"),
	axis("C", 1, 0, 0, "right 1"),
	axis("D", -1, 0, 0, "left 1"),
	axis("E", 0, 1, 0, "forward 1"),
	axis("F", 0, -1, 0, "back 1"),
	axis("G", 0, 0, 2, "up 2"),
	axis("H", 0, 0, -2, "down 2"),
	axis("I", 2, 0, 0, "right 2"),
	axis("J", -2, 0, 0, "left 2"),
	axis("K", 0, 2, 0, "forward 2"),
	axis("L", 0, -2, 0, "back 2"),
	Spec{Code: "M", Kind: KindScale, Factor: 2, Description: "scale up"},
	Spec{Code: "N", Kind: KindScale, Factor: 0.5, Description: "scale down"},
	Spec{Code: "O", Kind: KindRotate, Factor: 15, Description: "rotate clockwise"},
	Spec{Code: "P", Kind: KindRotate, Factor: -15, Description: "rotate counter-clockwise"},
	inert("Q", "extrude"),
	inert("R", "subdivide"),
	inert("S", "mirror"),
	inert("T", "taper"),
	inert("U", "twist"),
	inert("V", "bend"),
	inert("W", "weld"),
	inert("X", "smooth"),
	inert("Y", "inset"),
	Spec{Code: "Z", Kind: KindReset, Description: "reset to origin"},
)

var double = index(
	Spec{Code: "XY", Kind: KindCurve, Curve: CurveDiagonal, Offset: mathutil.Vec3{1, 1, 0}, Description: "diagonal x+y"},
	Spec{Code: "XZ", Kind: KindCurve, Curve: CurveDiagonal, Offset: mathutil.Vec3{1, 0, 1}, Description: "diagonal x+z"},
	Spec{Code: "YZ", Kind: KindCurve, Curve: CurveDiagonal, Offset: mathutil.Vec3{0, 1, 1}, Description: "diagonal y+z"},
	Spec{Code: "XN", Kind: KindCurve, Curve: CurveDiagonal, Offset: mathutil.Vec3{1, -1, 0}, Description: "diagonal x-y"},
	Spec{Code: "ZN", Kind: KindCurve, Curve: CurveDiagonal, Offset: mathutil.Vec3{-1, 0, 1}, Description: "diagonal z-x"},
	Spec{Code: "SC", Kind: KindCurve, Curve: CurveSpiralCW, Description: "spiral clockwise"},
	Spec{Code: "SA", Kind: KindCurve, Curve: CurveSpiralCCW, Description: "spiral counter-clockwise"},
	Spec{Code: "BZ", Kind: KindCurve, Curve: CurveBezier, Factor: 0.5, Description: "bezier height profile"},
	inert("BS", "bspline"),
	inert("BR", "bridge"),
	inert("BV", "bevel"),
	inert("BO", "boolean"),
	inert("CH", "chamfer"),
	inert("CR", "crease"),
	inert("LP", "loop"),
	inert("SM", "smooth"),
	inert("SK", "skin"),
	inert("LF", "loft"),
)

var triple = index(
	structural("UNI", "union"),
	structural("SUB", "subtract"),
	structural("INT", "intersect"),
	structural("ARR", "array"),
	structural("MIR", "mirror"),
	structural("LAT", "lattice"),
	structural("SWP", "sweep"),
	structural("REV", "revolve"),
)

func index(specs ...Spec) map[string]Spec {
	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		if _, dup := m[s.Code]; dup {
			panic("ops: duplicate code " + s.Code)
		}
		m[s.Code] = s
	}
	return m
}

// Single looks up a one-letter code.
func Single(code string) (Spec, bool) {
	s, ok := single[code]
	return s, ok
}

// Double looks up a two-letter code.
func Double(code string) (Spec, bool) {
	s, ok := double[code]
	return s, ok
}

// Triple looks up a three-letter code.
func Triple(code string) (Spec, bool) {
	s, ok := triple[code]
	return s, ok
}

// Lookup resolves a code of any length.
func Lookup(code string) (Spec, bool) {
	switch len(code) {
	case 1:
		return Single(code)
	case 2:
		return Double(code)
	case 3:
		return Triple(code)
	}
	return Spec{}, false
}

// Codes returns every registered code in sorted order.
func Codes() []string {
	out := make([]string, 0, len(single)+len(double)+len(triple))
	for _, m := range []map[string]Spec{single, double, triple} {
		for c := range m {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// All returns every registry entry sorted by code.
func All() []Spec {
	codes := Codes()
	out := make([]Spec, 0, len(codes))
	for _, c := range codes {
		s, _ := Lookup(c)
		out = append(out, s)
	}
	return out
}
