package leaf

import (
	"fmt"
	"math"

	"vls-mesh/internal/mathutil"
)

// OutlineOp is one signed letter of an outline code.
type OutlineOp struct {
	Letter byte
	Inward bool // '-' prefix
}

// Magnitude is the relative radius change: '+' (the default) extends by
// (c-65)*0.02, '-' pulls in by (c-65)*0.01.
func (o OutlineOp) Magnitude() float64 {
	c := float64(o.Letter) - 65
	if o.Inward {
		return -c * 0.01
	}
	return c * 0.02
}

// Modifier maps the letter onto [0,1) for ruffling phase.
func (o OutlineOp) Modifier() float64 {
	return (float64(o.Letter) - 65) / 26
}

// ParseOutline reads "[+|-]?<A-Z>" repeated, e.g. "A+B-C".
func ParseOutline(code string) ([]OutlineOp, error) {
	var ops []OutlineOp
	inward, signed := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '+' || c == '-':
			if signed {
				return nil, fmt.Errorf("outline %q: two signs at %d", code, i)
			}
			inward, signed = c == '-', true
		case c >= 'A' && c <= 'Z':
			ops = append(ops, OutlineOp{Letter: c, Inward: inward})
			inward, signed = false, false
		default:
			return nil, fmt.Errorf("outline %q: unexpected %q at %d", code, c, i)
		}
	}
	if signed {
		return nil, fmt.Errorf("outline %q: trailing sign", code)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("outline %q: no letters", code)
	}
	return ops, nil
}

// OutlinePoint is one sample of the flat outline polygon.
type OutlinePoint struct {
	Pos   mathutil.Vec3
	Angle float64
	Op    OutlineOp
}

// Outline walks the full circle in segments steps, reading ops cyclically.
// The width term is added to x only; it is not radial.
func Outline(ops []OutlineOp, segments int, length, width float64) []OutlinePoint {
	pts := make([]OutlinePoint, segments)
	for i := range pts {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		op := ops[i%len(ops)]
		r := length * (1 + op.Magnitude())
		pts[i] = OutlinePoint{
			Pos: mathutil.Vec3{
				math.Cos(angle)*r + math.Sin(angle)*width,
				math.Sin(angle) * r,
				0,
			},
			Angle: angle,
			Op:    op,
		}
	}
	return pts
}
