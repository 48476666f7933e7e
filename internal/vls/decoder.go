// Package vls decodes Vertex Language System programs into mesh buffers.
//
// A program is a '-' separated list of chunks. Each chunk is an operation
// code (optionally signed, optionally with a numeric argument), power
// notation "<code>^<N>", a lowercase material descriptor or a digit-led
// lighting descriptor. Decoding is fail-open: chunks that cannot be applied
// are skipped and reported as Warnings, never as errors.
package vls

import (
	"fmt"
	"log/slog"

	"vls-mesh/internal/logging"
	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
	"vls-mesh/internal/ops"
)

// DefaultMaxPowerNodes bounds N in power notation.
const DefaultMaxPowerNodes = 1024

// Options tunes a Decoder.
type Options struct {
	// MaxPowerNodes caps N in "<code>^<N>". Larger counts are clamped and
	// reported. Zero means DefaultMaxPowerNodes.
	MaxPowerNodes int
	// WeldTolerance > 0 switches from exact 6-decimal welding to distance
	// based welding.
	WeldTolerance float64
}

// DefaultOptions returns the options used by Decode.
func DefaultOptions() Options {
	return Options{MaxPowerNodes: DefaultMaxPowerNodes}
}

// State is the cursor carried from chunk to chunk during one decode.
type State struct {
	Position mathutil.Vec3
	Scale    float64
	Rotation float64 // degrees; tracked but never applied to positions
	Additive bool    // sticky until a chunk carries an explicit sign
	// VertexCount is the number of distinct vertices emitted so far.
	VertexCount int
}

func initialState() State {
	return State{Scale: 1, Additive: true}
}

// Result is the outcome of one decode. Mesh ownership passes to the caller.
type Result struct {
	Mesh     *mesh.Buffer
	Warnings []Warning
	Tokens   []Token
	Final    State
}

// Decoder decodes programs with fixed options. It holds no per-call state
// and may be shared between goroutines.
type Decoder struct {
	opts Options
}

// NewDecoder returns a Decoder with opts, filling zero fields with defaults.
func NewDecoder(opts Options) *Decoder {
	if opts.MaxPowerNodes <= 0 {
		opts.MaxPowerNodes = DefaultMaxPowerNodes
	}
	return &Decoder{opts: opts}
}

// Decode decodes program with DefaultOptions.
func Decode(program string) Result {
	return NewDecoder(DefaultOptions()).Decode(program)
}

// run is the per-call decode state.
type run struct {
	opts     Options
	state    State
	buf      *mesh.Buffer
	bld      *mesh.Builder
	warnings []Warning
	log      *slog.Logger
}

// Decode walks program left to right and returns the resulting mesh.
// Parallel arrays stay index-aligned whatever the input.
func (d *Decoder) Decode(program string) Result {
	buf := mesh.New()
	r := &run{
		opts:  d.opts,
		state: initialState(),
		buf:   buf,
		bld:   mesh.NewBuilder(buf, mesh.NewWelder(d.opts.WeldTolerance)),
		log:   logging.Logger(),
	}

	toks := Tokenize(program)
	for _, tok := range toks {
		r.apply(tok)
	}

	mesh.FanFromFirst(buf)
	mesh.RecomputeNormals(buf)

	r.log.Debug("vls: decoded",
		"chunks", len(toks),
		"vertices", buf.VertexCount(),
		"triangles", buf.TriangleCount(),
		"warnings", len(r.warnings))

	return Result{Mesh: buf, Warnings: r.warnings, Tokens: toks, Final: r.state}
}

func (r *run) warn(tok Token, code WarningCode, format string, args ...any) {
	w := Warning{Index: tok.Index, Chunk: tok.Raw, Code: code, Message: fmt.Sprintf(format, args...)}
	if code == WarnUnknownToken {
		w.Suggestion = suggest(tok.Body)
	}
	r.warnings = append(r.warnings, w)
	r.log.Warn("vls: "+w.Message, "chunk", tok.Raw, "index", tok.Index, "code", code.String())
}

func (r *run) record(tok Token, effect string, verts []int, note string) {
	r.buf.Log = append(r.buf.Log, mesh.LogEntry{
		Index:    tok.Index,
		Chunk:    tok.Raw,
		Category: tok.Category.String(),
		Code:     tok.Code,
		Effect:   effect,
		Vertices: verts,
		Note:     note,
	})
}

// emit appends points through the weld table and moves the cursor to the
// last one.
func (r *run) emit(points []mathutil.Vec3) []int {
	idx := make([]int, 0, len(points))
	for _, p := range points {
		i, _ := r.bld.AddVertex(p, p[0], p[1], mesh.White)
		idx = append(idx, i)
	}
	if len(points) > 0 {
		r.state.Position = points[len(points)-1]
	}
	r.state.VertexCount = r.buf.VertexCount()
	return idx
}

func (r *run) apply(tok Token) {
	switch tok.Sign {
	case SignAdditive:
		r.state.Additive = true
	case SignSubtractive:
		r.state.Additive = false
	}
	r.log.Debug("vls: chunk", "index", tok.Index, "chunk", tok.Raw, "category", tok.Category.String())

	switch tok.Category {
	case CategoryEmpty:
		r.warn(tok, WarnDanglingSign, "sign %q has no chunk to apply to", tok.Sign.String())
		r.record(tok, "skipped", nil, "dangling sign")
	case CategoryPower:
		r.applyPower(tok)
	case CategoryTriple:
		r.warn(tok, WarnStructural, "%s is a structural tag with no geometry", tok.Spec.Intent)
		r.record(tok, "tagged", nil, tok.Spec.Intent)
	case CategoryDouble:
		r.applyDouble(tok)
	case CategorySingle:
		r.applySingle(tok)
	case CategoryMaterial:
		r.applyMaterial(tok)
	case CategoryLighting:
		r.applyLighting(tok)
	default:
		r.warn(tok, WarnUnknownToken, "unrecognized chunk")
		r.record(tok, "skipped", nil, "unknown")
	}
}

func (r *run) applyPower(tok Token) {
	if tok.Problem != "" {
		r.warn(tok, WarnMalformedPower, "%s", tok.Problem)
		r.record(tok, "skipped", nil, tok.Problem)
		return
	}
	if _, ok := ops.Lookup(tok.Code); !ok {
		r.warn(tok, WarnUnknownToken, "power code %q is not registered; nodes stay at the cursor", tok.Code)
	}
	n := tok.Count
	note := ""
	if n > r.opts.MaxPowerNodes {
		r.warn(tok, WarnPowerClamped, "count %d clamped to %d", n, r.opts.MaxPowerNodes)
		note = fmt.Sprintf("clamped from %d", n)
		n = r.opts.MaxPowerNodes
	}
	nodes := InterpolateNodes(r.state.Position, tok.Code, n, r.state.Additive)
	if !r.state.Additive {
		note = joinNote(note, "halved")
	}
	r.record(tok, "interpolated", r.emit(nodes), note)
}

func (r *run) applyDouble(tok Token) {
	s := tok.Spec
	st := &r.state
	switch s.Kind {
	case ops.KindCurve:
		var pts []mathutil.Vec3
		switch s.Curve {
		case ops.CurveDiagonal:
			pts = []mathutil.Vec3{st.Position.Add(s.Offset.Scale(st.Scale))}
		case ops.CurveSpiralCW:
			pts = Spiral(st.Position, st.Scale, false)
		case ops.CurveSpiralCCW:
			pts = Spiral(st.Position, st.Scale, true)
		case ops.CurveBezier:
			tension := s.Factor
			if tok.HasArg {
				tension = tok.Arg
			}
			pts = BezierProfile(st.Position, st.Scale, tension)
		}
		r.record(tok, s.Curve.String(), r.emit(pts), "")
	case ops.KindUnimplemented:
		r.warn(tok, WarnUnimplemented, "%s is declared but not implemented", s.Intent)
		r.record(tok, "inert", nil, s.Intent)
	default:
		r.warn(tok, WarnUnimplemented, "%s has no double-code behavior", s.Kind)
		r.record(tok, "inert", nil, s.Kind.String())
	}
}

func (r *run) applySingle(tok Token) {
	s := tok.Spec
	st := &r.state
	switch s.Kind {
	case ops.KindAxis:
		p := st.Position.Add(s.Offset.Scale(st.Scale))
		r.record(tok, "move", r.emit([]mathutil.Vec3{p}), "")
	case ops.KindScale:
		factor := s.Factor
		if tok.HasArg {
			if tok.Arg <= 0 {
				r.warn(tok, WarnInvalidArgument, "scale argument must be positive, got %g", tok.Arg)
				r.record(tok, "skipped", nil, "invalid argument")
				return
			}
			factor = tok.Arg
			if s.Factor < 1 {
				factor = 1 / tok.Arg
			}
		}
		st.Scale *= factor
		r.record(tok, "scale", nil, fmt.Sprintf("scale=%g", st.Scale))
	case ops.KindRotate:
		delta := s.Factor
		if tok.HasArg {
			delta = tok.Arg
			if s.Factor < 0 {
				delta = -tok.Arg
			}
		}
		st.Rotation += delta
		r.record(tok, "rotate", nil, fmt.Sprintf("rotation=%g (not applied to positions)", st.Rotation))
	case ops.KindReset:
		st.Position = mathutil.Origin
		r.record(tok, "reset", nil, "")
	case ops.KindUnimplemented:
		r.warn(tok, WarnUnimplemented, "%s is declared but not implemented", s.Intent)
		r.record(tok, "inert", nil, s.Intent)
	default:
		r.warn(tok, WarnUnimplemented, "%s has no single-code behavior", s.Kind)
		r.record(tok, "inert", nil, s.Kind.String())
	}
}

func (r *run) applyMaterial(tok Token) {
	props, problems := ParseMaterial(tok.Body)
	for _, p := range problems {
		r.warn(tok, WarnMalformedMaterial, "%s", p)
	}
	for k, v := range props {
		r.buf.Materials[k] = v
	}
	r.record(tok, "material", nil, fmt.Sprintf("%d properties", len(props)))
}

func (r *run) applyLighting(tok Token) {
	lights, problems := ParseLighting(tok.Body)
	for _, p := range problems {
		r.warn(tok, WarnMalformedLighting, "%s", p)
	}
	r.buf.Lights = append(r.buf.Lights, lights...)
	r.record(tok, "lighting", nil, fmt.Sprintf("%d lights", len(lights)))
}

func joinNote(a, b string) string {
	if a == "" {
		return b
	}
	return a + ", " + b
}
