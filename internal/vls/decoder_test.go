package vls

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

func positions(b *mesh.Buffer) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, b.VertexCount())
	for i := range out {
		out[i] = b.Position(i)
	}
	return out
}

func warningCodes(ws []Warning) []WarningCode {
	out := make([]WarningCode, len(ws))
	for i, w := range ws {
		out[i] = w.Code
	}
	return out
}

func TestDecodeAxisSequence(t *testing.T) {
	res := Decode("A-B-C")

	want := []mathutil.Vec3{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}}
	if diff := cmp.Diff(want, positions(res.Mesh)); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []uint32{0, 1, 2}, res.Mesh.Indices)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, mathutil.Vec3{1, 0, 0}, res.Final.Position)
	assert.Equal(t, 3, res.Final.VertexCount)
	require.NoError(t, res.Mesh.Validate())
}

func TestDecodeScaleAffectsAxisOps(t *testing.T) {
	res := Decode("M-C-N-N-E")
	want := []mathutil.Vec3{{2, 0, 0}, {2, 0.5, 0}}
	if diff := cmp.Diff(want, positions(res.Mesh)); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0.5, res.Final.Scale)
}

func TestDecodeScaleArgument(t *testing.T) {
	assert.Equal(t, 3.0, Decode("M3").Final.Scale)
	assert.Equal(t, 0.25, Decode("N4").Final.Scale)

	res := Decode("M0")
	assert.Equal(t, 1.0, res.Final.Scale)
	assert.Equal(t, []WarningCode{WarnInvalidArgument}, warningCodes(res.Warnings))
}

func TestDecodePowerNotation(t *testing.T) {
	res := Decode("A^4")
	require.Len(t, res.Mesh.Log, 1)
	entry := res.Mesh.Log[0]
	require.Len(t, entry.Vertices, 5)

	first := res.Mesh.Position(entry.Vertices[0])
	last := res.Mesh.Position(entry.Vertices[4])
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, first)
	assert.Equal(t, mathutil.Vec3{0, 0, 1}, last)
	assert.Equal(t, 5, res.Mesh.VertexCount())
	assert.Equal(t, last, res.Final.Position)
}

func TestDecodeSubtractivePowerHalves(t *testing.T) {
	res := Decode("C-C--C^2")
	// cursor is (2,0,0); C ends at (3,0,0); halved nodes (1,0,0) .. (1.5,0,0)
	entry := res.Mesh.Log[2]
	require.Len(t, entry.Vertices, 3)
	assert.Equal(t, mathutil.Vec3{1, 0, 0}, res.Mesh.Position(entry.Vertices[0]))
	assert.Equal(t, mathutil.Vec3{1.5, 0, 0}, res.Mesh.Position(entry.Vertices[2]))
	assert.Contains(t, entry.Note, "halved")
	assert.False(t, res.Final.Additive)
}

func TestDecodeSignIsSticky(t *testing.T) {
	res := Decode("-C^1-C^1-+C^1")
	notes := []string{res.Mesh.Log[0].Note, res.Mesh.Log[1].Note, res.Mesh.Log[2].Note}
	assert.Equal(t, []string{"halved", "halved", ""}, notes)
	assert.True(t, res.Final.Additive)
}

func TestDecodePowerClamp(t *testing.T) {
	res := NewDecoder(Options{MaxPowerNodes: 10}).Decode("C^100000")
	assert.Equal(t, 11, res.Mesh.VertexCount())
	assert.Equal(t, []WarningCode{WarnPowerClamped}, warningCodes(res.Warnings))
}

func TestDecodeWeldsRepeatedPositions(t *testing.T) {
	res := Decode("A-B-A")
	assert.Equal(t, 2, res.Mesh.VertexCount())
	assert.Equal(t, []int{0}, res.Mesh.Log[0].Vertices)
	assert.Equal(t, []int{0}, res.Mesh.Log[2].Vertices)
}

func TestDecodeUnimplementedSingleIsInert(t *testing.T) {
	res := Decode("C-Q1")
	assert.Equal(t, mathutil.Vec3{1, 0, 0}, res.Final.Position)
	assert.Equal(t, 1, res.Mesh.VertexCount())
	require.Len(t, res.Mesh.Log, 2)
	assert.Equal(t, "Q1", res.Mesh.Log[1].Chunk)
	assert.Equal(t, "inert", res.Mesh.Log[1].Effect)
	assert.Equal(t, "extrude", res.Mesh.Log[1].Note)
	assert.Equal(t, []WarningCode{WarnUnimplemented}, warningCodes(res.Warnings))
}

func TestDecodeRotationIsInert(t *testing.T) {
	res := Decode("O-O30-P-C")
	assert.Equal(t, 30.0, res.Final.Rotation)
	assert.Equal(t, mathutil.Vec3{1, 0, 0}, res.Final.Position)
}

func TestDecodeReset(t *testing.T) {
	res := Decode("I-K-Z-A")
	assert.Equal(t, mathutil.Vec3{0, 0, 1}, res.Final.Position)
	assert.Equal(t, 3, res.Mesh.VertexCount())
}

func TestDecodeDoubleOps(t *testing.T) {
	res := Decode("XY")
	assert.Equal(t, []mathutil.Vec3{{1, 1, 0}}, positions(res.Mesh))

	res = Decode("SC")
	assert.Equal(t, SpiralSegments, res.Mesh.VertexCount())

	res = Decode("M-BZ")
	assert.Equal(t, BezierSamples, res.Mesh.VertexCount())
	assert.Equal(t, mathutil.Vec3{2, 0, 2}, res.Final.Position)

	res = Decode("BS-CH")
	assert.Equal(t, 0, res.Mesh.VertexCount())
	assert.Equal(t, []WarningCode{WarnUnimplemented, WarnUnimplemented}, warningCodes(res.Warnings))
}

func TestDecodeTripleIsTagOnly(t *testing.T) {
	res := Decode("SUB")
	assert.Equal(t, 0, res.Mesh.VertexCount())
	require.Len(t, res.Mesh.Log, 1)
	assert.Equal(t, "tagged", res.Mesh.Log[0].Effect)
	assert.Equal(t, []WarningCode{WarnStructural}, warningCodes(res.Warnings))
}

func TestDecodeMaterial(t *testing.T) {
	res := Decode("m0.8r0.4a[#654321]")
	want := map[string]any{"metallic": 0.8, "roughness": 0.4, "color": "#654321"}
	if diff := cmp.Diff(want, res.Mesh.Materials); diff != "" {
		t.Errorf("materials mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, res.Warnings)
}

func TestDecodeMaterialsMerge(t *testing.T) {
	res := Decode("m0.1-C-r0.5m0.9n1")
	want := map[string]any{"metallic": 0.9, "roughness": 0.5, "normalMap": true}
	if diff := cmp.Diff(want, res.Mesh.Materials); diff != "" {
		t.Errorf("materials mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeLightingAppends(t *testing.T) {
	res := Decode("1[0.5,-1,0]-C-2[1,1,1]3[]")
	want := []mesh.Light{
		{Type: 1, Params: []float64{0.5, -1, 0}},
		{Type: 2, Params: []float64{1, 1, 1}},
		{Type: 3, Params: []float64{}},
	}
	if diff := cmp.Diff(want, res.Mesh.Lights); diff != "" {
		t.Errorf("lights mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeUnknownIsFailOpen(t *testing.T) {
	res := Decode("C-ABC-C")
	assert.Equal(t, 2, res.Mesh.VertexCount())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnUnknownToken, res.Warnings[0].Code)
	assert.Equal(t, 1, res.Warnings[0].Index)
}

func TestDecodeTrailingSeparator(t *testing.T) {
	res := Decode("C-A-")
	assert.Equal(t, Decode("C-A").Mesh.VertexCount(), res.Mesh.VertexCount())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnDanglingSign, res.Warnings[0].Code)
	assert.Equal(t, 2, res.Warnings[0].Index)
}

func TestDecodeNeverBreaksAlignment(t *testing.T) {
	inputs := []string{
		"",
		"-",
		"----",
		"^^^",
		"[[[",
		"]]]-A",
		"a[#zzzzzz]",
		"a0.5",
		"m[#123456]",
		"x5y6",
		"9[",
		"9[1,x]",
		"A^-3",
		"A^99999999999999999999",
		"ZZZZ-A-??-B^2-SC-SA-BZ9-UNI",
		"🌿-A",
		"+",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var res Result
			require.NotPanics(t, func() { res = Decode(in) })
			require.NoError(t, res.Mesh.Validate())
		})
	}
}

func TestDecodeNormalsUnitLength(t *testing.T) {
	res := Decode("A-C-B-SA")
	for i := 0; i < res.Mesh.VertexCount(); i++ {
		assert.InDelta(t, 1.0, res.Mesh.Normal(i).Len(), 1e-9)
	}
}

func TestDecodeWeldTolerance(t *testing.T) {
	// the second C moves the cursor by 0.5^20, past the sixth decimal
	prog := "C-" + strings.Repeat("N-", 20) + "C"
	exact := Decode(prog)
	loose := NewDecoder(Options{WeldTolerance: 1e-3}).Decode(prog)
	assert.Equal(t, 2, exact.Mesh.VertexCount())
	assert.Equal(t, 1, loose.Mesh.VertexCount())
}

func TestWarningSuggestions(t *testing.T) {
	tests := []struct {
		chunk string
		want  string
	}{
		{"UN", "UNI"},
		{"BZZ", "BZ"},
		{"su", "SUB"},
		{"#####", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, suggest(tt.chunk), tt.chunk)
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Index: 2, Chunk: "UN", Code: WarnUnknownToken, Message: "unrecognized chunk", Suggestion: "UNI"}
	assert.Equal(t, `chunk 2 "UN": unknown-token: unrecognized chunk (did you mean "UNI"?)`, w.String())
}
