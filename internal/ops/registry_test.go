package ops

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vls-mesh/internal/mathutil"
)

func TestSingleAxisTable(t *testing.T) {
	tests := []struct {
		code string
		want mathutil.Vec3
	}{
		{"A", mathutil.Vec3{0, 0, 1}},
		{"B", mathutil.Vec3{0, 0, -1}},
		{"C", mathutil.Vec3{1, 0, 0}},
		{"D", mathutil.Vec3{-1, 0, 0}},
		{"E", mathutil.Vec3{0, 1, 0}},
		{"F", mathutil.Vec3{0, -1, 0}},
		{"G", mathutil.Vec3{0, 0, 2}},
		{"H", mathutil.Vec3{0, 0, -2}},
		{"I", mathutil.Vec3{2, 0, 0}},
		{"J", mathutil.Vec3{-2, 0, 0}},
		{"K", mathutil.Vec3{0, 2, 0}},
		{"L", mathutil.Vec3{0, -2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			s, ok := Single(tt.code)
			require.True(t, ok)
			assert.Equal(t, KindAxis, s.Kind)
			if diff := cmp.Diff(tt.want, s.Offset); diff != "" {
				t.Errorf("offset mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEveryUppercaseLetterIsDeclared(t *testing.T) {
	for c := 'A'; c <= 'Z'; c++ {
		_, ok := Single(string(c))
		assert.True(t, ok, "letter %c", c)
	}
}

func TestUnimplementedEntriesAreExplicit(t *testing.T) {
	for _, code := range []string{"Q", "R", "BS", "BR", "CH"} {
		s, ok := Lookup(code)
		require.True(t, ok, code)
		assert.Equal(t, KindUnimplemented, s.Kind, code)
		assert.False(t, s.Implemented(), code)
		assert.NotEmpty(t, s.Intent, code)
	}
}

func TestTripleCodesAreStructural(t *testing.T) {
	for _, code := range []string{"UNI", "SUB", "INT", "ARR"} {
		s, ok := Triple(code)
		require.True(t, ok, code)
		assert.Equal(t, KindStructural, s.Kind)
	}
}

func TestCurveEntries(t *testing.T) {
	s, ok := Double("SC")
	require.True(t, ok)
	assert.Equal(t, CurveSpiralCW, s.Curve)

	s, ok = Double("BZ")
	require.True(t, ok)
	assert.Equal(t, CurveBezier, s.Curve)
	assert.Equal(t, 0.5, s.Factor)
}

func TestLookupRejectsOtherLengths(t *testing.T) {
	_, ok := Lookup("")
	assert.False(t, ok)
	_, ok = Lookup("ABCD")
	assert.False(t, ok)
}

func TestCodesSortedAndComplete(t *testing.T) {
	codes := Codes()
	assert.Len(t, codes, len(single)+len(double)+len(triple))
	assert.IsNonDecreasing(t, codes)
	assert.Len(t, All(), len(codes))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "axis", KindAxis.String())
	assert.Equal(t, "unimplemented", KindUnimplemented.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.Equal(t, "spiral-ccw", CurveSpiralCCW.String())
}
