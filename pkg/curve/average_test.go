package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBLinearRoundTrip(t *testing.T) {
	for _, db := range []float64{-120, -60.5, -6, -3, 0, 0.25, 12} {
		assert.InDelta(t, db, LinearToDB(DBToLinear(db)), 1e-9, "db=%g", db)
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name   string
		curves []Curve
		want   []float64
	}{
		{
			name:   "single curve is identity",
			curves: []Curve{MustNew(pts(100, -3.7, 1000, -12.2, 5000, -41))},
			want:   []float64{-3.7, -12.2, -41},
		},
		{
			name: "identical curves",
			curves: []Curve{
				MustNew(pts(1000, -6)),
				MustNew(pts(1000, -6)),
			},
			want: []float64{-6},
		},
		{
			name: "power average favours the louder curve",
			curves: []Curve{
				MustNew(pts(1000, -3)),
				MustNew(pts(1000, -9)),
			},
			want: []float64{10 * math.Log10((math.Pow(10, -0.3)+math.Pow(10, -0.9))/2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Combine(tt.curves)
			require.NoError(t, err)
			assert.Equal(t, tt.curves[0].Frequencies(), got.Frequencies())
			require.Equal(t, len(tt.want), got.Len())
			for i, g := range got.Gains() {
				assert.InDelta(t, tt.want[i], g, 1e-9)
			}
		})
	}
}

func TestCombine_MinusThreeAndMinusNine(t *testing.T) {
	got, err := Combine([]Curve{MustNew(pts(1000, -3)), MustNew(pts(1000, -9))})
	require.NoError(t, err)

	g := got.Gains()[0]
	want := 10 * math.Log10((math.Pow(10, -0.3)+math.Pow(10, -0.9))/2)
	assert.InDelta(t, want, g, 1e-9)
	assert.InDelta(t, -5.04, g, 0.01)
	assert.Greater(t, g, -6.0, "closer to the louder curve than the dB mean")
	assert.Less(t, g, -3.0)
}

func TestCombine_Errors(t *testing.T) {
	_, err := Combine(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Combine([]Curve{MustNew(pts(100, -1, 200, -2)), MustNew(pts(100, -1))})
	assert.ErrorIs(t, err, ErrGridMismatch)

	_, err = Combine([]Curve{MustNew(pts(100, -1, 200, -2)), MustNew(pts(100, -1, 300, -2))})
	assert.ErrorIs(t, err, ErrGridMismatch)
}
