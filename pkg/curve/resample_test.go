package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample_KeepsGrid(t *testing.T) {
	src := MustNew(pts(20, -40, 100, -30, 1000, -20, 10000, -35, 20000, -50))

	grids := map[string][]float64{
		"default":      DefaultGrid(),
		"single point": {440},
		"two points":   {100, 200},
		"outside src":  {5, 30000},
	}

	for name, grid := range grids {
		t.Run(name, func(t *testing.T) {
			out, err := src.Resample(grid)
			require.NoError(t, err)
			assert.Equal(t, len(grid), out.Len())
			assert.Equal(t, grid, out.Frequencies())
		})
	}
}

func TestResample_ConstantCurve(t *testing.T) {
	src := MustNew(pts(20, -12, 20000, -12))
	out, err := src.Resample(DefaultGrid())
	require.NoError(t, err)
	for _, g := range out.Gains() {
		assert.InDelta(t, -12, g, 1e-9)
	}
}

func TestResample_SinglePointIsPointSample(t *testing.T) {
	src := MustNew(pts(100, -10, 200, -20))
	out, err := src.Resample([]float64{150})
	require.NoError(t, err)
	assert.InDelta(t, -15, out.Gains()[0], 1e-12)
}

func TestResample_PowerAverageOfWindow(t *testing.T) {
	src := MustNew(pts(100, -10, 200, -20))
	grid := []float64{100, 150, 200}

	out, err := src.Resample(grid)
	require.NoError(t, err)

	// middle cell spans [125, 175)
	var sum float64
	for k := 0; k < ResampleWindow; k++ {
		x := 125 + 50*float64(k)/ResampleWindow
		sum += math.Pow(10, (-10-(x-100)/10)/10)
	}
	assert.InDelta(t, 10*math.Log10(sum/ResampleWindow), out.Gains()[1], 1e-9)

	// first cell is one-sided: [100, 125)
	sum = 0
	for k := 0; k < ResampleWindow; k++ {
		x := 100 + 25*float64(k)/ResampleWindow
		sum += math.Pow(10, (-10-(x-100)/10)/10)
	}
	assert.InDelta(t, 10*math.Log10(sum/ResampleWindow), out.Gains()[0], 1e-9)

	// power averaging favours the louder part of the window
	assert.Greater(t, out.Gains()[1], -15.0)
}

func TestResample_Errors(t *testing.T) {
	_, err := Curve{}.Resample([]float64{100})
	assert.ErrorIs(t, err, ErrEmptyCurve)

	src := MustNew(pts(100, -10, 200, -20))
	_, err = src.Resample([]float64{200, 100})
	assert.ErrorIs(t, err, ErrNotAscending)

	out, err := src.Resample(nil)
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}
