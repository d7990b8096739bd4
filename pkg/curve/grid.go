package curve

import (
	"fmt"
	"math"

	"github.com/RMahshie/autoeq/pkg/models"
)

// Bounds of the analysis grid in Hz
const (
	LowerBoundHz = 50.0
	UpperBoundHz = 14000.0
)

// equalLoudness is a rough tracing of an equal-loudness contour, in dB.
var equalLoudness = MustNew([]models.FrequencyPoint{
	{Frequency: 20, Gain: 109},
	{Frequency: 80, Gain: 82},
	{Frequency: 400, Gain: 62},
	{Frequency: 1000, Gain: 60},
	{Frequency: 1500, Gain: 64},
	{Frequency: 2500, Gain: 57},
	{Frequency: 4000, Gain: 57},
	{Frequency: 8500, Gain: 73},
	{Frequency: 15000, Gain: 72},
	{Frequency: 19000, Gain: 68},
	{Frequency: 30000, Gain: 130},
})

// Density returns the grid density at frequency, roughly points per octave.
// It is higher where the ear is more sensitive.
func Density(frequency float64) float64 {
	return 400 / equalLoudness.valueAt(frequency)
}

// Grid returns the ascending analysis frequencies from lower to upper. Each
// step advances by frequency/Density(frequency)*2/e; upper is always the
// final element even when the last step overshoots it.
func Grid(lower, upper float64) ([]float64, error) {
	if !(lower > 0) || !(upper > lower) || math.IsInf(upper, 1) {
		return nil, fmt.Errorf("%w: [%g, %g] Hz", ErrInvalidRange, lower, upper)
	}

	var out []float64
	for f := lower; f < upper; f += f / Density(f) * 2 / math.E {
		out = append(out, f)
	}
	return append(out, upper), nil
}

// DefaultGrid returns the grid spanning LowerBoundHz to UpperBoundHz.
func DefaultGrid() []float64 {
	grid, err := Grid(LowerBoundHz, UpperBoundHz)
	if err != nil {
		panic(err)
	}
	return grid
}
