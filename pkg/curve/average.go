package curve

import (
	"fmt"
	"math"

	"github.com/RMahshie/autoeq/pkg/models"
	"github.com/cwbudde/algo-vecmath"
)

// DBToLinear converts a gain in dB to linear power.
func DBToLinear(db float64) float64 { return math.Pow(10, db/10) }

// LinearToDB converts linear power to a gain in dB.
func LinearToDB(linear float64) float64 { return 10 * math.Log10(linear) }

// Combine averages curves in the linear power domain: at every index the
// mean of the curves' linear powers is converted back to dB.
//
// All curves must share the same frequencies, which holds after resampling
// them onto one grid. Gains are expected to be levels relative to a common
// 0 dB reference (non-positive in practice); the power average is only
// meaningful when every measurement is scaled against the same reference.
func Combine(curves []Curve) (Curve, error) {
	if len(curves) == 0 {
		return Curve{}, fmt.Errorf("%w: no curves to combine", ErrEmptyInput)
	}

	base := curves[0].points
	for n, c := range curves[1:] {
		if len(c.points) != len(base) {
			return Curve{}, fmt.Errorf("%w: curve %d has %d points, want %d",
				ErrGridMismatch, n+1, len(c.points), len(base))
		}
		for i, p := range c.points {
			if p.Frequency != base[i].Frequency {
				return Curve{}, fmt.Errorf("%w: curve %d has %g Hz at index %d, want %g Hz",
					ErrGridMismatch, n+1, p.Frequency, i, base[i].Frequency)
			}
		}
	}

	// accumulate linear power per grid index
	sum := make([]float64, len(base))
	power := make([]float64, len(base))
	for _, c := range curves {
		for i, p := range c.points {
			power[i] = DBToLinear(p.Gain)
		}
		vecmath.AddBlockInPlace(sum, power)
	}
	vecmath.ScaleBlock(power, sum, 1/float64(len(curves)))

	points := make([]models.FrequencyPoint, len(base))
	for i := range base {
		points[i] = models.FrequencyPoint{
			Frequency: base[i].Frequency,
			Gain:      LinearToDB(power[i]),
		}
	}
	return Curve{points: points}, nil
}
