package curve

import (
	"fmt"

	"github.com/RMahshie/autoeq/pkg/models"
)

// Result holds every stage of a correction computation.
type Result struct {
	Grid       []float64
	Target     Curve // target resampled onto Grid
	Measured   Curve // power average of the resampled measurements
	Difference Curve // Target minus Measured
	Correction Curve // Difference normalized to a 0 dB peak
	Peak       float64
}

// Difference returns target minus measured, evaluated at target's frequencies.
func Difference(target, measured Curve) (Curve, error) {
	if measured.IsEmpty() {
		return Curve{}, ErrEmptyCurve
	}
	points := make([]models.FrequencyPoint, len(target.points))
	for i, p := range target.points {
		points[i] = models.FrequencyPoint{
			Frequency: p.Frequency,
			Gain:      p.Gain - measured.valueAt(p.Frequency),
		}
	}
	return Curve{points: points}, nil
}

// Normalize shifts c so its peak gain is exactly 0 dB. It returns the shifted
// curve and the peak that was removed.
func Normalize(c Curve) (Curve, float64, error) {
	peak, err := c.PeakGain()
	if err != nil {
		return Curve{}, 0, err
	}
	return c.Transform(func(g float64) float64 { return g - peak }), peak, nil
}

// Correction derives the equalizer correction for measurements against
// target on grid: both sides are resampled onto grid, the measurements are
// power averaged, subtracted from the target and the difference is
// normalized so the correction never boosts above 0 dB.
func Correction(measurements []Curve, target Curve, grid []float64) (*Result, error) {
	if len(measurements) == 0 {
		return nil, fmt.Errorf("%w: no measurements", ErrEmptyInput)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrEmptyInput)
	}

	resampled := make([]Curve, len(measurements))
	for i, m := range measurements {
		r, err := m.Resample(grid)
		if err != nil {
			return nil, fmt.Errorf("failed to resample measurement %d: %w", i, err)
		}
		resampled[i] = r
	}

	tgt, err := target.Resample(grid)
	if err != nil {
		return nil, fmt.Errorf("failed to resample target: %w", err)
	}

	measured, err := Combine(resampled)
	if err != nil {
		return nil, fmt.Errorf("failed to average measurements: %w", err)
	}

	diff, err := Difference(tgt, measured)
	if err != nil {
		return nil, fmt.Errorf("failed to subtract measurements from target: %w", err)
	}

	corr, peak, err := Normalize(diff)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize correction: %w", err)
	}

	return &Result{
		Grid:       append([]float64(nil), grid...),
		Target:     tgt,
		Measured:   measured,
		Difference: diff,
		Correction: corr,
		Peak:       peak,
	}, nil
}
