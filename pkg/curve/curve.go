// Package curve implements the frequency response model used to derive
// equalization corrections: immutable piecewise-linear curves, the
// perceptually weighted analysis grid, power-domain resampling and averaging.
package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/RMahshie/autoeq/pkg/models"
)

var (
	// ErrEmptyCurve is returned when a curve with no points is queried.
	ErrEmptyCurve = errors.New("curve has no points")
	// ErrEmptyInput is returned when there is nothing to build a curve from.
	ErrEmptyInput = errors.New("empty input")
	// ErrNotAscending is returned when frequencies are not strictly ascending.
	ErrNotAscending = errors.New("frequencies are not strictly ascending")
	// ErrGridMismatch is returned when curves that must share frequencies do not.
	ErrGridMismatch = errors.New("curves do not share the same frequencies")
	// ErrInvalidRange is returned for an unusable frequency range.
	ErrInvalidRange = errors.New("invalid frequency range")
	// ErrInvalidFrequency is returned for a frequency that is not finite and positive.
	ErrInvalidFrequency = errors.New("frequency must be finite and positive")
)

// GainFunc maps a gain in dB to a new gain in dB.
type GainFunc func(gain float64) float64

// Curve is an ordered sequence of frequency points, strictly ascending by
// frequency. Curves are values: no operation modifies its receiver.
// The zero value is an empty curve.
type Curve struct {
	points []models.FrequencyPoint
}

// New copies points into a Curve. Frequencies must be finite, positive and
// strictly ascending.
func New(points []models.FrequencyPoint) (Curve, error) {
	for i, p := range points {
		// written as a negation so NaN is rejected too
		if !(p.Frequency > 0) || math.IsInf(p.Frequency, 1) {
			return Curve{}, fmt.Errorf("%w: %g Hz at index %d", ErrInvalidFrequency, p.Frequency, i)
		}
	}
	for i := 1; i < len(points); i++ {
		if !(points[i-1].Frequency < points[i].Frequency) {
			return Curve{}, fmt.Errorf("%w: %g Hz follows %g Hz at index %d",
				ErrNotAscending, points[i].Frequency, points[i-1].Frequency, i)
		}
	}

	owned := make([]models.FrequencyPoint, len(points))
	copy(owned, points)
	return Curve{points: owned}, nil
}

// FromSlices builds a Curve from parallel frequency and gain slices.
func FromSlices(frequencies, gains []float64) (Curve, error) {
	if len(frequencies) != len(gains) {
		return Curve{}, fmt.Errorf("%w: %d frequencies, %d gains", ErrGridMismatch, len(frequencies), len(gains))
	}
	points := make([]models.FrequencyPoint, len(frequencies))
	for i := range frequencies {
		points[i] = models.FrequencyPoint{Frequency: frequencies[i], Gain: gains[i]}
	}
	return New(points)
}

// MustNew is like New but panics on invalid input. Intended for fixed tables.
func MustNew(points []models.FrequencyPoint) Curve {
	c, err := New(points)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of points.
func (c Curve) Len() int { return len(c.points) }

// IsEmpty reports whether the curve has no points.
func (c Curve) IsEmpty() bool { return len(c.points) == 0 }

// Points returns a copy of the curve's points.
func (c Curve) Points() []models.FrequencyPoint {
	out := make([]models.FrequencyPoint, len(c.points))
	copy(out, c.points)
	return out
}

// Frequencies returns the frequencies of all points in order.
func (c Curve) Frequencies() []float64 {
	out := make([]float64, len(c.points))
	for i, p := range c.points {
		out[i] = p.Frequency
	}
	return out
}

// Gains returns the gains of all points in order.
func (c Curve) Gains() []float64 {
	out := make([]float64, len(c.points))
	for i, p := range c.points {
		out[i] = p.Gain
	}
	return out
}

// ValueAt returns the gain at an arbitrary frequency. Between two samples the
// gain is linearly interpolated; outside the sampled range the nearest
// boundary gain is returned.
func (c Curve) ValueAt(frequency float64) (float64, error) {
	if len(c.points) == 0 {
		return 0, ErrEmptyCurve
	}
	return c.valueAt(frequency), nil
}

// valueAt assumes a non-empty curve.
func (c Curve) valueAt(frequency float64) float64 {
	pts := c.points
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Frequency >= frequency })
	switch {
	case i == 0:
		return pts[0].Gain
	case i == len(pts):
		return pts[len(pts)-1].Gain
	case pts[i].Frequency == frequency:
		return pts[i].Gain
	}

	lo, hi := pts[i-1], pts[i]
	slope := (hi.Gain - lo.Gain) / (hi.Frequency - lo.Frequency)
	return lo.Gain + (frequency-lo.Frequency)*slope
}

// Transform returns a new curve with every gain replaced by fn(gain).
func (c Curve) Transform(fn GainFunc) Curve {
	out := make([]models.FrequencyPoint, len(c.points))
	for i, p := range c.points {
		out[i] = models.FrequencyPoint{Frequency: p.Frequency, Gain: fn(p.Gain)}
	}
	return Curve{points: out}
}

// PeakGain returns the largest gain of the curve.
func (c Curve) PeakGain() (float64, error) {
	if len(c.points) == 0 {
		return 0, ErrEmptyCurve
	}
	peak := c.points[0].Gain
	for _, p := range c.points[1:] {
		if p.Gain > peak {
			peak = p.Gain
		}
	}
	return peak, nil
}
