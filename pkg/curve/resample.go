package curve

import (
	"fmt"

	"github.com/RMahshie/autoeq/pkg/models"
)

// ResampleWindow is the number of samples averaged per output point.
const ResampleWindow = 20

// Resample re-expresses c on frequencies, which must be strictly ascending.
//
// Each output point is the power-domain mean of ResampleWindow samples of c
// spread over the cell [x1, x2), where x1 and x2 are the midpoints to the
// neighbouring frequencies. The first and last cells have no outer neighbour
// and are one-sided. An empty frequency list yields an empty curve.
func (c Curve) Resample(frequencies []float64) (Curve, error) {
	if len(c.points) == 0 {
		return Curve{}, ErrEmptyCurve
	}

	points := make([]models.FrequencyPoint, len(frequencies))
	for i, p := range frequencies {
		left, right := p, p
		if i > 0 {
			left = frequencies[i-1]
		}
		if i+1 < len(frequencies) {
			right = frequencies[i+1]
		}
		x1 := (p + left) / 2
		x2 := (p + right) / 2

		var sum float64
		for k := 0; k < ResampleWindow; k++ {
			x := x1 + (x2-x1)*float64(k)/ResampleWindow
			sum += DBToLinear(c.valueAt(x))
		}
		points[i] = models.FrequencyPoint{
			Frequency: p,
			Gain:      LinearToDB(sum / ResampleWindow),
		}
	}

	out, err := New(points)
	if err != nil {
		return Curve{}, fmt.Errorf("failed to resample: %w", err)
	}
	return out, nil
}
