package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PearsonCorrelation returns the Pearson coefficient of two equal-length
// series. Mismatched, empty or constant series yield 0.
func PearsonCorrelation(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}

	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0.0
	}
	return r
}
