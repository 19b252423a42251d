package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSum(t *testing.T) {
	in := []float64{1, 3}
	out := NormalizeSum(in)

	assert.InDeltaSlice(t, []float64{0.25, 0.75}, out, 1e-12)
	assert.Equal(t, []float64{1, 3}, in, "input must not be modified")
	assert.Equal(t, []float64{0, 0}, NormalizeSum([]float64{0, 0}))
}

func TestStandardDeviation(t *testing.T) {
	assert.Equal(t, 0.0, StandardDeviation([]float64{5}))
	assert.InDelta(t, 1.0, StandardDeviation([]float64{1, 2, 3}), 1e-12)
	assert.Equal(t, 1.0, Clamp(3, 0, 1))
}
