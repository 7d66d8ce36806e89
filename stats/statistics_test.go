package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
	assert.Equal(t, 0.0, Mean(nil))
}

func TestBiasedAutocovariance_ConstantSeries(t *testing.T) {
	x := []float64{5, 5, 5, 5}
	mean := Mean(x)
	assert.Equal(t, 0.0, BiasedAutocovariance(x, mean))
}

func TestBiasedAutocovariance_KnownValue(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	mean := Mean(x) // 2.5
	// (1.5^2+0.5^2+0.5^2+1.5^2)/4 = (2.25+0.25+0.25+2.25)/4 = 1.25
	assert.InDelta(t, 1.25, BiasedAutocovariance(x, mean), 1e-12)
}

func TestSampleStdDev_TooFewSamples(t *testing.T) {
	assert.Equal(t, 0.0, SampleStdDev([]float64{1}))
	assert.Equal(t, 0.0, SampleStdDev(nil))
}

func TestSampleStdDev_KnownValue(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	// well-known sample stddev of this set is 2.138...
	assert.InDelta(t, 2.138, SampleStdDev(x), 1e-3)
}
