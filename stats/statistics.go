// Package stats provides the statistical primitives the WHAM engine needs:
// mean, biased autocovariance and sample standard deviation over a
// contiguous sequence of doubles, plus the autocorrelation analysis used to
// decorrelate time series before histogramming.
package stats

import (
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of x. Grounded on gonum/stat rather than
// a hand loop, matching the rest of the pack's preference for gonum over a
// hand-rolled reduction wherever the exact semantics line up.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// BiasedAutocovariance returns sigma^2 = (1/N) * sum((x_i - mean)^2), the
// population (not Bessel-corrected) variance used as the sigma^2 term of
// the statistical-inefficiency formula. gonum's stat.Variance applies
// Bessel's correction (N-1), which does not match this definition, so it
// is computed directly here.
func BiasedAutocovariance(x []float64, mean float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, xi := range x {
		d := xi - mean
		sum += d * d
	}
	return sum / float64(n)
}

// SampleStdDev returns the sample (N-1) standard deviation of x, used to
// aggregate bootstrap replicate runs into per-bin standard errors.
func SampleStdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}
