package input

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dnlbauer/wham-go/stats"
	"github.com/dnlbauer/wham-go/whamerr"
)

// Sample is one time-series record: a time and a reaction-coordinate value
// in one or more dimensions.
type Sample struct {
	T float64
	X []float64
}

// ParseTimeSeries reads a window time-series file with one record per line:
// `t x_1 ... x_D`. Lines starting with '#' or '@' (xmgrace-style headers)
// are skipped.
func ParseTimeSeries(path string, dimensions int) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &whamerr.InputError{Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck // read-only file; close error is not actionable

	var samples []Sample
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 1+dimensions {
			return nil, &whamerr.InputError{Path: path, Line: lineNo,
				Err: fmt.Errorf("expected %d columns (t + %d coords), got %d", 1+dimensions, dimensions, len(fields))}
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, &whamerr.InputError{Path: path, Line: lineNo, Err: fmt.Errorf("parsing time: %w", err)}
		}
		x := make([]float64, dimensions)
		for d := 0; d < dimensions; d++ {
			v, err := strconv.ParseFloat(fields[1+d], 64)
			if err != nil {
				return nil, &whamerr.InputError{Path: path, Line: lineNo, Err: fmt.Errorf("parsing x[%d]: %w", d, err)}
			}
			x[d] = v
		}
		samples = append(samples, Sample{T: t, X: x})
	}
	if err := scanner.Err(); err != nil {
		return nil, &whamerr.InputError{Path: path, Err: err}
	}
	return samples, nil
}

// FilterByTime returns the subsequence of samples with start <= t <= end.
// A NaN bound disables that side of the filter.
func FilterByTime(samples []Sample, start, end float64) []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if !math.IsNaN(start) && s.T < start {
			continue
		}
		if !math.IsNaN(end) && s.T > end {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Decorrelate subsamples a time series to its statistically independent
// stride: the statistical inefficiency g_d is computed per
// reaction-coordinate dimension, g is the max across dimensions, and every
// stride = ceil(g)-th sample is kept.
func Decorrelate(samples []Sample) []Sample {
	if len(samples) == 0 {
		return samples
	}
	d := len(samples[0].X)
	maxG := 1.0
	for dim := 0; dim < d; dim++ {
		series := make([]float64, len(samples))
		for i, s := range samples {
			series[i] = s.X[dim]
		}
		g := stats.StatisticalInefficiency(series)
		if g > maxG {
			maxG = g
		}
	}

	stride := stats.Stride(maxG)
	out := make([]Sample, 0, (len(samples)+stride-1)/stride)
	for i := 0; i < len(samples); i += stride {
		out = append(out, samples[i])
	}
	return out
}
