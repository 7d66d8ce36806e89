package input

import (
	"github.com/dnlbauer/wham-go/wham"
	"github.com/dnlbauer/wham-go/whamerr"
)

// BuildHistogram bins samples against grid. Samples falling outside
// [hist_min, hist_max) in any dimension are dropped: a reaction-coordinate
// excursion outside the configured extent cannot be assigned a bin index
// under the half-open binning convention, so it contributes no bin count.
func BuildHistogram(samples []Sample, grid *wham.Grid) *wham.Histogram {
	h := wham.NewHistogram(grid.NumBins())
	for _, s := range samples {
		if b, ok := grid.IndexForValue(s.X); ok {
			h.Add(b)
		}
	}
	return h
}

// WindowSeries pairs a parsed WindowSpec with its (already filtered and
// optionally decorrelated) time-series samples.
type WindowSeries struct {
	Spec    WindowSpec
	Samples []Sample
}

// AssembleDataset builds one Dataset from a set of per-window series.
// ignoreEmpty controls whether an empty histogram is fatal (false) or
// merely returned as-is for the caller to warn about (true).
func AssembleDataset(windows []WindowSeries, grid *wham.Grid, kT float64, cyclic bool, ignoreEmpty bool) (*wham.Dataset, error) {
	dimensions := grid.Dimensions()
	histograms := make([]*wham.Histogram, len(windows))
	biasPos := make([]float64, 0, len(windows)*dimensions)
	biasFC := make([]float64, 0, len(windows)*dimensions)

	for i, w := range windows {
		h := BuildHistogram(w.Samples, grid)
		if h.Empty() && !ignoreEmpty {
			return nil, &whamerr.DataError{Msg: "window " + w.Spec.Path + " contributed zero observations to the histogram"}
		}
		histograms[i] = h
		biasPos = append(biasPos, w.Spec.Pos...)
		biasFC = append(biasFC, w.Spec.FC...)
	}

	return wham.New(grid, kT, cyclic, biasPos, biasFC, histograms)
}

// ConvdtEndTimes returns the growing sequence of interval end times
// start+convdt, start+2*convdt, ..., clipped to end.
func ConvdtEndTimes(start, end, convdt float64) []float64 {
	if convdt <= 0 {
		return nil
	}
	var ends []float64
	for t := start + convdt; t < end; t += convdt {
		ends = append(ends, t)
	}
	ends = append(ends, end)
	return ends
}

// AnyEmpty reports whether any histogram in the dataset received zero
// observations.
func AnyEmpty(ds *wham.Dataset) bool {
	for _, h := range ds.Histograms {
		if h.Empty() {
			return true
		}
	}
	return false
}
