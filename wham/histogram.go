package wham

// Histogram holds one simulation window's per-bin observation counts.
// NumPoints is the raw observation count the window contributed (before any
// per-window reweighting); invariant: sum(Bins) == NumPoints within
// floating-point tolerance when all per-observation weights are unit (see
// Dataset.Weights for window-level reweighting, which is separate).
type Histogram struct {
	NumPoints int64
	Bins      []float64
}

// NewHistogram allocates an empty histogram over numBins bins.
func NewHistogram(numBins int) *Histogram {
	return &Histogram{Bins: make([]float64, numBins)}
}

// Add records one observation falling in bin b.
func (h *Histogram) Add(b int) {
	h.Bins[b]++
	h.NumPoints++
}

// Empty reports whether the histogram received zero observations.
func (h *Histogram) Empty() bool {
	return h.NumPoints == 0
}
