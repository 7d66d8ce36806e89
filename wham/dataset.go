package wham

import (
	"fmt"
	"math"

	"github.com/dnlbauer/wham-go/whamerr"
)

// BoltzmannConstant is k_B in kJ/mol/K.
const BoltzmannConstant = 0.0083144621

// ThermalEnergy returns kT = k_B * T for a temperature given in Kelvin.
func ThermalEnergy(temperatureKelvin float64) float64 {
	return BoltzmannConstant * temperatureKelvin
}

// Grid describes the shared multi-dimensional bin layout every Histogram
// and Dataset in a run shares. Bins are half-open per dimension: [min, max).
type Grid struct {
	DimensLengths []int
	HistMin       []float64
	HistMax       []float64
	BinWidth      []float64
}

// NewGrid validates that the three per-dimension slices agree in length and
// derives BinWidth[d] = (max[d]-min[d])/lengths[d].
func NewGrid(histMin, histMax []float64, dimensLengths []int) (*Grid, error) {
	d := len(dimensLengths)
	if len(histMin) != d || len(histMax) != d {
		return nil, &whamerr.DimensionMismatchError{
			Field: "hist_min/hist_max/num_bins",
			Lens:  []int{len(histMin), len(histMax), d},
		}
	}
	binWidth := make([]float64, d)
	for i := 0; i < d; i++ {
		if dimensLengths[i] <= 0 {
			return nil, &whamerr.ConfigError{Msg: fmt.Sprintf("num_bins[%d] must be positive, got %d", i, dimensLengths[i])}
		}
		binWidth[i] = (histMax[i] - histMin[i]) / float64(dimensLengths[i])
	}
	return &Grid{
		DimensLengths: dimensLengths,
		HistMin:       histMin,
		HistMax:       histMax,
		BinWidth:      binWidth,
	}, nil
}

// Dimensions returns D, the number of reaction-coordinate dimensions.
func (g *Grid) Dimensions() int { return len(g.DimensLengths) }

// NumBins returns the product of the per-dimension lengths.
func (g *Grid) NumBins() int {
	n := 1
	for _, l := range g.DimensLengths {
		n *= l
	}
	return n
}

// indices decomposes a linear bin index into per-dimension indices, lowest
// dimension varying fastest.
func (g *Grid) indices(b int) []int {
	d := g.Dimensions()
	idx := make([]int, d)
	for k := 0; k < d; k++ {
		idx[k] = b % g.DimensLengths[k]
		b /= g.DimensLengths[k]
	}
	return idx
}

// BinIndex linearises per-dimension indices back into a single bin index.
func (g *Grid) BinIndex(idx []int) int {
	b := 0
	stride := 1
	for k, l := range g.DimensLengths {
		b += idx[k] * stride
		stride *= l
	}
	return b
}

// BinCenter returns the bin-centre coordinate of bin b in every dimension.
func (g *Grid) BinCenter(b int) []float64 {
	idx := g.indices(b)
	centre := make([]float64, len(idx))
	for d, i := range idx {
		centre[d] = g.HistMin[d] + g.BinWidth[d]*(float64(i)+0.5)
	}
	return centre
}

// IndexForValue returns the bin index containing x, or (-1, false) when x
// falls outside [min, max) in any dimension.
func (g *Grid) IndexForValue(x []float64) (int, bool) {
	idx := make([]int, g.Dimensions())
	for d, v := range x {
		if v < g.HistMin[d] || v >= g.HistMax[d] {
			return -1, false
		}
		i := int((v - g.HistMin[d]) / g.BinWidth[d])
		if i >= g.DimensLengths[d] {
			i = g.DimensLengths[d] - 1
		}
		idx[d] = i
	}
	return g.BinIndex(idx), true
}

// Dataset is one logical grid shared across all windows of a WHAM run: the
// per-window histograms, harmonic bias parameters, per-window weight and
// the precomputed Boltzmann-weighted bias cache. A Dataset is
// immutable after construction except for Weights, which Reweighted
// replaces to build a bootstrap sibling.
type Dataset struct {
	Grid
	NumWindows int
	KT         float64
	Cyclic     bool

	// BiasPos[w*D+d], BiasFC[w*D+d]: harmonic bias centre/force constant.
	BiasPos []float64
	BiasFC  []float64

	Histograms []*Histogram
	Weights    []float64

	// Bias[w*NumBins+b] = exp(-U(w,b)/kT), computed once at construction.
	Bias []float64
}

// New builds a Dataset and precomputes the full bias cache. histograms must
// have length numWindows; biasPos/biasFC must have length numWindows*D.
func New(grid *Grid, kT float64, cyclic bool, biasPos, biasFC []float64, histograms []*Histogram) (*Dataset, error) {
	numWindows := len(histograms)
	d := grid.Dimensions()
	if len(biasPos) != numWindows*d || len(biasFC) != numWindows*d {
		return nil, &whamerr.DimensionMismatchError{
			Field: "bias_pos/bias_fc",
			Lens:  []int{len(biasPos), len(biasFC), numWindows * d},
		}
	}
	numBins := grid.NumBins()
	for i, h := range histograms {
		if len(h.Bins) != numBins {
			return nil, &whamerr.DimensionMismatchError{Field: fmt.Sprintf("histograms[%d].Bins", i), Lens: []int{len(h.Bins), numBins}}
		}
	}

	weights := make([]float64, numWindows)
	for i := range weights {
		weights[i] = 1.0
	}

	ds := &Dataset{
		Grid:       *grid,
		NumWindows: numWindows,
		KT:         kT,
		Cyclic:     cyclic,
		BiasPos:    biasPos,
		BiasFC:     biasFC,
		Histograms: histograms,
		Weights:    weights,
	}
	ds.Bias = make([]float64, numWindows*numBins)
	for w := 0; w < numWindows; w++ {
		for b := 0; b < numBins; b++ {
			ds.Bias[w*numBins+b] = ds.biasFactor(w, b)
		}
	}
	return ds, nil
}

// biasFactor computes exp(-U(w,b)/kT) for the harmonic bias of window w at
// the centre of bin b.
func (ds *Dataset) biasFactor(w, b int) float64 {
	centre := ds.BinCenter(b)
	d := ds.Dimensions()
	var u float64
	for dim := 0; dim < d; dim++ {
		pos := ds.BiasPos[w*d+dim]
		fc := ds.BiasFC[w*d+dim]
		delta := math.Abs(centre[dim] - pos)
		if ds.Cyclic {
			extent := ds.HistMax[dim] - ds.HistMin[dim]
			if delta > 0.5*extent {
				delta -= extent
				delta = math.Abs(delta)
			}
		}
		u += 0.5 * fc * delta * delta
	}
	return math.Exp(-u / ds.KT)
}

// WeightedBinCount returns sum_w Weights[w] * Histograms[w].Bins[b].
func (ds *Dataset) WeightedBinCount(b int) float64 {
	var sum float64
	for w := 0; w < ds.NumWindows; w++ {
		sum += ds.Weights[w] * ds.Histograms[w].Bins[b]
	}
	return sum
}

// Reweighted returns a sibling Dataset that shares Histograms and the Bias
// cache by reference and differs only in Weights, used by the bootstrap
// driver to re-solve against a perturbed weight vector without recomputing
// the bias cache.
func (ds *Dataset) Reweighted(weights []float64) (*Dataset, error) {
	if len(weights) != ds.NumWindows {
		return nil, &whamerr.DimensionMismatchError{Field: "weights", Lens: []int{len(weights), ds.NumWindows}}
	}
	clone := *ds
	clone.Weights = weights
	return &clone, nil
}
