package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnlbauer/wham-go/internal/testutil"
	"github.com/dnlbauer/wham-go/wham"
)

// TestSolve_GoldenSingleUnbiasedWindow checks an analytically verifiable
// corner of the WHAM iteration: with exactly one window and a zero force
// constant, every bias factor is 1, so the fixed point collapses to the
// plain normalised histogram P[b] = counts[b] / sum(counts) regardless of
// tolerance or iteration count. This lets golden_wham.json encode exact
// expected probabilities instead of only structural properties.
func TestSolve_GoldenSingleUnbiasedWindow(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	for _, c := range dataset.Cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			numBins := len(c.Counts)
			grid, err := wham.NewGrid([]float64{0}, []float64{float64(numBins)}, []int{numBins})
			require.NoError(t, err)

			h := wham.NewHistogram(numBins)
			var total float64
			for b, n := range c.Counts {
				h.Bins[b] = n
				total += n
			}
			h.NumPoints = int64(total)

			kT := wham.ThermalEnergy(300)
			ds, err := wham.New(grid, kT, false, []float64{0}, []float64{0}, []*wham.Histogram{h})
			require.NoError(t, err)

			res, err := Solve(ds, Options{Tolerance: 1e-9, MaxIterations: 2000, Parallelism: 2})
			require.NoError(t, err)

			require.Len(t, res.P, len(c.WantP))
			for b, want := range c.WantP {
				testutil.AssertFloat64Equal(t, "P", want, res.P[b], 1e-9)
			}
		})
	}
}
