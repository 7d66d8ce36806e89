// Package bootstrap implements the error-analysis driver: repeated
// WHAM solves on re-weighted Datasets, aggregated into per-bin standard
// errors for P and A.
package bootstrap

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/dnlbauer/wham-go/solver"
	"github.com/dnlbauer/wham-go/stats"
	"github.com/dnlbauer/wham-go/wham"
)

// Options configures a bootstrap run.
type Options struct {
	Replicates  int // R
	Seed        int64
	Solver      solver.Options
	Parallelism int // workers fanning out the R solves; <=0 defaults to runtime.NumCPU()
}

// Result holds the per-bin standard errors for the bootstrap ensemble.
type Result struct {
	SEProbability []float64
	SEFreeEnergy  []float64
	Replicates    int
}

// GenerateWeights draws num_windows-1 uniform(0,1) samples from rng, sorts
// them, and returns the gap vector between consecutive break points
// 0, b_1, ..., b_{N-1}, 1. The gaps telescope, so the sum is 1 up to
// floating-point rounding; every weight is >= 0.
func GenerateWeights(numWindows int, rng *rand.Rand) []float64 {
	if numWindows < 1 {
		return nil
	}
	if numWindows == 1 {
		return []float64{1.0}
	}
	breaks := make([]float64, numWindows+1)
	breaks[0] = 0
	breaks[numWindows] = 1
	for i := 1; i < numWindows; i++ {
		breaks[i] = rng.Float64()
	}
	sort.Float64s(breaks[1:numWindows])

	weights := make([]float64, numWindows)
	for i := 0; i < numWindows; i++ {
		weights[i] = breaks[i+1] - breaks[i]
	}
	return weights
}

// Run executes the bootstrap driver against a solved base Dataset:
// Replicates weight vectors are drawn sequentially from a seeded PRNG (so
// the sequence is reproducible regardless of how the solves are scheduled),
// then the R solves are fanned out across a worker pool.
func Run(base *wham.Dataset, opts Options) (*Result, error) {
	if opts.Replicates <= 0 {
		return nil, fmt.Errorf("bootstrap: replicates must be > 0, got %d", opts.Replicates)
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	weightSets := make([][]float64, opts.Replicates)
	for r := 0; r < opts.Replicates; r++ {
		weightSets[r] = GenerateWeights(base.NumWindows, rng)
	}

	numBins := base.NumBins()
	pRuns := make([][]float64, opts.Replicates)
	aRuns := make([][]float64, opts.Replicates)
	errs := make([]error, opts.Replicates)

	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup
	for r := 0; r < opts.Replicates; r++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(r int) {
			defer wg.Done()
			defer func() { <-sem }()

			ds, err := base.Reweighted(weightSets[r])
			if err != nil {
				errs[r] = err
				return
			}
			res, err := solver.Solve(ds, opts.Solver)
			if err != nil {
				errs[r] = fmt.Errorf("bootstrap replicate %d: %w", r, err)
				return
			}
			pRuns[r] = res.P
			aRuns[r] = solver.ProjectFreeEnergy(res.P, base.KT)
		}(r)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sePerBin := make([]float64, numBins)
	seAPerBin := make([]float64, numBins)
	sampleP := make([]float64, opts.Replicates)
	sampleA := make([]float64, opts.Replicates)
	sqrtR := math.Sqrt(float64(opts.Replicates))
	for b := 0; b < numBins; b++ {
		for r := 0; r < opts.Replicates; r++ {
			sampleP[r] = pRuns[r][b]
			sampleA[r] = aRuns[r][b]
		}
		sePerBin[b] = stats.SampleStdDev(sampleP) / sqrtR
		seAPerBin[b] = stats.SampleStdDev(sampleA) / sqrtR
	}

	return &Result{
		SEProbability: sePerBin,
		SEFreeEnergy:  seAPerBin,
		Replicates:    opts.Replicates,
	}, nil
}
