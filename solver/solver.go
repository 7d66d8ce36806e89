// Package solver implements the WHAM fixed-point iteration: the coupled
// P/F equations are iterated to a configured tolerance, with the
// per-iteration bin loop and window loop each split across a batch worker
// pool, grounded on the stomp/mpx batch-worker pattern used by
// go-matrixprofile's parallel matrix-profile computation.
package solver

import (
	"math"
	"runtime"
	"sync"

	"github.com/dnlbauer/wham-go/wham"
	"github.com/dnlbauer/wham-go/whamerr"
)

// Options configures one solve.
type Options struct {
	Tolerance     float64 // convergence threshold on F differences, kJ/mol
	MaxIterations int
	Parallelism   int // number of batch workers; <=0 defaults to runtime.NumCPU()

	// OnProgress, if non-nil, is invoked every 10 iterations (the
	// convergence-check cadence) with the iteration count and the max|ΔF|
	// observed. Used by the CLI's --log debug output; the solver itself
	// never logs.
	OnProgress func(iteration int, maxDelta float64)
}

// Result is the converged solution of one Dataset.
type Result struct {
	P          []float64 // unbiased per-bin probability, normalised to sum 1
	F          []float64 // per-window free-energy offset, kJ/mol
	Iterations int
	LastDelta  float64
}

// Solve runs the WHAM fixed-point iteration on ds until convergence or
// MaxIterations, returning a ConvergenceError in the latter case.
func Solve(ds *wham.Dataset, opts Options) (*Result, error) {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 100000
	}

	numBins := ds.NumBins()
	numWindows := ds.NumWindows

	p := make([]float64, numBins)
	f := make([]float64, numWindows)
	fPrev := make([]float64, numWindows)
	for w := range fPrev {
		fPrev[w] = 1.0
		f[w] = 1.0
	}

	// Weighted bin counts and per-window N*weight products never change
	// across iterations; precompute them once.
	numerator := make([]float64, numBins)
	for b := 0; b < numBins; b++ {
		numerator[b] = ds.WeightedBinCount(b)
	}
	nw := make([]float64, numWindows)
	for w := 0; w < numWindows; w++ {
		nw[w] = float64(ds.Histograms[w].NumPoints) * ds.Weights[w]
	}

	kT := ds.KT
	lastDelta := math.Inf(1)
	iteration := 0

	for iteration = 1; iteration <= opts.MaxIterations; iteration++ {
		updateP(p, numerator, nw, ds.Bias, fPrev, numBins, numWindows, opts.Parallelism)
		updateF(f, p, ds.Bias, numBins, numWindows, opts.Parallelism)

		if iteration%10 == 0 {
			delta := maxLogDelta(f, fPrev, kT, numWindows)
			lastDelta = delta
			if opts.OnProgress != nil {
				opts.OnProgress(iteration, delta)
			}
			if delta <= opts.Tolerance {
				copy(fPrev, f)
				break
			}
		}
		copy(fPrev, f)
		if iteration == opts.MaxIterations {
			return nil, &whamerr.ConvergenceError{Iterations: iteration, LastDelta: lastDelta, Tolerance: opts.Tolerance}
		}
	}

	normalize(p)

	result := &Result{
		P:          p,
		F:          make([]float64, numWindows),
		Iterations: iteration,
		LastDelta:  lastDelta,
	}
	for w := 0; w < numWindows; w++ {
		result.F[w] = -kT * math.Log(f[w])
	}
	return result, nil
}

// updateP performs step 1 of the iteration, splitting the bin loop into
// contiguous batches across workers. Each bin's denominator
// sum iterates windows 0..N-1 in a fixed sequential order regardless of
// batch assignment, so the result does not depend on Parallelism.
func updateP(p, numerator, nw, bias, fPrev []float64, numBins, numWindows, parallelism int) {
	runBatched(numBins, parallelism, func(lo, hi int) {
		for b := lo; b < hi; b++ {
			var denom float64
			for w := 0; w < numWindows; w++ {
				denom += nw[w] * bias[w*numBins+b] * fPrev[w]
			}
			if denom == 0 {
				p[b] = 0
			} else {
				p[b] = numerator[b] / denom
			}
		}
	})
}

// updateF performs step 2 of the iteration, splitting the window loop into
// contiguous batches across workers.
func updateF(f, p, bias []float64, numBins, numWindows, parallelism int) {
	runBatched(numWindows, parallelism, func(lo, hi int) {
		for w := lo; w < hi; w++ {
			var denom float64
			for b := 0; b < numBins; b++ {
				denom += p[b] * bias[w*numBins+b]
			}
			if denom == 0 {
				f[w] = 1.0
			} else {
				f[w] = 1.0 / denom
			}
		}
	})
}

// runBatched divides [0, n) into up to `parallelism` contiguous, disjoint
// batches and runs fn on each from its own goroutine, returning only after
// every batch has finished: the bin phase and the window phase must not
// overlap, since updateF reads the p slice updateP just wrote.
func runBatched(n, parallelism int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	if parallelism > n {
		parallelism = n
	}
	if parallelism <= 1 {
		fn(0, n)
		return
	}

	batchSize := (n + parallelism - 1) / parallelism
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += batchSize {
		hi := lo + batchSize
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// maxLogDelta computes max_w |F_kT[w] - F_kT_prev[w]| in log space, per the
// periodic convergence check. F[w] is never zero: it is initialised
// to 1 and every subsequent value is the reciprocal of a sum of
// non-negative terms that is strictly positive for any window whose bias
// overlaps a populated bin, so math.Log never sees zero here.
func maxLogDelta(f, fPrev []float64, kT float64, numWindows int) float64 {
	var maxDelta float64
	for w := 0; w < numWindows; w++ {
		fKT := -kT * math.Log(f[w])
		fKTPrev := -kT * math.Log(fPrev[w])
		d := math.Abs(fKT - fKTPrev)
		if d > maxDelta {
			maxDelta = d
		}
	}
	return maxDelta
}

// normalize rescales p in place so sum(p) == 1.
func normalize(p []float64) {
	var total float64
	for _, v := range p {
		total += v
	}
	if total == 0 {
		return
	}
	for i := range p {
		p[i] /= total
	}
}
