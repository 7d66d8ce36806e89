// Package run is the seam between cmd/ and the engine internals: it
// sequences read -> build Dataset(s) -> solve -> (optional) bootstrap ->
// project -> write. cmd/root.go stays a flag-parsing shim that constructs
// a Config and delegates immediately into Execute.
package run

import (
	"os"

	"github.com/dnlbauer/wham-go/bootstrap"
	"github.com/dnlbauer/wham-go/input"
	"github.com/dnlbauer/wham-go/output"
	"github.com/dnlbauer/wham-go/solver"
	"github.com/dnlbauer/wham-go/wham"
	"github.com/dnlbauer/wham-go/whamerr"
)

// Config is the fully-validated, engine-facing run configuration. cmd.
// RunConfig (CLI flags + optional YAML file) is translated into this before
// Execute is called; Config itself performs no flag parsing.
type Config struct {
	MetadataFile string
	HistMin      []float64
	HistMax      []float64
	NumBins      []int
	Temperature  float64
	Tolerance    float64
	MaxIterations int
	Cyclic       bool
	Start, End   float64 // math.NaN() disables that bound
	Bootstrap    int
	BootstrapSeed int64
	Uncorr       bool
	Convdt       float64
	IgnoreEmpty  bool
	Output       string
	Parallelism  int

	// OnProgress is forwarded to the solver for verbose per-iteration logs.
	OnProgress func(iteration int, maxDelta float64)
	// OnWarning reports a non-fatal condition (e.g. an empty histogram in a
	// non-final convdt interval) to the caller for logging.
	OnWarning func(format string, args ...any)
}

// Execute runs the full pipeline and writes the PMF output file.
func Execute(cfg Config) error {
	dimensions := len(cfg.HistMin)
	grid, err := wham.NewGrid(cfg.HistMin, cfg.HistMax, cfg.NumBins)
	if err != nil {
		return err
	}

	specs, err := input.ParseMetadata(cfg.MetadataFile, dimensions)
	if err != nil {
		return err
	}

	allSamples := make([][]input.Sample, len(specs))
	for i, spec := range specs {
		samples, err := input.ParseTimeSeries(spec.Path, dimensions)
		if err != nil {
			return err
		}
		allSamples[i] = samples
	}

	kT := wham.ThermalEnergy(cfg.Temperature)

	var ends []float64
	if cfg.Convdt > 0 {
		ends = input.ConvdtEndTimes(cfg.Start, cfg.End, cfg.Convdt)
	} else {
		ends = []float64{cfg.End}
	}

	results := make([]output.DatasetResult, 0, len(ends))
	for i, end := range ends {
		isFinal := i == len(ends)-1
		ds, err := buildDataset(cfg, specs, allSamples, grid, kT, end, isFinal)
		if err != nil {
			return err
		}

		solveOpts := solver.Options{
			Tolerance:     cfg.Tolerance,
			MaxIterations: cfg.MaxIterations,
			Parallelism:   cfg.Parallelism,
			OnProgress:    cfg.OnProgress,
		}
		solved, err := solver.Solve(ds, solveOpts)
		if err != nil {
			return err
		}
		freeEnergy := solver.ProjectFreeEnergy(solved.P, kT)

		res := output.DatasetResult{Grid: grid, P: solved.P, A: freeEnergy}
		if cfg.Bootstrap > 0 {
			bsRes, err := bootstrap.Run(ds, bootstrap.Options{
				Replicates:  cfg.Bootstrap,
				Seed:        cfg.BootstrapSeed,
				Parallelism: cfg.Parallelism,
				Solver:      solveOpts,
			})
			if err != nil {
				return err
			}
			res.SEProbability = bsRes.SEProbability
			res.SEFreeEnergy = bsRes.SEFreeEnergy
		}
		results = append(results, res)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return &whamerr.InputError{Path: cfg.Output, Err: err}
	}
	defer f.Close() //nolint:errcheck // write errors below are surfaced via WriteSweep

	return output.WriteSweep(f, results)
}

// buildDataset filters, optionally decorrelates and histograms every
// window's series for the closed interval [cfg.Start, end], then assembles a
// Dataset. Empty histograms are fatal unless this is a non-final convdt
// interval or cfg.IgnoreEmpty is set; in both of those cases a warning is
// reported through cfg.OnWarning instead.
func buildDataset(cfg Config, specs []input.WindowSpec, allSamples [][]input.Sample, grid *wham.Grid, kT, end float64, isFinal bool) (*wham.Dataset, error) {
	windows := make([]input.WindowSeries, len(specs))
	for i, spec := range specs {
		filtered := input.FilterByTime(allSamples[i], cfg.Start, end)
		if cfg.Uncorr {
			filtered = input.Decorrelate(filtered)
		}
		windows[i] = input.WindowSeries{Spec: spec, Samples: filtered}
	}

	ignoreEmpty := cfg.IgnoreEmpty || !isFinal
	ds, err := input.AssembleDataset(windows, grid, kT, cfg.Cyclic, ignoreEmpty)
	if err != nil {
		return nil, err
	}
	if input.AnyEmpty(ds) && cfg.OnWarning != nil {
		cfg.OnWarning("dataset ending at t=%g has an empty window histogram", end)
	}
	return ds, nil
}
