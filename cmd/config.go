package cmd

import (
	"bytes"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dnlbauer/wham-go/run"
	"github.com/dnlbauer/wham-go/whamerr"
)

// RunConfig is the YAML/flag-facing run configuration: every field maps
// to one entry of the run configuration table. CLI flags populate the same
// struct that an optional --config file is decoded into, so a file supplies
// defaults and flags explicitly set on the command line take precedence.
type RunConfig struct {
	MetadataFile  string    `yaml:"metadata_file"`
	HistMin       []float64 `yaml:"hist_min"`
	HistMax       []float64 `yaml:"hist_max"`
	NumBins       []int     `yaml:"num_bins"`
	Temperature   float64   `yaml:"temperature"`
	Tolerance     float64   `yaml:"tolerance"`
	MaxIterations int       `yaml:"max_iterations"`
	Cyclic        bool      `yaml:"cyclic"`
	Start         float64   `yaml:"start"`
	End           float64   `yaml:"end"`
	Bootstrap     int       `yaml:"bootstrap"`
	BootstrapSeed int64     `yaml:"bootstrap_seed"`
	Uncorr        bool      `yaml:"uncorr"`
	Convdt        float64   `yaml:"convdt"`
	IgnoreEmpty   bool      `yaml:"ignore_empty"`
	Output        string    `yaml:"output"`

	// Ambient, not part of the reconstruction contract itself.
	Parallelism int    `yaml:"parallelism"`
	LogLevel    string `yaml:"log_level"`
}

// defaultRunConfig mirrors the reference implementation's defaults: no
// bootstrap, no convdt sweep, a generous iteration cap and a tolerance tight
// enough to resolve sub-0.01 kJ/mol features at room temperature.
func defaultRunConfig() RunConfig {
	return RunConfig{
		Temperature:   300.0,
		Tolerance:     1e-6,
		MaxIterations: 100000,
		Start:         math.NaN(),
		End:           math.NaN(),
		Output:        "pmf.dat",
		Parallelism:   0,
		LogLevel:      "info",
	}
}

// loadConfigFile decodes a YAML file into cfg, rejecting unknown keys the
// same way the reference defaults.yaml loader does: a typo'd key is a fatal
// config error, not a silently-ignored field.
func loadConfigFile(path string, cfg *RunConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &whamerr.InputError{Path: path, Err: err}
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return &whamerr.ConfigError{Msg: "parsing " + path + ": " + err.Error()}
	}
	return nil
}

// Validate checks the cross-field invariants a YAML/flag decode cannot
// express on its own: matching per-dimension slice lengths, and option
// combinations that only make sense together.
func (c *RunConfig) Validate() error {
	d := len(c.HistMin)
	if d == 0 {
		return &whamerr.ConfigError{Msg: "hist_min must have at least one dimension"}
	}
	if len(c.HistMax) != d || len(c.NumBins) != d {
		return &whamerr.DimensionMismatchError{
			Field: "hist_min/hist_max/num_bins",
			Lens:  []int{len(c.HistMin), len(c.HistMax), len(c.NumBins)},
		}
	}
	for i := 0; i < d; i++ {
		if c.HistMax[i] <= c.HistMin[i] {
			return &whamerr.ConfigError{Msg: "hist_max must exceed hist_min in every dimension"}
		}
		if c.NumBins[i] <= 0 {
			return &whamerr.ConfigError{Msg: "num_bins must be positive in every dimension"}
		}
	}
	if c.MetadataFile == "" {
		return &whamerr.ConfigError{Msg: "metadata_file is required"}
	}
	if c.Temperature <= 0 {
		return &whamerr.ConfigError{Msg: "temperature must be positive"}
	}
	if c.Convdt > 0 && (math.IsNaN(c.Start) || math.IsNaN(c.End)) {
		return &whamerr.ConfigError{Msg: "convdt requires both start and end to be set"}
	}
	if c.Bootstrap < 0 {
		return &whamerr.ConfigError{Msg: "bootstrap must be >= 0"}
	}
	return nil
}

// ToRunConfig translates the CLI-facing RunConfig into the engine-facing
// run.Config, wiring the logrus callbacks run.Execute uses for progress and
// warning output.
func (c *RunConfig) ToRunConfig(onProgress func(int, float64), onWarning func(string, ...any)) run.Config {
	return run.Config{
		MetadataFile:  c.MetadataFile,
		HistMin:       c.HistMin,
		HistMax:       c.HistMax,
		NumBins:       c.NumBins,
		Temperature:   c.Temperature,
		Tolerance:     c.Tolerance,
		MaxIterations: c.MaxIterations,
		Cyclic:        c.Cyclic,
		Start:         c.Start,
		End:           c.End,
		Bootstrap:     c.Bootstrap,
		BootstrapSeed: c.BootstrapSeed,
		Uncorr:        c.Uncorr,
		Convdt:        c.Convdt,
		IgnoreEmpty:   c.IgnoreEmpty,
		Output:        c.Output,
		Parallelism:   c.Parallelism,
		OnProgress:    onProgress,
		OnWarning:     onWarning,
	}
}
