// cmd/root.go
package cmd

import (
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dnlbauer/wham-go/run"
)

var (
	configFile string
	cfg        = defaultRunConfig()
)

var rootCmd = &cobra.Command{
	Use:   "wham",
	Short: "Weighted Histogram Analysis Method reconstruction from umbrella-sampling windows",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wham version",
	Run: func(cmd *cobra.Command, args []string) {
		logrus.Info(version)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconstruct a free-energy profile from umbrella-sampling windows",
	Run: func(cmd *cobra.Command, args []string) {
		if configFile != "" {
			// Flags given on the command line override values loaded from
			// the config file, so decode the file into a fresh struct and
			// only copy fields the user did not also set via flags.
			fromFile := defaultRunConfig()
			if err := loadConfigFile(configFile, &fromFile); err != nil {
				logrus.Fatalf("%v", err)
			}
			mergeFlagsOver(&fromFile, cmd)
			cfg = fromFile
		}

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
		}
		logrus.SetLevel(level)

		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("starting WHAM reconstruction: metadata=%s dims=%d temperature=%gK",
			cfg.MetadataFile, len(cfg.HistMin), cfg.Temperature)

		onProgress := func(iteration int, delta float64) {
			logrus.Debugf("iteration %d: max|ΔF|=%g kJ/mol", iteration, delta)
		}
		onWarning := func(format string, args ...any) {
			logrus.Warnf(format, args...)
		}

		if err := run.Execute(cfg.ToRunConfig(onProgress, onWarning)); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("wrote PMF to %s", cfg.Output)
	},
}

// mergeFlagsOver copies fields the user explicitly set on the command line
// from the flag-bound package-level cfg into fileCfg, so an explicit flag
// always wins over a value loaded from --config.
func mergeFlagsOver(fileCfg *RunConfig, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("metadata-file") {
		fileCfg.MetadataFile = cfg.MetadataFile
	}
	if flags.Changed("hist-min") {
		fileCfg.HistMin = cfg.HistMin
	}
	if flags.Changed("hist-max") {
		fileCfg.HistMax = cfg.HistMax
	}
	if flags.Changed("num-bins") {
		fileCfg.NumBins = cfg.NumBins
	}
	if flags.Changed("temperature") {
		fileCfg.Temperature = cfg.Temperature
	}
	if flags.Changed("tolerance") {
		fileCfg.Tolerance = cfg.Tolerance
	}
	if flags.Changed("max-iterations") {
		fileCfg.MaxIterations = cfg.MaxIterations
	}
	if flags.Changed("cyclic") {
		fileCfg.Cyclic = cfg.Cyclic
	}
	if flags.Changed("start") {
		fileCfg.Start = cfg.Start
	}
	if flags.Changed("end") {
		fileCfg.End = cfg.End
	}
	if flags.Changed("bootstrap") {
		fileCfg.Bootstrap = cfg.Bootstrap
	}
	if flags.Changed("bootstrap-seed") {
		fileCfg.BootstrapSeed = cfg.BootstrapSeed
	}
	if flags.Changed("uncorr") {
		fileCfg.Uncorr = cfg.Uncorr
	}
	if flags.Changed("convdt") {
		fileCfg.Convdt = cfg.Convdt
	}
	if flags.Changed("ignore-empty") {
		fileCfg.IgnoreEmpty = cfg.IgnoreEmpty
	}
	if flags.Changed("output") {
		fileCfg.Output = cfg.Output
	}
	if flags.Changed("parallelism") {
		fileCfg.Parallelism = cfg.Parallelism
	}
	if flags.Changed("log") {
		fileCfg.LogLevel = cfg.LogLevel
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configFile, "config", "", "optional YAML file supplying defaults for any flag below")

	runCmd.Flags().StringVar(&cfg.MetadataFile, "metadata-file", "", "path to the window metadata file")
	runCmd.Flags().Float64SliceVar(&cfg.HistMin, "hist-min", nil, "per-dimension histogram lower bound")
	runCmd.Flags().Float64SliceVar(&cfg.HistMax, "hist-max", nil, "per-dimension histogram upper bound")
	runCmd.Flags().IntSliceVar(&cfg.NumBins, "num-bins", nil, "per-dimension bin count")
	runCmd.Flags().Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "simulation temperature in Kelvin")
	runCmd.Flags().Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "convergence tolerance on max|ΔF| in kJ/mol")
	runCmd.Flags().IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "maximum solver iterations before a fatal non-convergence error")
	runCmd.Flags().BoolVar(&cfg.Cyclic, "cyclic", false, "wrap the reaction coordinate's bias distance at the histogram extent (periodic dihedrals)")
	runCmd.Flags().Float64Var(&cfg.Start, "start", math.NaN(), "discard samples before this time (unset = no lower bound)")
	runCmd.Flags().Float64Var(&cfg.End, "end", math.NaN(), "discard samples after this time (unset = no upper bound)")
	runCmd.Flags().IntVar(&cfg.Bootstrap, "bootstrap", 0, "number of bootstrap replicates for standard-error estimation (0 disables)")
	runCmd.Flags().Int64Var(&cfg.BootstrapSeed, "bootstrap-seed", 0, "seed for the bootstrap weight generator")
	runCmd.Flags().BoolVar(&cfg.Uncorr, "uncorr", false, "subsample each window to its statistically independent stride before histogramming")
	runCmd.Flags().Float64Var(&cfg.Convdt, "convdt", 0, "emit a growing-window convergence sweep with this interval (0 disables)")
	runCmd.Flags().BoolVar(&cfg.IgnoreEmpty, "ignore-empty", false, "treat an empty window histogram as a warning instead of a fatal error")
	runCmd.Flags().StringVar(&cfg.Output, "output", cfg.Output, "output PMF file path")
	runCmd.Flags().IntVar(&cfg.Parallelism, "parallelism", 0, "solver worker count (0 = number of CPUs)")
	runCmd.Flags().StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}
