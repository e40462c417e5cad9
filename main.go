// AbxRxPro: antibiotic resistance profiler.
//
// Visualises phenotypic antibiotic resistance as a bubble chart, optionally
// merged with genotypic calls from RGI, staramr and amrfinder. Gene
// frequencies are charted alongside. Merged datasets can be saved as named
// profiles and reloaded without re-parsing the source files, and any chart
// can be exported as a standalone HTML file.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"abxrxpro/benchmark"
	"abxrxpro/config"
)

var (
	// Global flags
	verbose    bool
	benchmarks bool
	dataDir    string

	paths    config.Paths
	settings *config.Settings
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "abxrxpro",
	Short: "AbxRxPro - antibiotic resistance profiler",
	Long: `AbxRxPro visualises phenotypic antibiotic resistance as a bubble chart.

Genotypic data from the major resistance gene callers (RGI, staramr,
amrfinder) can be merged in, with gene frequencies charted alongside.
Datasets are saved as named profiles for instant reloading, and charts
export to standalone interactive HTML files.

Run without arguments to see this help.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		paths = config.Paths{Root: dataDir}
		if err := paths.Ensure(); err != nil {
			return err
		}
		if err := initLogger(); err != nil {
			return err
		}
		var err error
		settings, err = config.LoadSettings(paths.SettingsFile())
		if err != nil {
			return err
		}
		logger.Info("starting", zap.Strings("args", os.Args[1:]))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// initLogger writes structured logs to a dated file under the data
// directory, one file per day. User-facing progress stays on stdout.
func initLogger() error {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{paths.LogFile(time.Now())}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&benchmarks, "benchmark", false, "report runtime and memory usage for the command")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", config.DefaultRoot(), "directory holding profiles, settings and logs")
}

func main() {
	run := func() error { return rootCmd.Execute() }

	var err error
	if hasBenchmarkFlag(os.Args[1:]) {
		label := "abxrxpro " + strings.Join(os.Args[1:], " ")
		err = benchmark.Run(label, run)
	} else {
		err = run()
	}
	if err != nil {
		os.Exit(1)
	}
}

func hasBenchmarkFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--benchmark" {
			return true
		}
	}
	return false
}
