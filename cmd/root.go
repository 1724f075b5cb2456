package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kmc-sim/kmc-sim/sim"
)

var (
	// CLI flags for the run command
	seed       uint64  // Seed for the random generator
	steps      int     // Maximum number of accepted steps (0 = unlimited)
	horizon    float64 // Simulated-time horizon (0 = unlimited)
	systemFile string  // Path to the YAML system definition
	logLevel   string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "kmc-sim",
	Short: "Rejection-free kinetic Monte Carlo event simulator",
}

// runCmd executes a simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a rejection-free KMC simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if systemFile == "" {
			logrus.Fatalf("No system file provided. Exiting simulation.")
		}
		if steps <= 0 && horizon <= 0 {
			logrus.Fatalf("Either --steps or --horizon must be positive.")
		}

		cfg, err := LoadSystemConfig(systemFile)
		if err != nil {
			logrus.Fatalf("Unable to read system config: %v", err)
		}

		logrus.Infof("Starting simulation with %d events, seed=%d, steps=%d, horizon=%g",
			len(cfg.Events), seed, steps, horizon)

		startTime := time.Now()

		runner, err := sim.NewRunner(cfg, seed)
		if err != nil {
			logrus.Fatalf("Unable to build simulation: %v", err)
		}
		metrics, err := runner.Run(steps, horizon)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		metrics.Print()

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Uint64Var(&seed, "seed", 42, "Seed for the random generator")
	runCmd.Flags().IntVar(&steps, "steps", 0, "Maximum number of accepted steps (0 = unlimited)")
	runCmd.Flags().Float64Var(&horizon, "horizon", 0, "Simulated-time horizon (0 = unlimited)")
	runCmd.Flags().StringVar(&systemFile, "system", "", "Path to the YAML system definition")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
