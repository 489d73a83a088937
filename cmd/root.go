package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/tower-sim/sim"
	"github.com/inference-sim/tower-sim/sim/trace"
)

var (
	// CLI flags for the run command
	inputPath    string  // Jet pattern file
	configPath   string  // Optional YAML run configuration
	targets      []int64 // Object counts, each simulated on a fresh chamber
	width        int     // Chamber width in columns
	spawnX       int     // Empty columns between the left wall and a spawned shape
	spawnGap     int     // Empty rows between the tower top and a spawned shape
	noCycles     bool    // Disable cycle detection (pure direct simulation)
	noConfirm    bool    // Skip on the first fingerprint repeat without confirming it
	parallel     int     // Max simulations running at once
	traceLevel   string  // Trace verbosity (none, cycles, settlements)
	printMetrics bool    // Print per-run metrics JSON to stderr
	logLevel     string  // Log verbosity level

	// CLI flags for the profile command
	profileObjects int64 // Objects to drop before rendering
	profileRows    int   // Rows to render from the top

	// CLI flags for the verify command
	verifyUpTo int64 // Every target in [1, verifyUpTo] is cross-checked

	// CLI flags for the gen command
	genSeed      int64   // Seed for the generated pattern
	genMinLength int     // Shortest pattern length
	genMaxLength int     // Longest pattern length
	genBias      float64 // Probability of '>'
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "tower-sim",
	Short: "Falling-shape tower simulator with cycle extrapolation",
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveRun merges defaults, the optional config file and explicitly set flags.
// Flags win over the file only when the user actually passed them.
func resolveRun(cmd *cobra.Command) (sim.SimConfig, string, []int64, int, error) {
	cfg := sim.DefaultSimConfig()
	input, runTargets, workers := inputPath, targets, parallel

	if configPath != "" {
		fc, err := LoadFileConfig(configPath)
		if err != nil {
			return sim.SimConfig{}, "", nil, 0, err
		}
		if cfg, err = fc.Apply(cfg); err != nil {
			return sim.SimConfig{}, "", nil, 0, err
		}
		if fc.Input != "" && !cmd.Flags().Changed("input") {
			input = fc.Input
		}
		if len(fc.Targets) > 0 && !cmd.Flags().Changed("targets") {
			runTargets = fc.Targets
		}
		if fc.Parallel > 0 && !cmd.Flags().Changed("parallel") {
			workers = fc.Parallel
		}
	}

	flags := cmd.Flags()
	if configPath == "" || flags.Changed("width") {
		cfg.Chamber.Width = width
	}
	if configPath == "" || flags.Changed("spawn-x") {
		cfg.Chamber.SpawnX = spawnX
	}
	if configPath == "" || flags.Changed("spawn-gap") {
		cfg.Chamber.SpawnGap = spawnGap
	}
	if flags.Changed("no-cycles") {
		cfg.DetectCycles = !noCycles
	}
	if flags.Changed("no-confirm") {
		cfg.ConfirmCycles = !noConfirm
	}
	if configPath == "" || flags.Changed("trace") {
		if !trace.IsValidTraceLevel(traceLevel) {
			return sim.SimConfig{}, "", nil, 0, fmt.Errorf("unknown trace level %q: %w", traceLevel, sim.ErrConfiguration)
		}
		cfg.Trace = trace.TraceConfig{Level: trace.TraceLevel(traceLevel)}
	}

	if input == "" {
		return sim.SimConfig{}, "", nil, 0, errors.New("no jet pattern input provided (--input or config 'input')")
	}
	return cfg, input, runTargets, workers, nil
}

// printResults writes one "<target>: <height>" line per result.
func printResults(w io.Writer, results []sim.Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%d: %d\n", r.Target, r.Height); err != nil {
			return err
		}
	}
	return nil
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one or more target object counts and print the tower heights",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, input, runTargets, workers, err := resolveRun(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		jets, err := sim.LoadDeflections(input)
		if err != nil {
			logrus.Fatalf("Unable to load jet pattern: %v", err)
		}

		logrus.Infof("Starting simulation: width=%d spawn=(%d,+%d) shapes=%d jets=%d targets=%v cycles=%v",
			cfg.Chamber.Width, cfg.Chamber.SpawnX, cfg.Chamber.SpawnGap, len(cfg.Catalog), len(jets), runTargets, cfg.DetectCycles)
		startTime := time.Now()

		results, err := sim.RunTargets(context.Background(), cfg, jets, runTargets, workers)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := printResults(cmd.OutOrStdout(), results); err != nil {
			logrus.Fatalf("Writing results: %v", err)
		}

		for _, r := range results {
			if printMetrics {
				if err := r.Metrics.Print(cmd.ErrOrStderr(), r.Target); err != nil {
					logrus.Errorf("Writing metrics: %v", err)
				}
			}
			if r.Trace != nil {
				s := trace.Summarize(r.Trace)
				logrus.WithField("run", r.RunID).Infof("Trace: settlements=%d cycle=%v length=%d delta=%d skipped=%d",
					s.TotalSettlements, s.CycleFound, s.CycleLength, s.CycleHeightDelta, s.SkippedObjects)
			}
		}
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// profileCmd renders the top of the tower after a direct simulation.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Drop objects directly and render the top rows and skyline profile",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, input, _, _, err := resolveRun(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		cfg.DetectCycles = false
		jets, err := sim.LoadDeflections(input)
		if err != nil {
			logrus.Fatalf("Unable to load jet pattern: %v", err)
		}

		s, err := sim.NewSimulator(cfg, jets)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		res, err := s.Run(profileObjects)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, s.Chamber().Render(profileRows, nil))
		fmt.Fprintf(out, "height: %d\nprofile: %v\n", res.Height, s.Chamber().Profile())
	},
}

// verifyCmd cross-checks the accelerated path against direct simulation.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare accelerated heights against direct simulation for every target up to --upto",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, input, _, workers, err := resolveRun(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if verifyUpTo < 1 {
			logrus.Fatalf("Invalid configuration: --upto must be >= 1, got %d", verifyUpTo)
		}
		jets, err := sim.LoadDeflections(input)
		if err != nil {
			logrus.Fatalf("Unable to load jet pattern: %v", err)
		}

		checkTargets := make([]int64, verifyUpTo)
		for i := range checkTargets {
			checkTargets[i] = int64(i + 1)
		}
		report, err := sim.Verify(context.Background(), cfg, jets, checkTargets, workers)
		if err != nil {
			logrus.Fatalf("Verification failed: %v", err)
		}

		out := cmd.OutOrStdout()
		for _, m := range report.Mismatches {
			fmt.Fprintf(out, "mismatch %d: direct=%d accelerated=%d\n", m.Target, m.Direct, m.Accelerated)
		}
		fmt.Fprintf(out, "checked=%d skipped=%d mismatches=%d\n", report.Checked, report.Skipped, len(report.Mismatches))
		if len(report.Mismatches) > 0 {
			logrus.Fatalf("%d targets disagree with direct simulation", len(report.Mismatches))
		}
	},
}

// genCmd writes a seeded random jet pattern to stdout.
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a reproducible random jet pattern",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(genSeed))
		jets, err := sim.GenerateDeflections(rng, sim.PatternSpec{MinLength: genMinLength, MaxLength: genMaxLength, RightBias: genBias})
		if err != nil {
			return err
		}
		logrus.Debugf("generated %d jets from seed %d", len(jets), genSeed)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), sim.FormatDeflections(jets))
		return err
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerChamberFlags adds the flags shared by run and profile.
func registerChamberFlags(c *cobra.Command) {
	c.Flags().StringVar(&inputPath, "input", "", "Jet pattern file ('<' and '>' only)")
	c.Flags().StringVar(&configPath, "config", "", "YAML run configuration file")
	c.Flags().IntVar(&width, "width", sim.DefaultWidth, "Chamber width in columns")
	c.Flags().IntVar(&spawnX, "spawn-x", sim.DefaultSpawnX, "Empty columns between the left wall and a spawned shape")
	c.Flags().IntVar(&spawnGap, "spawn-gap", sim.DefaultSpawnGap, "Empty rows between the tower top and a spawned shape")
	c.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Trace verbosity (none, cycles, settlements)")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// registerRunFlags adds the run command's flags.
func registerRunFlags(c *cobra.Command) {
	registerChamberFlags(c)
	c.Flags().Int64SliceVar(&targets, "targets", []int64{2022, 1_000_000_000_000}, "Comma-separated object counts to simulate")
	c.Flags().BoolVar(&noCycles, "no-cycles", false, "Disable cycle detection and simulate every object")
	registerConfirmFlags(c)
	c.Flags().BoolVar(&printMetrics, "metrics", false, "Print per-run metrics JSON to stderr")
}

// registerConfirmFlags adds the flags shared by run and verify.
func registerConfirmFlags(c *cobra.Command) {
	c.Flags().BoolVar(&noConfirm, "no-confirm", false, "Fast-forward on the first fingerprint repeat without confirming it")
	c.Flags().IntVar(&parallel, "parallel", 2, "Maximum simulations running concurrently")
}

// registerVerifyFlags adds the verify command's flags.
func registerVerifyFlags(c *cobra.Command) {
	registerChamberFlags(c)
	registerConfirmFlags(c)
	c.Flags().Int64Var(&verifyUpTo, "upto", 3000, "Largest target to cross-check")
}

// registerGenFlags adds the gen command's flags.
func registerGenFlags(c *cobra.Command) {
	c.Flags().Int64Var(&genSeed, "seed", 1, "Seed for the generated pattern")
	c.Flags().IntVar(&genMinLength, "min-length", 10, "Shortest pattern length")
	c.Flags().IntVar(&genMaxLength, "max-length", 60, "Longest pattern length")
	c.Flags().Float64Var(&genBias, "bias", 0.5, "Probability of a '>' symbol")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// registerProfileFlags adds the profile command's flags.
func registerProfileFlags(c *cobra.Command) {
	registerChamberFlags(c)
	c.Flags().Int64Var(&profileObjects, "objects", 2022, "Objects to drop before rendering")
	c.Flags().IntVar(&profileRows, "rows", 20, "Rows to render from the top of the tower")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)
	registerProfileFlags(profileCmd)
	registerVerifyFlags(verifyCmd)
	registerGenFlags(genCmd)

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(genCmd)
}
