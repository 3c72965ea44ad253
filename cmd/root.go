package cmd

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/kernel-sim/kernel-sim/sim"
	"github.com/kernel-sim/kernel-sim/sim/trace"
)

var (
	// CLI flags for the machine and kernel
	configPath        string // YAML SimConfig file
	workloadPath      string // YAML workload file (empty = built-in demo)
	schedulerName     string // Scheduling policy
	quantum           int    // Round-robin quantum (in ticks)
	agingInterval     int    // Ticks between aging steps for the priority policies
	memorySize        int    // Physical memory cells
	frameSize         int    // Cells per frame
	ioLatency         int    // Ticks per I/O operation
	simulationHorizon int64  // Max simulated ticks (0 = until idle)
	logLevel          string // Log verbosity level
	ganttEnabled      bool   // Print the Gantt chart
	noColor           bool   // Disable ANSI colours
	resultsPath       string // YAML results file
	generatePrograms  int    // Number of random programs to generate (0 = off)
	seed              int64  // Seed for workload generation
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "kernel-sim",
	Short: "Tick-driven simulator of a single-CPU operating-system kernel",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the kernel simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := buildSimConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		workload, err := selectWorkload(workloadPath, generatePrograms, seed)
		if err != nil {
			logrus.Fatalf("Invalid workload: %v", err)
		}

		s, err := runSimulation(cmd.Context(), cfg, workload, os.Stdout)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		printReport(s, os.Stdout)
		if resultsPath != "" {
			if err := s.Kernel.Metrics().SaveResults(resultsPath, s.Kernel.PCBTable()); err != nil {
				logrus.Fatalf("Saving results: %v", err)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

// buildSimConfig starts from the config file (or defaults) and applies the
// flags the user set explicitly.
func buildSimConfig(cmd *cobra.Command) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	if configPath != "" {
		loaded, err := sim.LoadSimConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("scheduler") {
		cfg.Scheduler.Name = schedulerName
	}
	if flags.Changed("quantum") {
		cfg.Scheduler.Quantum = quantum
	}
	if flags.Changed("aging-interval") {
		cfg.Scheduler.AgingInterval = agingInterval
	}
	if flags.Changed("memory-size") {
		cfg.Machine.MemorySize = memorySize
	}
	if flags.Changed("frame-size") {
		cfg.Machine.FrameSize = frameSize
	}
	if flags.Changed("io-latency") {
		cfg.Machine.IOLatency = ioLatency
	}
	if flags.Changed("horizon") {
		cfg.Horizon = simulationHorizon
	}
	if flags.Changed("gantt") {
		cfg.Trace.Level = trace.TraceLevelNone
		if ganttEnabled {
			cfg.Trace.Level = trace.TraceLevelGantt
		}
	}
	if flags.Changed("no-color") {
		cfg.Trace.NoColor = noColor
	}
	return cfg, cfg.Validate()
}

// runSimulation boots a kernel for cfg, applies workload and runs the clock.
// The Gantt chart, when enabled, is written to out.
func runSimulation(ctx context.Context, cfg sim.SimConfig, workload *sim.WorkloadSpec, out io.Writer) (*sim.Simulation, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := sim.NewSimulation(cfg, out)
	if err := workload.Apply(s); err != nil {
		return nil, err
	}
	logrus.Infof("Starting simulation: scheduler=%s quantum=%d horizon=%d",
		cfg.Scheduler.Name, cfg.Scheduler.Quantum, cfg.Horizon)
	if _, err := s.Start(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// printReport writes the run metrics and, when the Gantt tracer was on, the
// trace summary.
func printReport(s *sim.Simulation, out io.Writer) {
	s.Kernel.Metrics().Print(out, s.Kernel.PCBTable())
	if s.Gantt != nil {
		trace.Summarize(s.Gantt).Print(out)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags to cmd.
func registerRunFlags(cmd *cobra.Command) {
	defaults := sim.DefaultSimConfig()

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML simulation config")
	cmd.Flags().StringVar(&workloadPath, "workload", "", "Path to a YAML workload (default: built-in demo)")
	cmd.Flags().IntVar(&generatePrograms, "generate", 0, "Generate a random workload of this many programs instead of --workload")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random workload generation")
	cmd.Flags().Int64Var(&simulationHorizon, "horizon", 0, "Max simulated ticks (0 runs until the kernel is idle)")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Kernel
	cmd.Flags().StringVar(&schedulerName, "scheduler", defaults.Scheduler.Name, "Scheduling policy (fcfs, priority, priority-preemptive, round-robin)")
	cmd.Flags().IntVar(&quantum, "quantum", defaults.Scheduler.Quantum, "Round-robin quantum in ticks")
	cmd.Flags().IntVar(&agingInterval, "aging-interval", defaults.Scheduler.AgingInterval, "Ticks between aging steps for the priority policies")

	// Machine
	cmd.Flags().IntVar(&memorySize, "memory-size", defaults.Machine.MemorySize, "Physical memory cells")
	cmd.Flags().IntVar(&frameSize, "frame-size", defaults.Machine.FrameSize, "Cells per frame")
	cmd.Flags().IntVar(&ioLatency, "io-latency", defaults.Machine.IOLatency, "Ticks per I/O operation")

	// Output
	cmd.Flags().BoolVar(&ganttEnabled, "gantt", false, "Print the per-tick Gantt chart")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	cmd.Flags().StringVar(&resultsPath, "results", "", "Write per-process results to this YAML file")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)
	validateCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML simulation config")
	validateCmd.Flags().StringVar(&workloadPath, "workload", "", "Path to a YAML workload")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
