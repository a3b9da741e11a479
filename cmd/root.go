package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/lane-sim/sim"
	"github.com/inference-sim/lane-sim/sim/trace"
)

var (
	// CLI flags for the simulated intersection
	policyName    string  // Policy to run ("all" runs every policy)
	numLanes      int     // Number of lanes
	numTicks      int     // Total simulation length (in ticks)
	arrivalProb   float64 // Per-lane per-tick arrival probability
	timeSlice     int     // Round-robin time slice (in ticks)
	emergencyProb float64 // Per-tick emergency probability for the priority policy
	seed          int64   // Seed for arrivals and emergency draws

	// CLI flags for inputs and outputs
	scenarioPath string // Optional YAML scenario file
	outputDir    string // Directory for per-policy history files ("" = none)
	outputFormat string // History file format: csv or json
	traceLevel   string // Decision trace level
	logLevel     string // Log verbosity level
)

// policyAll selects every policy.
const policyAll = "all"

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lane-sim",
	Short: "Discrete-time simulator of lane scheduling at a shared intersection",
}

// runCmd executes the simulation using parameters from the scenario file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lane scheduling simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, kinds, err := resolveRun(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if !IsValidFormat(outputFormat) {
			logrus.Fatalf("Unknown output format %q (want csv or json)", outputFormat)
		}

		logrus.Infof("Running %d policies: lanes=%d ticks=%d arrival_prob=%v time_slice=%d emergency_prob=%v seed=%d",
			len(kinds), cfg.NumLanes, cfg.NumTicks, cfg.ArrivalProb, cfg.TimeSlice, cfg.EmergencyProb, cfg.Seed)

		results, err := sim.Compare(context.Background(), cfg, kinds)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		for _, r := range results {
			sim.NewReport(r).Print(os.Stdout)
			if r.Trace != nil {
				printTraceSummary(os.Stdout, trace.Summarize(r.Trace))
			}
			fmt.Fprintln(os.Stdout)
			if outputDir != "" {
				path, err := WriteHistory(outputDir, outputFormat, r)
				if err != nil {
					logrus.Fatalf("Writing history: %v", err)
				}
				logrus.Infof("Wrote %s history to %s", r.Kind, path)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

// resolveRun builds the run configuration: defaults, then the scenario file,
// then flags the user explicitly set. Returns an error wrapping
// sim.ErrInvalidConfig on bad values.
func resolveRun(cmd *cobra.Command) (sim.Config, []sim.PolicyKind, error) {
	cfg := sim.DefaultConfig()
	var kinds []sim.PolicyKind

	if scenarioPath != "" {
		sc, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			return cfg, nil, err
		}
		if err := sc.Validate(); err != nil {
			return cfg, nil, fmt.Errorf("scenario %s: %w", scenarioPath, err)
		}
		sc.Apply(&cfg)
		kinds = sc.PolicyKinds()
	}

	// Flags override the scenario only when explicitly passed.
	flags := cmd.Flags()
	if flags.Changed("lanes") || scenarioPath == "" {
		cfg.NumLanes = numLanes
	}
	if flags.Changed("ticks") || scenarioPath == "" {
		cfg.NumTicks = numTicks
	}
	if flags.Changed("arrival-prob") || scenarioPath == "" {
		cfg.ArrivalProb = arrivalProb
	}
	if flags.Changed("time-slice") || scenarioPath == "" {
		cfg.TimeSlice = timeSlice
	}
	if flags.Changed("emergency-prob") || scenarioPath == "" {
		cfg.EmergencyProb = emergencyProb
	}
	if flags.Changed("seed") || scenarioPath == "" {
		cfg.Seed = seed
	}
	if flags.Changed("trace") || scenarioPath == "" {
		cfg.TraceLevel = trace.TraceLevel(traceLevel)
	}
	if flags.Changed("policy") || kinds == nil {
		parsed, err := ParsePolicies(policyName)
		if err != nil {
			return cfg, nil, err
		}
		kinds = parsed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, kinds, nil
}

// ParsePolicies turns a comma-separated policy list into kinds.
// "all" expands to every policy.
func ParsePolicies(s string) ([]sim.PolicyKind, error) {
	if s == policyAll {
		return sim.AllPolicies(), nil
	}
	var kinds []sim.PolicyKind
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if !sim.IsValidPolicy(name) {
			return nil, fmt.Errorf("%w: unknown policy %q (want %s, round-robin, priority or srtf)", sim.ErrInvalidConfig, name, policyAll)
		}
		kinds = append(kinds, sim.PolicyKind(name))
	}
	return kinds, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}

func registerRunFlags(c *cobra.Command) {
	c.Flags().StringVar(&policyName, "policy", policyAll, "Policy to run: all, round-robin, priority, srtf (comma-separated)")
	c.Flags().IntVar(&numLanes, "lanes", sim.DefaultNumLanes, "Number of lanes")
	c.Flags().IntVar(&numTicks, "ticks", sim.DefaultNumTicks, "Total simulation length (in ticks)")
	c.Flags().Float64Var(&arrivalProb, "arrival-prob", sim.DefaultArrivalProb, "Per-lane per-tick arrival probability")
	c.Flags().IntVar(&timeSlice, "time-slice", sim.DefaultTimeSlice, "Round-robin time slice (in ticks)")
	c.Flags().Float64Var(&emergencyProb, "emergency-prob", sim.DefaultEmergencyProb, "Per-tick emergency probability for the priority policy")
	c.Flags().Int64Var(&seed, "seed", sim.DefaultSeed, "Seed for arrivals and emergency draws")

	c.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file; explicitly set flags override it")
	c.Flags().StringVar(&outputDir, "output-dir", "", "Directory for per-policy history files")
	c.Flags().StringVar(&outputFormat, "format", FormatCSV, "History file format (csv, json)")
	c.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
