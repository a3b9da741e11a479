package sim

import (
	"fmt"
	"math"

	"github.com/inference-sim/lane-sim/sim/trace"
)

// Default run parameters. They match the reference intersection model:
// four lanes observed for 100 ticks.
const (
	DefaultNumLanes      = 4
	DefaultNumTicks      = 100
	DefaultArrivalProb   = 0.3
	DefaultTimeSlice     = 5
	DefaultEmergencyProb = 0.05
	DefaultSeed          = 42
)

// Config groups the parameters of a single simulation run.
type Config struct {
	NumLanes      int              // number of lanes (must be > 0)
	NumTicks      int              // ticks to simulate (must be >= 0)
	ArrivalProb   float64          // per-lane per-tick arrival probability in [0,1]
	TimeSlice     int              // consecutive ticks round-robin spends on a lane (must be > 0)
	EmergencyProb float64          // per-tick emergency probability for the priority policy in [0,1]
	Seed          int64            // master seed for the run's PartitionedRNG
	TraceLevel    trace.TraceLevel // "" or "none" disables decision tracing
}

// DefaultConfig returns a Config populated with the default run parameters.
func DefaultConfig() Config {
	return Config{
		NumLanes:      DefaultNumLanes,
		NumTicks:      DefaultNumTicks,
		ArrivalProb:   DefaultArrivalProb,
		TimeSlice:     DefaultTimeSlice,
		EmergencyProb: DefaultEmergencyProb,
		Seed:          DefaultSeed,
		TraceLevel:    trace.TraceLevelNone,
	}
}

// Validate checks parameter ranges. All returned errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if c.NumLanes <= 0 {
		return fmt.Errorf("%w: num_lanes must be positive, got %d", ErrInvalidConfig, c.NumLanes)
	}
	if c.NumTicks < 0 {
		return fmt.Errorf("%w: num_ticks must be non-negative, got %d", ErrInvalidConfig, c.NumTicks)
	}
	if !isProbability(c.ArrivalProb) {
		return fmt.Errorf("%w: arrival_prob must be in [0,1], got %v", ErrInvalidConfig, c.ArrivalProb)
	}
	if c.TimeSlice <= 0 {
		return fmt.Errorf("%w: time_slice must be positive, got %d", ErrInvalidConfig, c.TimeSlice)
	}
	if !isProbability(c.EmergencyProb) {
		return fmt.Errorf("%w: emergency_prob must be in [0,1], got %v", ErrInvalidConfig, c.EmergencyProb)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, c.TraceLevel)
	}
	return nil
}

// NaN fails both comparisons.
func isProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}
