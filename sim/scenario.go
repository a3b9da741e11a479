package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/lane-sim/sim/trace"
)

// Scenario holds run configuration loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and do not override the base Config.
// An empty Policies list means "not set".
type Scenario struct {
	Lanes         *int     `yaml:"lanes"`
	Ticks         *int     `yaml:"ticks"`
	ArrivalProb   *float64 `yaml:"arrival_prob"`
	TimeSlice     *int     `yaml:"time_slice"`
	EmergencyProb *float64 `yaml:"emergency_prob"`
	Seed          *int64   `yaml:"seed"`
	Trace         string   `yaml:"trace"`
	Policies      []string `yaml:"policies"`
}

// LoadScenario reads and parses a YAML scenario file.
// Unknown keys are rejected so typos surface as errors. An empty file is an
// empty Scenario.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks that policy names and the trace level are recognized.
// Numeric ranges are checked by Config.Validate after Apply.
func (sc *Scenario) Validate() error {
	for _, p := range sc.Policies {
		if !IsValidPolicy(p) {
			return fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, p)
		}
	}
	if !trace.IsValidTraceLevel(sc.Trace) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, sc.Trace)
	}
	return nil
}

// Apply overrides the fields of cfg that are set in the scenario.
func (sc *Scenario) Apply(cfg *Config) {
	if sc.Lanes != nil {
		cfg.NumLanes = *sc.Lanes
	}
	if sc.Ticks != nil {
		cfg.NumTicks = *sc.Ticks
	}
	if sc.ArrivalProb != nil {
		cfg.ArrivalProb = *sc.ArrivalProb
	}
	if sc.TimeSlice != nil {
		cfg.TimeSlice = *sc.TimeSlice
	}
	if sc.EmergencyProb != nil {
		cfg.EmergencyProb = *sc.EmergencyProb
	}
	if sc.Seed != nil {
		cfg.Seed = *sc.Seed
	}
	if sc.Trace != "" {
		cfg.TraceLevel = trace.TraceLevel(sc.Trace)
	}
}

// PolicyKinds returns the scenario's policies, or nil when none are set.
func (sc *Scenario) PolicyKinds() []PolicyKind {
	if len(sc.Policies) == 0 {
		return nil
	}
	kinds := make([]PolicyKind, len(sc.Policies))
	for i, p := range sc.Policies {
		kinds[i] = PolicyKind(p)
	}
	return kinds
}
