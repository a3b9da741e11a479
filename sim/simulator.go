package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/lane-sim/sim/trace"
)

// Simulator runs one policy over a fixed number of ticks.
// It owns its QueueState, History, policy and random source; nothing is
// shared with other Simulators.
type Simulator struct {
	Config  Config
	Kind    PolicyKind
	Clock   int64 // ticks completed
	State   *QueueState
	History *History
	Metrics *Metrics
	Trace   *trace.SimulationTrace // nil unless Config.TraceLevel enables it
	RNG     *PartitionedRNG

	policy   LanePolicy
	arrivals ArrivalSource
}

// NewSimulator validates cfg and builds a Simulator for the given policy.
// Every returned error wraps ErrInvalidConfig.
func NewSimulator(kind PolicyKind, cfg Config) (*Simulator, error) {
	if !IsValidPolicy(string(kind)) {
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, kind)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	arrivals, err := NewArrivalGenerator(cfg.NumLanes, cfg.ArrivalProb, rng.ForSubsystem(SubsystemArrivals))
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		Config:   cfg,
		Kind:     kind,
		State:    NewQueueState(cfg.NumLanes),
		History:  NewHistory(cfg.NumLanes, cfg.NumTicks),
		Metrics:  NewMetrics(cfg.NumLanes),
		RNG:      rng,
		policy:   NewLanePolicy(kind, cfg, rng.ForSubsystem(SubsystemEmergency)),
		arrivals: arrivals,
	}
	if cfg.TraceLevel.Enabled() {
		s.Trace = trace.NewSimulationTrace(cfg.TraceLevel)
	}
	return s, nil
}

// Done reports whether every configured tick has run.
func (s *Simulator) Done() bool {
	return s.Clock >= int64(s.Config.NumTicks)
}

// Step advances the simulation by one tick: arrivals, selection, service,
// snapshot. Returns a *PolicySelectionError if the policy picks a lane
// outside [0, NumLanes); the tick is not recorded in that case.
func (s *Simulator) Step() error {
	arrived := s.arrivals.Generate()
	s.State.Arrive(arrived)
	for i, a := range arrived {
		s.Metrics.Arrived[i] += a
	}

	sel := s.policy.Select(s.State.View())
	if sel.Lane < 0 || sel.Lane >= s.State.NumLanes() {
		return &PolicySelectionError{Policy: s.Kind, Tick: s.Clock, Lane: sel.Lane, NumLanes: s.State.NumLanes()}
	}

	before := s.State.Backlog(sel.Lane)
	served := s.State.Serve(sel.Lane)
	s.Metrics.Selected[sel.Lane]++
	if served {
		s.Metrics.Served[sel.Lane]++
	} else {
		s.Metrics.IdleTicks++
	}
	if s.Trace != nil {
		s.Trace.RecordSelection(trace.SelectionRecord{
			Tick:    s.Clock,
			Lane:    sel.Lane,
			Reason:  sel.Reason,
			Backlog: before,
			Served:  served,
		})
	}

	s.History.Record(s.State.View())
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.WithFields(logrus.Fields{
			"policy": s.Kind,
			"lane":   sel.Lane,
			"reason": sel.Reason,
			"served": served,
		}).Tracef("[tick %07d] backlog=%v", s.Clock, s.State)
	}
	s.Clock++
	return nil
}

// Run executes the remaining ticks and returns the History.
// A run either completes every tick or returns an error and no History.
func (s *Simulator) Run() (*History, error) {
	logrus.Infof("Starting %s simulation: lanes=%d ticks=%d arrival_prob=%v seed=%d",
		s.Kind, s.Config.NumLanes, s.Config.NumTicks, s.Config.ArrivalProb, s.Config.Seed)
	for !s.Done() {
		if err := s.Step(); err != nil {
			logrus.Errorf("[tick %07d] aborting %s run: %v", s.Clock, s.Kind, err)
			return nil, err
		}
	}
	logrus.Infof("[tick %07d] %s simulation ended, backlog=%v", s.Clock, s.Kind, s.State)
	return s.History, nil
}

// Run builds a Simulator for kind and cfg and runs it to completion.
func Run(kind PolicyKind, cfg Config) (*History, error) {
	s, err := NewSimulator(kind, cfg)
	if err != nil {
		return nil, err
	}
	return s.Run()
}
