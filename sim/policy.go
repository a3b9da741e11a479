package sim

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// PolicyKind names one of the lane selection policies.
type PolicyKind string

const (
	PolicyRoundRobin             PolicyKind = "round-robin"
	PolicyPriority               PolicyKind = "priority"
	PolicyShortestRemainingFirst PolicyKind = "srtf"
)

// validPolicies is the set of recognized policy names.
// Shared by IsValidPolicy() and NewLanePolicy() to avoid duplication.
var validPolicies = map[PolicyKind]bool{
	PolicyRoundRobin:             true,
	PolicyPriority:               true,
	PolicyShortestRemainingFirst: true,
}

// IsValidPolicy returns true if name is a recognized policy name.
func IsValidPolicy(name string) bool {
	return validPolicies[PolicyKind(name)]
}

// AllPolicies returns every policy kind in a fixed order.
func AllPolicies() []PolicyKind {
	return []PolicyKind{PolicyRoundRobin, PolicyPriority, PolicyShortestRemainingFirst}
}

// DisplayName returns the human-readable policy name used in reports.
func (k PolicyKind) DisplayName() string {
	switch k {
	case PolicyRoundRobin:
		return "Round Robin"
	case PolicyPriority:
		return "Priority"
	case PolicyShortestRemainingFirst:
		return "Shortest Remaining Time"
	default:
		return string(k)
	}
}

// Selection reasons recorded in decision traces.
const (
	ReasonSlice     = "slice"     // round-robin kept the current lane
	ReasonRotate    = "rotate"    // round-robin advanced to the next lane
	ReasonEmergency = "emergency" // priority preempted to a random lane
	ReasonLongest   = "longest"   // priority picked the longest backlog
	ReasonShortest  = "shortest"  // srtf picked the shortest backlog
)

// Selection is the lane chosen for one tick.
type Selection struct {
	Lane   int    // lane to serve; must be in [0, NumLanes)
	Reason string // one of the Reason* constants
}

// LanePolicy selects the lane to serve each tick.
// backlog is the current per-lane backlog after this tick's arrivals;
// implementations MUST NOT modify it. A lane must be returned even when
// every backlog is zero.
type LanePolicy interface {
	Select(backlog []int) Selection
}

// RoundRobinPolicy rotates through lanes, serving each for TimeSlice
// consecutive ticks regardless of backlog.
// The tick that triggers rotation already serves the new lane.
type RoundRobinPolicy struct {
	numLanes  int
	timeSlice int
	current   int
	timeLeft  int
}

// NewRoundRobinPolicy returns a policy with its cursor at (0, timeSlice).
func NewRoundRobinPolicy(numLanes, timeSlice int) *RoundRobinPolicy {
	return &RoundRobinPolicy{numLanes: numLanes, timeSlice: timeSlice, current: 0, timeLeft: timeSlice}
}

func (rr *RoundRobinPolicy) Select(_ []int) Selection {
	if rr.timeLeft > 0 {
		rr.timeLeft--
		return Selection{Lane: rr.current, Reason: ReasonSlice}
	}
	rr.current = (rr.current + 1) % rr.numLanes
	rr.timeLeft = rr.timeSlice - 1
	return Selection{Lane: rr.current, Reason: ReasonRotate}
}

// Cursor returns the current lane and the ticks left in its slice.
func (rr *RoundRobinPolicy) Cursor() (lane, timeLeft int) {
	return rr.current, rr.timeLeft
}

// PriorityPreemptivePolicy serves the longest backlog (ties to the lowest
// lane index). With probability EmergencyProb per tick an emergency preempts
// it and a uniformly random lane is served instead, even an empty one.
// Warning: lanes that lose ties can starve under sustained load.
type PriorityPreemptivePolicy struct {
	numLanes  int
	emergency distuv.Bernoulli
	rng       *rand.Rand
}

// NewPriorityPreemptivePolicy returns a policy drawing emergencies from rng.
func NewPriorityPreemptivePolicy(numLanes int, emergencyProb float64, rng *rand.Rand) *PriorityPreemptivePolicy {
	return &PriorityPreemptivePolicy{
		numLanes:  numLanes,
		emergency: distuv.Bernoulli{P: emergencyProb, Src: rng},
		rng:       rng,
	}
}

func (p *PriorityPreemptivePolicy) Select(backlog []int) Selection {
	if p.emergency.Rand() == 1 {
		return Selection{Lane: p.rng.IntN(p.numLanes), Reason: ReasonEmergency}
	}
	return Selection{Lane: argmax(backlog), Reason: ReasonLongest}
}

// ShortestRemainingFirstPolicy serves the shortest backlog (ties to the
// lowest lane index). It clears easy lanes first.
// Warning: a lane that is never shortest starves.
type ShortestRemainingFirstPolicy struct{}

func (s *ShortestRemainingFirstPolicy) Select(backlog []int) Selection {
	return Selection{Lane: argmin(backlog), Reason: ReasonShortest}
}

// argmax returns the first index holding the largest value.
func argmax(values []int) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

// argmin returns the first index holding the smallest value.
func argmin(values []int) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] < values[best] {
			best = i
		}
	}
	return best
}

// NewLanePolicy creates a LanePolicy by kind for the given config.
// rng is the emergency subsystem stream; only the priority policy draws from it.
// Panics on unrecognized kinds; callers validate with IsValidPolicy first.
func NewLanePolicy(kind PolicyKind, cfg Config, rng *rand.Rand) LanePolicy {
	if !validPolicies[kind] {
		panic(fmt.Sprintf("unknown lane policy %q", kind))
	}
	switch kind {
	case PolicyRoundRobin:
		return NewRoundRobinPolicy(cfg.NumLanes, cfg.TimeSlice)
	case PolicyPriority:
		return NewPriorityPreemptivePolicy(cfg.NumLanes, cfg.EmergencyProb, rng)
	case PolicyShortestRemainingFirst:
		return &ShortestRemainingFirstPolicy{}
	default:
		panic(fmt.Sprintf("unhandled lane policy %q", kind))
	}
}
