package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/lane-sim/sim/internal/testutil"
	"github.com/inference-sim/lane-sim/sim/trace"
)

// scriptedArrivals replays fixed per-tick arrival vectors.
type scriptedArrivals struct {
	ticks [][]int
	next  int
}

func (s *scriptedArrivals) Generate() []int {
	a := s.ticks[s.next]
	s.next++
	return a
}

func TestRun_RoundRobinTwoLanesEveryTickArrivals(t *testing.T) {
	// GIVEN two empty lanes, an arrival on every lane every tick and a one-tick slice
	cfg := DefaultConfig()
	cfg.NumLanes = 2
	cfg.NumTicks = 3
	cfg.ArrivalProb = 1.0
	cfg.TimeSlice = 1

	// WHEN round-robin runs three ticks
	h, err := Run(PolicyRoundRobin, cfg)
	require.NoError(t, err)

	// THEN lanes 0,1,0 are served: [1,1]→[0,1], [1,2]→[1,1], [2,2]→[1,2]
	assert.Equal(t, []int{0, 1}, h.At(0))
	assert.Equal(t, []int{1, 1}, h.At(1))
	assert.Equal(t, []int{1, 2}, h.At(2))
}

func TestSimulator_RoundRobinScriptedArrivals(t *testing.T) {
	// GIVEN two empty lanes, a one-tick slice and arrivals [1,0], [1,1], [1,1]
	cfg := DefaultConfig()
	cfg.NumLanes = 2
	cfg.NumTicks = 3
	cfg.TimeSlice = 1
	s, err := NewSimulator(PolicyRoundRobin, cfg)
	require.NoError(t, err)
	s.arrivals = &scriptedArrivals{ticks: [][]int{{1, 0}, {1, 1}, {1, 1}}}

	// WHEN the run executes
	h, err := s.Run()
	require.NoError(t, err)

	// THEN tick1 serves lane0 → [0,0], tick2 serves lane1 → [1,0], tick3 serves lane0 → [1,1]
	assert.Equal(t, []int{0, 0}, h.At(0))
	assert.Equal(t, []int{1, 0}, h.At(1))
	assert.Equal(t, []int{1, 1}, h.At(2))
	assert.Equal(t, []int{0, 1, 1}, h.Lane(0))
	assert.Equal(t, []int{0, 0, 1}, h.Lane(1))
}

func TestRun_HistoryLengthEqualsTicks(t *testing.T) {
	for _, kind := range AllPolicies() {
		for _, ticks := range []int{0, 1, 17, 100} {
			cfg := DefaultConfig()
			cfg.NumTicks = ticks
			h, err := Run(kind, cfg)
			require.NoError(t, err, "%s ticks=%d", kind, ticks)
			assert.Equal(t, ticks, h.Len(), "%s", kind)
			assert.Equal(t, cfg.NumLanes, h.NumLanes(), "%s", kind)
			testutil.AssertLaneLengths(t, h.Lanes(), ticks)
		}
	}
}

func TestRun_BacklogNeverNegative(t *testing.T) {
	for _, kind := range AllPolicies() {
		for _, prob := range []float64{0, 0.1, 0.3, 0.9} {
			cfg := DefaultConfig()
			cfg.NumTicks = 500
			cfg.ArrivalProb = prob
			cfg.EmergencyProb = 0.2
			h, err := Run(kind, cfg)
			require.NoError(t, err)
			testutil.AssertNonNegative(t, h.Lanes())
		}
	}
}

func TestRun_SameSeed_IdenticalHistory(t *testing.T) {
	for _, kind := range AllPolicies() {
		cfg := DefaultConfig()
		cfg.NumTicks = 300
		cfg.EmergencyProb = 0.25

		h1, err := Run(kind, cfg)
		require.NoError(t, err)
		h2, err := Run(kind, cfg)
		require.NoError(t, err)

		assert.True(t, h1.Equal(h2), "%s: same seed produced different histories", kind)
	}
}

func TestRun_DifferentSeeds_DifferentHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumTicks = 200
	h1, err := Run(PolicyRoundRobin, cfg)
	require.NoError(t, err)

	cfg.Seed = cfg.Seed + 1
	h2, err := Run(PolicyRoundRobin, cfg)
	require.NoError(t, err)

	assert.False(t, h1.Equal(h2), "different seeds produced identical histories")
}

func TestSimulator_ArrivalsIndependentOfPolicy(t *testing.T) {
	// GIVEN the same config for every policy
	cfg := DefaultConfig()
	cfg.NumTicks = 250
	cfg.EmergencyProb = 0.5

	var arrived [][]int
	for _, kind := range AllPolicies() {
		s, err := NewSimulator(kind, cfg)
		require.NoError(t, err)
		_, err = s.Run()
		require.NoError(t, err)
		arrived = append(arrived, s.Metrics.Arrived)
	}

	// THEN every policy saw exactly the same arrivals
	for i := 1; i < len(arrived); i++ {
		assert.Equal(t, arrived[0], arrived[i])
	}
}

func TestSimulator_ConservesUnits(t *testing.T) {
	for _, kind := range AllPolicies() {
		s, err := NewSimulator(kind, DefaultConfig())
		require.NoError(t, err)
		h, err := s.Run()
		require.NoError(t, err)

		final := h.At(h.Len() - 1)
		for lane := range final {
			assert.Equal(t, s.Metrics.Arrived[lane]-s.Metrics.Served[lane], final[lane], "%s lane %d", kind, lane)
		}
		assert.Equal(t, s.Config.NumTicks, sum(s.Metrics.Selected))
		assert.Equal(t, s.Config.NumTicks, s.Metrics.TotalServed()+s.Metrics.IdleTicks)
	}
}

func TestSimulator_NoArrivals_EveryTickIdle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArrivalProb = 0
	s, err := NewSimulator(PolicyShortestRemainingFirst, cfg)
	require.NoError(t, err)
	h, err := s.Run()
	require.NoError(t, err)

	for lane := 0; lane < cfg.NumLanes; lane++ {
		for _, b := range h.Lane(lane) {
			require.Equal(t, 0, b)
		}
	}
	assert.Equal(t, cfg.NumTicks, s.Metrics.IdleTicks)
}

// preServiceBacklog reconstructs the backlog the policy saw at tick i.
func preServiceBacklog(h *History, rec trace.SelectionRecord) []int {
	pre := h.At(int(rec.Tick))
	if rec.Served {
		pre[rec.Lane]++
	}
	return pre
}

func TestSimulator_PriorityWithoutEmergency_AlwaysServesLongest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumTicks = 400
	cfg.ArrivalProb = 0.4
	cfg.EmergencyProb = 0
	cfg.TraceLevel = trace.TraceLevelDecisions

	s, err := NewSimulator(PolicyPriority, cfg)
	require.NoError(t, err)
	h, err := s.Run()
	require.NoError(t, err)

	require.Len(t, s.Trace.Selections, cfg.NumTicks)
	for _, rec := range s.Trace.Selections {
		pre := preServiceBacklog(h, rec)
		assert.Equal(t, argmax(pre), rec.Lane, "tick %d backlog %v", rec.Tick, pre)
		assert.Equal(t, ReasonLongest, rec.Reason)
		assert.Equal(t, pre[rec.Lane], rec.Backlog)
	}
}

func TestSimulator_SRTF_AlwaysServesShortest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumTicks = 400
	cfg.ArrivalProb = 0.6
	cfg.TraceLevel = trace.TraceLevelDecisions

	s, err := NewSimulator(PolicyShortestRemainingFirst, cfg)
	require.NoError(t, err)
	h, err := s.Run()
	require.NoError(t, err)

	for _, rec := range s.Trace.Selections {
		pre := preServiceBacklog(h, rec)
		assert.Equal(t, argmin(pre), rec.Lane, "tick %d backlog %v", rec.Tick, pre)
	}
}

func TestSimulator_TraceMatchesMetrics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceLevel = trace.TraceLevelDecisions
	s, err := NewSimulator(PolicyPriority, cfg)
	require.NoError(t, err)
	_, err = s.Run()
	require.NoError(t, err)

	summary := trace.Summarize(s.Trace)
	assert.Equal(t, cfg.NumTicks, summary.TotalDecisions)
	assert.Equal(t, s.Metrics.TotalServed(), summary.ServedCount)
	assert.Equal(t, s.Metrics.IdleTicks, summary.IdleCount)
	for lane, n := range s.Metrics.Selected {
		assert.Equal(t, n, summary.LaneSelections[lane], "lane %d", lane)
	}
}

func TestSimulator_TraceDisabledByDefault(t *testing.T) {
	s, err := NewSimulator(PolicyRoundRobin, DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, s.Trace)
}

func TestSimulator_StepAdvancesClock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumTicks = 3
	s, err := NewSimulator(PolicyRoundRobin, cfg)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.False(t, s.Done())
		require.NoError(t, s.Step())
		assert.Equal(t, int64(i+1), s.Clock)
		assert.Equal(t, i+1, s.History.Len())
	}
	assert.True(t, s.Done())
}

// fixedLanePolicy always returns the same lane, valid or not.
type fixedLanePolicy struct{ lane int }

func (f fixedLanePolicy) Select(_ []int) Selection { return Selection{Lane: f.lane} }

func TestSimulator_OutOfRangeSelection_AbortsRun(t *testing.T) {
	for _, lane := range []int{-1, 4, 99} {
		// GIVEN a policy that selects a lane outside [0, 4)
		s, err := NewSimulator(PolicyRoundRobin, DefaultConfig())
		require.NoError(t, err)
		s.policy = fixedLanePolicy{lane: lane}

		// WHEN the run executes
		h, err := s.Run()

		// THEN it aborts on the first tick with a PolicySelectionError and no history
		require.Error(t, err)
		assert.Nil(t, h)
		var selErr *PolicySelectionError
		require.True(t, errors.As(err, &selErr))
		assert.Equal(t, lane, selErr.Lane)
		assert.Equal(t, int64(0), selErr.Tick)
		assert.Equal(t, 4, selErr.NumLanes)
		assert.Equal(t, 0, s.History.Len(), "the failing tick must not be recorded")
	}
}

func TestSimulator_EmptyLaneSelection_IsNoOp(t *testing.T) {
	// GIVEN a policy pinned to lane 0 and no arrivals
	cfg := DefaultConfig()
	cfg.ArrivalProb = 0
	cfg.NumTicks = 5
	s, err := NewSimulator(PolicyRoundRobin, cfg)
	require.NoError(t, err)
	s.policy = fixedLanePolicy{lane: 0}

	// WHEN it runs
	h, err := s.Run()

	// THEN lane 0 stays at zero and nothing else changes
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, h.Lane(0))
	assert.Equal(t, 5, s.Metrics.IdleTicks)
}

func TestNewSimulator_InvalidInputs(t *testing.T) {
	bad := DefaultConfig()
	bad.TimeSlice = 0

	tests := []struct {
		name string
		kind PolicyKind
		cfg  Config
	}{
		{"unknown policy", "RR", DefaultConfig()},
		{"empty policy", "", DefaultConfig()},
		{"invalid config", PolicyRoundRobin, bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSimulator(tt.kind, tt.cfg)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}
