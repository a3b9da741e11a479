package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions  int
	ServedCount     int
	IdleCount       int            // selections of an empty lane
	LaneSelections  map[int]int    // lane → times selected
	LaneServed      map[int]int    // lane → units served
	ReasonCounts    map[string]int // reason → times used
	MaxBacklogSeen  int            // largest pre-service backlog of a selected lane
	UniqueLanesUsed int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		LaneSelections: make(map[int]int),
		LaneServed:     make(map[int]int),
		ReasonCounts:   make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Selections)
	for _, s := range st.Selections {
		summary.LaneSelections[s.Lane]++
		summary.ReasonCounts[s.Reason]++
		if s.Served {
			summary.ServedCount++
			summary.LaneServed[s.Lane]++
		} else {
			summary.IdleCount++
		}
		if s.Backlog > summary.MaxBacklogSeen {
			summary.MaxBacklogSeen = s.Backlog
		}
	}

	summary.UniqueLanesUsed = len(summary.LaneSelections)

	return summary
}
