package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every per-tick lane selection.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether the level records anything.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelDecisions
}

// SimulationTrace collects selection records during one simulation run.
type SimulationTrace struct {
	Level      TraceLevel
	Selections []SelectionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:      level,
		Selections: make([]SelectionRecord, 0),
	}
}

// RecordSelection appends a selection record.
func (st *SimulationTrace) RecordSelection(record SelectionRecord) {
	st.Selections = append(st.Selections, record)
}
