package sim

import "fmt"

// History holds one backlog snapshot per lane per tick.
// It is append-only while a run is in progress and fully materialized afterwards.
type History struct {
	lanes [][]int // lane → backlog per tick
}

// NewHistory creates an empty History for numLanes lanes with room for capacity ticks.
func NewHistory(numLanes, capacity int) *History {
	lanes := make([][]int, numLanes)
	for i := range lanes {
		lanes[i] = make([]int, 0, capacity)
	}
	return &History{lanes: lanes}
}

// Record appends one tick's backlog vector.
func (h *History) Record(backlog []int) {
	if len(backlog) != len(h.lanes) {
		panic(fmt.Sprintf("Record: got %d backlogs for %d lanes", len(backlog), len(h.lanes)))
	}
	for i, b := range backlog {
		h.lanes[i] = append(h.lanes[i], b)
	}
}

// NumLanes returns the number of lanes recorded.
func (h *History) NumLanes() int {
	return len(h.lanes)
}

// Len returns the number of ticks recorded. Every lane has this length.
func (h *History) Len() int {
	if len(h.lanes) == 0 {
		return 0
	}
	return len(h.lanes[0])
}

// Lane returns the backlog series of one lane.
// The returned slice is the history's internal storage -- callers MUST NOT modify it.
func (h *History) Lane(lane int) []int {
	return h.lanes[lane]
}

// Lanes returns every lane's backlog series, indexed by lane.
// Same aliasing rules as Lane.
func (h *History) Lanes() [][]int {
	return h.lanes
}

// At returns a copy of the backlog vector recorded at tick (0-based).
func (h *History) At(tick int) []int {
	row := make([]int, len(h.lanes))
	for i := range h.lanes {
		row[i] = h.lanes[i][tick]
	}
	return row
}

// Equal reports whether two histories hold identical series.
func (h *History) Equal(other *History) bool {
	if h == nil || other == nil {
		return h == other
	}
	if len(h.lanes) != len(other.lanes) {
		return false
	}
	for i := range h.lanes {
		if len(h.lanes[i]) != len(other.lanes[i]) {
			return false
		}
		for j := range h.lanes[i] {
			if h.lanes[i][j] != other.lanes[i][j] {
				return false
			}
		}
	}
	return true
}
