// Tracks per-lane arrival and service counters for final reporting.

package sim

// Metrics aggregates counters about the simulation
// for final reporting. Useful for evaluating policy behavior.
type Metrics struct {
	Arrived   []int // units arrived per lane
	Served    []int // units served per lane
	Selected  []int // ticks each lane was selected
	IdleTicks int   // ticks whose selected lane was empty
}

// NewMetrics creates zeroed counters for numLanes lanes.
func NewMetrics(numLanes int) *Metrics {
	return &Metrics{
		Arrived:  make([]int, numLanes),
		Served:   make([]int, numLanes),
		Selected: make([]int, numLanes),
	}
}

// TotalArrived returns the number of units that arrived on any lane.
func (m *Metrics) TotalArrived() int {
	return sum(m.Arrived)
}

// TotalServed returns the number of units served on any lane.
func (m *Metrics) TotalServed() int {
	return sum(m.Served)
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
