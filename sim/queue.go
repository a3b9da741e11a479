// Implements the QueueState, which holds the backlog of every lane.
// Arrivals increment it, service decrements it.

package sim

import (
	"fmt"
	"strings"
)

// QueueState tracks the number of unserved units waiting on each lane.
// Every backlog is non-negative at all times.
type QueueState struct {
	backlog []int
}

// NewQueueState creates an empty QueueState for numLanes lanes.
func NewQueueState(numLanes int) *QueueState {
	return &QueueState{backlog: make([]int, numLanes)}
}

// Arrive adds the per-lane arrival counts to the backlog. There is no cap:
// unbounded growth means the policy cannot keep up.
func (qs *QueueState) Arrive(arrivals []int) {
	if len(arrivals) != len(qs.backlog) {
		panic(fmt.Sprintf("Arrive: got %d arrival counts for %d lanes", len(arrivals), len(qs.backlog)))
	}
	for i, a := range arrivals {
		if a < 0 {
			panic(fmt.Sprintf("Arrive: negative arrival count %d on lane %d", a, i))
		}
		qs.backlog[i] += a
	}
}

// Serve removes one unit from the lane if it has any backlog.
// Returns false (and leaves the backlog at zero) for an empty lane.
func (qs *QueueState) Serve(lane int) bool {
	if qs.backlog[lane] == 0 {
		return false
	}
	qs.backlog[lane]--
	return true
}

// Backlog returns the backlog of a single lane.
func (qs *QueueState) Backlog(lane int) int {
	return qs.backlog[lane]
}

// NumLanes returns the number of lanes.
func (qs *QueueState) NumLanes() int {
	return len(qs.backlog)
}

// View returns the backlog vector for policy decisions.
// The returned slice is the state's internal storage -- callers MUST NOT modify it.
// Use Snapshot for a copy.
func (qs *QueueState) View() []int {
	return qs.backlog
}

// Snapshot returns a copy of the backlog vector.
func (qs *QueueState) Snapshot() []int {
	out := make([]int, len(qs.backlog))
	copy(out, qs.backlog)
	return out
}

// Total returns the summed backlog across all lanes.
func (qs *QueueState) Total() int {
	total := 0
	for _, b := range qs.backlog {
		total += b
	}
	return total
}

func (qs *QueueState) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range qs.backlog {
		sb.WriteString(fmt.Sprint(val))
		if i < len(qs.backlog)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
