package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every configuration error. Configuration
// errors are reported before a run starts, never mid-run.
var ErrInvalidConfig = errors.New("invalid simulation config")

// PolicySelectionError reports a policy that returned a lane outside
// [0, NumLanes). It is a defect in the policy, so the run aborts instead of
// clamping the index.
type PolicySelectionError struct {
	Policy   PolicyKind
	Tick     int64
	Lane     int
	NumLanes int
}

func (e *PolicySelectionError) Error() string {
	return fmt.Sprintf("policy %q selected lane %d at tick %d, want [0, %d)", e.Policy, e.Lane, e.Tick, e.NumLanes)
}
