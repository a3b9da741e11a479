// Package trace provides decision-trace recording for lane policy analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// SelectionRecord captures a single lane selection and its service outcome.
type SelectionRecord struct {
	Tick    int64
	Lane    int
	Reason  string
	Backlog int  // backlog of the selected lane before service
	Served  bool // false when the selected lane was empty
}
