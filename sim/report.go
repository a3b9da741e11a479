package sim

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
)

// LaneStats summarizes one lane's backlog series.
type LaneStats struct {
	Lane  int
	Mean  float64
	P95   float64
	Max   int
	Final int
}

// SummarizeHistory computes per-lane backlog statistics.
// An empty history yields zero-valued stats for every lane.
func SummarizeHistory(h *History) []LaneStats {
	out := make([]LaneStats, h.NumLanes())
	for lane := range out {
		out[lane] = summarizeLane(lane, h.Lane(lane))
	}
	return out
}

func summarizeLane(lane int, series []int) LaneStats {
	ls := LaneStats{Lane: lane}
	if len(series) == 0 {
		return ls
	}
	data := make(stats.Float64Data, len(series))
	for i, v := range series {
		data[i] = float64(v)
	}
	// Inputs are non-empty and finite, so these never fail.
	mean, err := stats.Mean(data)
	if err != nil {
		logrus.Warnf("lane %d: mean: %v", lane, err)
	}
	p95, err := stats.Percentile(data, 95)
	if err != nil {
		logrus.Warnf("lane %d: p95: %v", lane, err)
	}
	maxVal, err := stats.Max(data)
	if err != nil {
		logrus.Warnf("lane %d: max: %v", lane, err)
	}
	ls.Mean = mean
	ls.P95 = p95
	ls.Max = int(maxVal)
	ls.Final = series[len(series)-1]
	return ls
}

// Report is the printable summary of one policy run.
type Report struct {
	Kind    PolicyKind
	Ticks   int
	Lanes   []LaneStats
	Metrics *Metrics
}

// NewReport builds a Report from a completed run.
func NewReport(r Result) *Report {
	return &Report{
		Kind:    r.Kind,
		Ticks:   r.History.Len(),
		Lanes:   SummarizeHistory(r.History),
		Metrics: r.Metrics,
	}
}

// Print writes the report as a text table.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "=== Queue Lengths - %s ===\n", r.Kind.DisplayName())
	fmt.Fprintf(w, "Ticks                : %s\n", humanize.Comma(int64(r.Ticks)))
	if r.Metrics != nil {
		fmt.Fprintf(w, "Arrived              : %s\n", humanize.Comma(int64(r.Metrics.TotalArrived())))
		fmt.Fprintf(w, "Served               : %s\n", humanize.Comma(int64(r.Metrics.TotalServed())))
		fmt.Fprintf(w, "Idle Ticks           : %s\n", humanize.Comma(int64(r.Metrics.IdleTicks)))
	}
	fmt.Fprintf(w, "%-8s %8s %8s %6s %6s\n", "Lane", "Mean", "P95", "Max", "Final")
	for _, ls := range r.Lanes {
		// Lanes are labeled from 1, as in the plotted legends.
		fmt.Fprintf(w, "%-8s %8.2f %8.2f %6d %6d\n", fmt.Sprintf("Lane %d", ls.Lane+1), ls.Mean, ls.P95, ls.Max, ls.Final)
	}
}
