package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"

	sim "github.com/inference-sim/lane-sim/sim"
	"github.com/inference-sim/lane-sim/sim/trace"
)

// History file formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// IsValidFormat returns true if format is a recognized history file format.
func IsValidFormat(format string) bool {
	return format == FormatCSV || format == FormatJSON
}

// historyFile is the JSON layout of a policy run's history.
type historyFile struct {
	Policy string  `json:"policy"`
	Ticks  int     `json:"ticks"`
	Lanes  [][]int `json:"lanes"`
}

// WriteHistory writes r's history to <dir>/<policy>.<format> and returns the path.
func WriteHistory(dir, format string, r sim.Result) (string, error) {
	if !IsValidFormat(format) {
		return "", fmt.Errorf("unknown output format %q", format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(dir, string(r.Kind)+"."+format)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	switch format {
	case FormatCSV:
		err = writeHistoryCSV(f, r.History)
	case FormatJSON:
		err = writeHistoryJSON(f, r)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// writeHistoryCSV writes one row per tick: tick,lane_0,...,lane_{n-1}.
// Ticks are numbered from 1.
func writeHistoryCSV(w io.Writer, h *sim.History) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, h.NumLanes()+1)
	header = append(header, "tick")
	for lane := 0; lane < h.NumLanes(); lane++ {
		header = append(header, "lane_"+strconv.Itoa(lane))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for tick := 0; tick < h.Len(); tick++ {
		row[0] = strconv.Itoa(tick + 1)
		for lane, b := range h.At(tick) {
			row[lane+1] = strconv.Itoa(b)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeHistoryJSON(w io.Writer, r sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(historyFile{
		Policy: string(r.Kind),
		Ticks:  r.History.Len(),
		Lanes:  r.History.Lanes(),
	})
}

// printTraceSummary writes the decision trace summary below a report.
func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "--- Decision Trace ---")
	fmt.Fprintf(w, "Decisions            : %s\n", humanize.Comma(int64(s.TotalDecisions)))
	fmt.Fprintf(w, "Served / Idle        : %d / %d\n", s.ServedCount, s.IdleCount)

	reasons := make([]string, 0, len(s.ReasonCounts))
	for reason := range s.ReasonCounts {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(w, "  %-18s : %d\n", reason, s.ReasonCounts[reason])
	}

	lanes := make([]int, 0, len(s.LaneSelections))
	for lane := range s.LaneSelections {
		lanes = append(lanes, lane)
	}
	sort.Ints(lanes)
	for _, lane := range lanes {
		fmt.Fprintf(w, "  Lane %-13d : selected %d, served %d\n", lane+1, s.LaneSelections[lane], s.LaneServed[lane])
	}
}
