// Package testutil provides shared test infrastructure for the lane simulator.
// It consolidates history assertions and fixture helpers used across sim/ tests.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// AssertNonNegative fails the test if any recorded backlog is negative.
// lanes is indexed lane → tick.
func AssertNonNegative(t *testing.T, lanes [][]int) {
	t.Helper()
	for lane, series := range lanes {
		for tick, b := range series {
			if b < 0 {
				t.Fatalf("lane %d tick %d: negative backlog %d", lane, tick, b)
			}
		}
	}
}

// AssertLaneLengths fails the test unless every lane series has exactly want entries.
func AssertLaneLengths(t *testing.T, lanes [][]int, want int) {
	t.Helper()
	for lane, series := range lanes {
		if len(series) != want {
			t.Errorf("lane %d: history length %d, want %d", lane, len(series), want)
		}
	}
}

// WriteTempYAML writes content to a scenario.yaml file in a per-test temp dir
// and returns its path.
func WriteTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp yaml: %v", err)
	}
	return path
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
