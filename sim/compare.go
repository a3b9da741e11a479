package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/lane-sim/sim/trace"
)

// Result is the outcome of one completed policy run.
type Result struct {
	Kind    PolicyKind
	History *History
	Metrics *Metrics
	Trace   *trace.SimulationTrace
}

// Compare runs every kind with the same cfg, each in its own goroutine with
// its own Simulator. Results are returned in the order of kinds. Since
// arrivals use their own RNG subsystem, all runs see identical arrivals.
//
// ctx is checked before each run starts; a started run always completes.
// The first error cancels runs that have not started yet.
func Compare(ctx context.Context, cfg Config, kinds []PolicyKind) ([]Result, error) {
	// Fail on configuration before starting anything.
	sims := make([]*Simulator, len(kinds))
	for i, kind := range kinds {
		s, err := NewSimulator(kind, cfg)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", kind, err)
		}
		sims[i] = s
	}

	results := make([]Result, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range sims {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := s.Run()
			if err != nil {
				return fmt.Errorf("policy %q: %w", s.Kind, err)
			}
			results[i] = Result{Kind: s.Kind, History: h, Metrics: s.Metrics, Trace: s.Trace}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
