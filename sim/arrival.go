package sim

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ArrivalSource yields one arrival count per lane for each tick.
type ArrivalSource interface {
	Generate() []int
}

// ArrivalGenerator draws at most one arrival per lane per tick.
// Each lane is an independent Bernoulli trial with the same success probability.
type ArrivalGenerator struct {
	numLanes int
	trial    distuv.Bernoulli
}

// NewArrivalGenerator creates a generator for numLanes lanes drawing from rng.
// An out-of-range probability is a configuration error reported here, not at draw time.
func NewArrivalGenerator(numLanes int, prob float64, rng *rand.Rand) (*ArrivalGenerator, error) {
	if numLanes <= 0 {
		return nil, fmt.Errorf("%w: num_lanes must be positive, got %d", ErrInvalidConfig, numLanes)
	}
	if !isProbability(prob) {
		return nil, fmt.Errorf("%w: arrival_prob must be in [0,1], got %v", ErrInvalidConfig, prob)
	}
	if rng == nil {
		panic("NewArrivalGenerator: rng must not be nil")
	}
	return &ArrivalGenerator{
		numLanes: numLanes,
		trial:    distuv.Bernoulli{P: prob, Src: rng},
	}, nil
}

// Generate returns one 0/1 indicator per lane. Advances the random source by
// exactly numLanes draws.
func (g *ArrivalGenerator) Generate() []int {
	arrivals := make([]int, g.numLanes)
	for i := range arrivals {
		arrivals[i] = int(g.trial.Rand())
	}
	return arrivals
}

// NumLanes returns the number of lanes this generator draws for.
func (g *ArrivalGenerator) NumLanes() int {
	return g.numLanes
}
