package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/starmaker/internal/dynamo"
)

// Ensemble runs the same engine over several seeded initial systems
// concurrently.
type Ensemble struct {
	stepper   Stepper
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

// NewEnsemble prepares numRuns runs with seeds seedStart, seedStart+1, ...
// metrics, when non-nil, builds a fresh metric set for each run.
func NewEnsemble(stepper Stepper, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{stepper: stepper, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

// Run builds each initial system with build(seed) and runs it. Results are
// in seed order. The first failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, build func(seed int64) (dynamo.Registry, error), cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			seed := e.seedStart + int64(idx)
			reg, err := build(seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}

			s := New(e.stepper)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, reg, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
