package sim

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent automata concurrently, one Runner each. Every
// member owns its Stepper; nothing is shared between goroutines.
type Ensemble struct {
	newStepper func(idx int) (Stepper, error)
	newMetrics func() []Metric
	numRuns    int
	logger     *slog.Logger
}

func NewEnsemble(numRuns int, newStepper func(idx int) (Stepper, error), newMetrics func() []Metric, logger *slog.Logger) *Ensemble {
	return &Ensemble{newStepper: newStepper, newMetrics: newMetrics, numRuns: numRuns, logger: logger}
}

// Run returns results in member order. The first error cancels the others.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			stepper, err := e.newStepper(i)
			if err != nil {
				return err
			}

			logger := e.logger
			if logger != nil {
				logger = logger.With("member", i)
			}
			r := New(stepper, logger)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					r.AddMetric(m)
				}
			}

			res, err := r.Run(ctx, cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
