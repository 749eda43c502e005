package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Runner drives a Stepper, feeding each frame to metrics and observers.
// Cancellation is checked between steps only; a step in progress always
// completes.
type Runner struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(stepper Stepper, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps until cfg.MaxGenerations is reached or ctx is done. On
// cancellation the partial result is returned with ctx.Err(). A step error
// stops the run immediately.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{Metrics: make(map[string]float64)}
	if cfg.KeepStats && cfg.MaxGenerations > 0 {
		result.Stats = make([]Stat, 0, cfg.MaxGenerations)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	var limiter *rate.Limiter
	if cfg.FPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.FPS), 1)
	}

	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		for _, m := range r.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	for cfg.MaxGenerations == 0 || result.Generations < cfg.MaxGenerations {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		} else {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}
		}

		frame, err := r.stepper.Step()
		if err != nil {
			r.logger.Error("step failed", "generation", result.Generations+1, "error", err)
			return result, fmt.Errorf("step %d: %w", result.Generations+1, err)
		}

		result.Generations++
		result.Final = frame
		if frame.Perturbed {
			result.Perturbations++
			r.logger.Debug("stagnation perturbed",
				"generation", frame.Generation,
				"cells", frame.PerturbedCells,
				"entropy", frame.Entropy,
				"digit_cursor", frame.DigitCursor,
			)
		}
		if cfg.KeepStats {
			result.Stats = append(result.Stats, StatFromFrame(frame))
		}

		for _, m := range r.metrics {
			m.Observe(frame)
		}
		for _, obs := range r.observers {
			obs.OnFrame(frame)
		}
	}

	r.logger.Info("run finished",
		"generations", result.Generations,
		"perturbations", result.Perturbations,
		"live_cells", result.Final.LiveCells,
	)
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.MaxGenerations < 0 {
		return fmt.Errorf("max generations must be non-negative, got %d", cfg.MaxGenerations)
	}
	if cfg.FPS < 0 {
		return fmt.Errorf("fps must be non-negative, got %d", cfg.FPS)
	}
	return nil
}
