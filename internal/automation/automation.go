// Package automation runs scripted sequences of automaton runs and sweeps
// over the perturbation fraction.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/asciilife/internal/analysis"
	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/config"
	"github.com/san-kum/asciilife/internal/digits"
	"github.com/san-kum/asciilife/internal/metrics"
	"github.com/san-kum/asciilife/internal/patterns"
	"github.com/san-kum/asciilife/internal/render"
	"github.com/san-kum/asciilife/internal/sim"
	"github.com/san-kum/asciilife/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base config for one run. Zero values keep the
// base setting.
type ScenarioStep struct {
	Pattern              string  `yaml:"pattern"`
	Width                int     `yaml:"width"`
	Height               int     `yaml:"height"`
	Boundary             string  `yaml:"boundary"`
	HistoryCapacity      int     `yaml:"history_capacity"`
	PerturbationFraction float64 `yaml:"perturbation_fraction"`
	Cursor               *int    `yaml:"cursor"`
	Seed                 uint64  `yaml:"seed"`
	Generations          int     `yaml:"generations"`
	SaveAs               string  `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step    int
	RunID   string
	Config  *config.Config
	Result  *sim.Result
	Network analysis.Network
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Apply returns a validated copy of base with the step's overrides.
func (s ScenarioStep) Apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Pattern != "" {
		cfg.Pattern = s.Pattern
	}
	if s.Width > 0 {
		cfg.Grid.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Grid.Height = s.Height
	}
	if s.Boundary != "" {
		cfg.Grid.Boundary = s.Boundary
	}
	if s.HistoryCapacity > 0 {
		cfg.Engine.HistoryCapacity = s.HistoryCapacity
	}
	if s.PerturbationFraction > 0 {
		cfg.Engine.PerturbationFraction = s.PerturbationFraction
	}
	if s.Cursor != nil {
		cfg.Cursor = *s.Cursor
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Generations > 0 {
		cfg.MaxGen = s.Generations
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewController builds and seeds a controller for cfg. Scripted runs start
// at digit 0 when the config asks for a clock-derived cursor.
func NewController(cfg *config.Config, src *digits.Source) (*automaton.Controller, error) {
	if src == nil {
		var err error
		if src, err = digits.New(cfg.Engine.DigitPrecision); err != nil {
			return nil, err
		}
	}
	cursor := max(cfg.Cursor, 0)

	ctrl, err := automaton.NewController(cfg.Automaton(), automaton.WithDigitSource(src), automaton.WithCursor(cursor))
	if err != nil {
		return nil, err
	}
	seeder, err := patterns.Seeder(cfg.Pattern, src.NewReader(cursor), cfg.Seed)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Seed(seeder); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func standardMetrics() []sim.Metric {
	std := metrics.Standard()
	out := make([]sim.Metric, len(std))
	for i, m := range std {
		out[i] = m
	}
	return out
}

// RunScenario executes the steps in order. Steps with save_as are stored in
// st under that ID when st is not nil.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, st *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if cfg.MaxGen == 0 {
			return results, fmt.Errorf("step %d: generations must be set", i+1)
		}
		logger.Info("scenario step", "scenario", scenario.Name, "step", i+1, "pattern", cfg.Pattern, "generations", cfg.MaxGen)

		ctrl, err := NewController(cfg, nil)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		runner := sim.New(ctrl, logger)
		for _, m := range standardMetrics() {
			runner.AddMetric(m)
		}
		result, err := runner.Run(ctx, sim.Config{MaxGenerations: cfg.MaxGen, KeepStats: step.SaveAs != ""})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Config: cfg, Result: result, Network: analysis.Analyze(ctrl.Grid())}
		if st != nil && step.SaveAs != "" {
			meta := storage.RunMetadata{
				ID:                   step.SaveAs,
				Pattern:              cfg.Pattern,
				Width:                cfg.Grid.Width,
				Height:               cfg.Grid.Height,
				Boundary:             cfg.Grid.Boundary,
				HistoryCapacity:      cfg.Engine.HistoryCapacity,
				PerturbationFraction: cfg.Engine.PerturbationFraction,
				DigitPrecision:       cfg.Engine.DigitPrecision,
				StartCursor:          max(cfg.Cursor, 0),
				Network:              sr.Network,
			}
			if sr.RunID, err = st.Save(meta, result, render.Blocks(result.Final.Cells)); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// FractionSweep runs the same seed at evenly spaced perturbation fractions.
type FractionSweep struct {
	Base        *config.Config
	Min         float64
	Max         float64
	NumSteps    int
	Generations int
}

// SweepResult summarises one point of a sweep.
type SweepResult struct {
	Fraction       float64
	Perturbations  int
	CellsFlipped   float64
	Stability      float64
	MeanPopulation float64
	FinalDensity   float64
}

// Fractions returns the sweep points from Min to Max inclusive.
func (s *FractionSweep) Fractions() []float64 {
	if s.NumSteps == 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	out := make([]float64, s.NumSteps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// RunSweep evolves every sweep point concurrently from the same digits.
func RunSweep(ctx context.Context, sweep *FractionSweep, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 || sweep.Generations < 1 {
		return nil, fmt.Errorf("sweep needs at least one point and one generation")
	}
	if sweep.Min < 0 || sweep.Max > 1 || sweep.Min > sweep.Max {
		return nil, fmt.Errorf("sweep range [%g, %g] must lie within [0, 1]", sweep.Min, sweep.Max)
	}

	src, err := digits.New(sweep.Base.Engine.DigitPrecision)
	if err != nil {
		return nil, err
	}
	fractions := sweep.Fractions()

	newStepper := func(idx int) (sim.Stepper, error) {
		cfg := *sweep.Base
		cfg.Engine.PerturbationFraction = fractions[idx]
		return NewController(&cfg, src)
	}

	ens := sim.NewEnsemble(len(fractions), newStepper, standardMetrics, logger)
	runs, err := ens.Run(ctx, sim.Config{MaxGenerations: sweep.Generations})
	if err != nil {
		return nil, err
	}

	total := float64(sweep.Base.Grid.Width * sweep.Base.Grid.Height)
	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{
			Fraction:       fractions[i],
			Perturbations:  r.Perturbations,
			CellsFlipped:   r.Metrics["cells_flipped"],
			Stability:      r.Metrics["stability"],
			MeanPopulation: r.Metrics["mean_population"],
			FinalDensity:   float64(r.Final.LiveCells) / total,
		}
	}
	return results, nil
}
