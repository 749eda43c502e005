package automaton

import (
	"fmt"

	"github.com/san-kum/asciilife/internal/digits"
)

// CursorStride is how far the digit cursor moves after each perturbation.
const CursorStride = 7

// Phase is the controller's position in its per-frame cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStepping
	PhaseStagnant
	PhaseProgressing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStepping:
		return "stepping"
	case PhaseStagnant:
		return "stagnant"
	case PhaseProgressing:
		return "progressing"
	default:
		return "unknown"
	}
}

// State is the evolution bookkeeping kept alongside the grid.
type State struct {
	Generation  int
	LiveCells   int
	DigitCursor int
}

// Frame is what a renderer receives after each step.
type Frame struct {
	Generation     int
	Cells          [][]bool
	Width, Height  int
	LiveCells      int
	Stagnant       bool
	Perturbed      bool
	PerturbedCells int
	Entropy        uint32
	DigitCursor    int
	Phase          Phase
}

// Controller advances one grid, its history and the perturbation engine
// one step at a time.
type Controller struct {
	cfg     Config
	grid    *Grid
	history *History
	src     *digits.Source
	engine  *PerturbationEngine
	clock   Clock
	state   State
	phase   Phase
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock used for entropy.
func WithClock(c Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

// WithDigitSource shares a precomputed digit source instead of computing
// a new one.
func WithDigitSource(src *digits.Source) Option {
	return func(ctrl *Controller) { ctrl.src = src }
}

// WithCursor sets the initial digit cursor.
func WithCursor(pos int) Option {
	return func(ctrl *Controller) { ctrl.state.DigitCursor = pos }
}

// NewController validates cfg and builds an all-dead grid. The initial grid
// is recorded in history, so a grid that never changes is caught on the
// first step.
func NewController(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctrl := &Controller{cfg: cfg, clock: SystemClock{}}
	for _, opt := range opts {
		opt(ctrl)
	}

	if ctrl.src == nil {
		src, err := digits.New(cfg.DigitPrecision)
		if err != nil {
			return nil, &ConfigError{Field: "DigitPrecision", Reason: "cannot build digit source", Err: err}
		}
		ctrl.src = src
	}

	grid, err := NewGrid(cfg.Width, cfg.Height, cfg.Boundary)
	if err != nil {
		return nil, err
	}
	history, err := NewHistory(cfg.HistoryCapacity)
	if err != nil {
		return nil, err
	}

	ctrl.grid = grid
	ctrl.history = history
	ctrl.engine = NewPerturbationEngine(ctrl.src, cfg.PerturbationFraction, ctrl.clock)
	n := ctrl.src.Len()
	ctrl.state.DigitCursor = ((ctrl.state.DigitCursor % n) + n) % n
	ctrl.restart()
	return ctrl, nil
}

// Config returns the construction parameters.
func (c *Controller) Config() Config { return c.cfg }

// Digits returns the shared digit source.
func (c *Controller) Digits() *digits.Source { return c.src }

// Grid returns a copy of the current grid.
func (c *Controller) Grid() *Grid { return c.grid.Clone() }

// State returns the current bookkeeping.
func (c *Controller) State() State { return c.state }

// Phase returns the current phase; outside Step it is always PhaseIdle.
func (c *Controller) Phase() Phase { return c.phase }

// History exposes the snapshot ring for inspection.
func (c *Controller) History() *History { return c.history }

// Seed lets fn write the initial pattern into a cleared grid. Generation
// and history restart; the digit cursor keeps its position.
func (c *Controller) Seed(fn func(g *Grid) error) error {
	g := c.grid.Clone()
	g.Clear()
	if err := fn(g); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	c.grid = g
	c.restart()
	return nil
}

// Reset clears the grid and restarts generation counting.
func (c *Controller) Reset() {
	c.grid.Clear()
	c.restart()
}

func (c *Controller) restart() {
	c.state.Generation = 0
	c.state.LiveCells = c.grid.LiveCellCount()
	c.history.Clear()
	c.history.Push(Snapshot{Generation: 0, Grid: c.grid})
	c.phase = PhaseIdle
}

// Step evolves the grid once. When the new grid matches a buffered
// snapshot a perturbation is applied and history is cleared, so the same
// stagnation is not reported again within the next K steps. Otherwise the
// new grid is pushed to history.
//
// An error means a contract violation inside the engine; the controller
// state is left as it was before the call.
func (c *Controller) Step() (Frame, error) {
	c.phase = PhaseStepping
	defer func() { c.phase = PhaseIdle }()

	next := c.grid.Evolve()
	generation := c.state.Generation + 1

	frame := Frame{Generation: generation, Width: next.w, Height: next.h}

	if IsStagnant(next, c.history) {
		c.phase = PhaseStagnant
		frame.Stagnant = true

		entropy := c.engine.ComputeEntropyValue(generation, c.state.DigitCursor, c.history.Digest(), c.engine.WallClockSeconds())
		changes := c.engine.SelectPerturbationCells(next, entropy)
		if err := next.ApplyPerturbation(changes, c.engine.Limit(next)); err != nil {
			return Frame{}, fmt.Errorf("generation %d: %w", generation, err)
		}

		frame.Perturbed = true
		frame.PerturbedCells = len(changes)
		frame.Entropy = entropy
		c.state.DigitCursor = (c.state.DigitCursor + CursorStride) % c.src.Len()
		c.history.Clear()
	} else {
		c.phase = PhaseProgressing
		c.history.Push(Snapshot{Generation: generation, Grid: next})
	}

	c.grid = next
	c.state.Generation = generation
	c.state.LiveCells = next.LiveCellCount()

	frame.Phase = c.phase
	frame.Cells = next.Rows()
	frame.LiveCells = c.state.LiveCells
	frame.DigitCursor = c.state.DigitCursor
	return frame, nil
}
