package sim

import (
	"time"

	"github.com/san-kum/asciilife/internal/automaton"
)

// Stepper advances an automaton by one generation. *automaton.Controller
// satisfies it.
type Stepper interface {
	Step() (automaton.Frame, error)
}

type Metric interface {
	Name() string
	Observe(f automaton.Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f automaton.Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f automaton.Frame)

func (fn ObserverFunc) OnFrame(f automaton.Frame) { fn(f) }

type Config struct {
	// MaxGenerations stops the run after that many steps; 0 runs until the
	// context is done.
	MaxGenerations int
	// FPS paces steps; 0 steps as fast as possible.
	FPS int
	// KeepStats records one Stat per step in the result.
	KeepStats bool
}

// Stat is the per-step summary written to stats.csv.
type Stat struct {
	Generation     int    `json:"generation"`
	LiveCells      int    `json:"live_cells"`
	Stagnant       bool   `json:"stagnant"`
	Perturbed      bool   `json:"perturbed"`
	PerturbedCells int    `json:"perturbed_cells"`
	Entropy        uint32 `json:"entropy"`
}

func StatFromFrame(f automaton.Frame) Stat {
	return Stat{
		Generation:     f.Generation,
		LiveCells:      f.LiveCells,
		Stagnant:       f.Stagnant,
		Perturbed:      f.Perturbed,
		PerturbedCells: f.PerturbedCells,
		Entropy:        f.Entropy,
	}
}

type Result struct {
	Stats         []Stat
	Final         automaton.Frame
	Generations   int
	Perturbations int
	Elapsed       time.Duration
	Metrics       map[string]float64
}

// Population returns the live cell series of the recorded stats.
func (r *Result) Population() []float64 {
	out := make([]float64, len(r.Stats))
	for i, s := range r.Stats {
		out[i] = float64(s.LiveCells)
	}
	return out
}
