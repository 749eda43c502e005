package metrics

import (
	"github.com/san-kum/asciilife/internal/automaton"
)

// Stability is the share of steps that progressed without a perturbation.
type Stability struct {
	name       string
	violations int
	samples    int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f automaton.Frame) {
	s.samples++
	if f.Perturbed {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// CellsFlipped totals perturbed cells over a run.
type CellsFlipped struct {
	total int
}

func NewCellsFlipped() *CellsFlipped { return &CellsFlipped{} }

func (c *CellsFlipped) Name() string              { return "cells_flipped" }
func (c *CellsFlipped) Observe(f automaton.Frame) { c.total += f.PerturbedCells }
func (c *CellsFlipped) Value() float64            { return float64(c.total) }
func (c *CellsFlipped) Reset()                    { c.total = 0 }
