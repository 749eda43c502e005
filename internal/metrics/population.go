package metrics

import (
	"math"

	"github.com/san-kum/asciilife/internal/automaton"
)

// Population is the mean live cell count.
type Population struct {
	samples int
	total   float64
}

func NewPopulation() *Population { return &Population{} }

func (p *Population) Name() string { return "mean_population" }

func (p *Population) Observe(f automaton.Frame) {
	p.samples++
	p.total += float64(f.LiveCells)
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.total / float64(p.samples)
}

func (p *Population) Reset() {
	p.samples = 0
	p.total = 0
}

// PeakPopulation is the largest live cell count seen.
type PeakPopulation struct {
	peak int
}

func NewPeakPopulation() *PeakPopulation { return &PeakPopulation{} }

func (p *PeakPopulation) Name() string              { return "peak_population" }
func (p *PeakPopulation) Observe(f automaton.Frame) { p.peak = max(p.peak, f.LiveCells) }
func (p *PeakPopulation) Value() float64            { return float64(p.peak) }
func (p *PeakPopulation) Reset()                    { p.peak = 0 }

// Volatility is the standard deviation of the step-to-step change in
// population.
type Volatility struct {
	prev    int
	started bool
	n       int
	mean    float64
	m2      float64
}

func NewVolatility() *Volatility { return &Volatility{} }

func (v *Volatility) Name() string { return "volatility" }

func (v *Volatility) Observe(f automaton.Frame) {
	if !v.started {
		v.prev, v.started = f.LiveCells, true
		return
	}
	delta := float64(f.LiveCells - v.prev)
	v.prev = f.LiveCells

	v.n++
	d := delta - v.mean
	v.mean += d / float64(v.n)
	v.m2 += d * (delta - v.mean)
}

func (v *Volatility) Value() float64 {
	if v.n < 2 {
		return 0
	}
	return math.Sqrt(v.m2 / float64(v.n-1))
}

func (v *Volatility) Reset() { *v = Volatility{} }

// Standard returns the metrics recorded for every run.
func Standard() []Metric {
	return []Metric{NewPopulation(), NewPeakPopulation(), NewVolatility(), NewStability(), NewCellsFlipped()}
}
