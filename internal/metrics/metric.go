// Package metrics accumulates per-run statistics and exports live values to
// Prometheus.
package metrics

import (
	"github.com/san-kum/asciilife/internal/automaton"
)

// Metric matches sim.Metric.
type Metric interface {
	Name() string
	Observe(f automaton.Frame)
	Value() float64
	Reset()
}
