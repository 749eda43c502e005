package metrics

import (
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/asciilife/internal/automaton"
)

func frames(live ...int) []automaton.Frame {
	out := make([]automaton.Frame, len(live))
	for i, n := range live {
		out[i] = automaton.Frame{Generation: i + 1, LiveCells: n}
	}
	return out
}

func observe(m Metric, fs []automaton.Frame) float64 {
	m.Reset()
	for _, f := range fs {
		m.Observe(f)
	}
	return m.Value()
}

func TestPopulation(t *testing.T) {
	assert.Equal(t, 0.0, NewPopulation().Value())
	assert.Equal(t, 4.0, observe(NewPopulation(), frames(2, 4, 6)))
	assert.Equal(t, 6.0, observe(NewPeakPopulation(), frames(2, 6, 4)))
}

func TestVolatility(t *testing.T) {
	assert.Equal(t, 0.0, observe(NewVolatility(), frames(5, 5, 5, 5)))
	// deltas +2, -2, +2, -2
	got := observe(NewVolatility(), frames(4, 6, 4, 6, 4))
	assert.InDelta(t, math.Sqrt(16.0/3.0), got, 1e-9)
}

func TestStabilityAndCellsFlipped(t *testing.T) {
	fs := frames(1, 1, 1, 1)
	fs[1].Perturbed, fs[1].PerturbedCells = true, 3
	fs[3].Perturbed, fs[3].PerturbedCells = true, 2

	assert.Equal(t, 1.0, NewStability().Value())
	assert.Equal(t, 0.5, observe(NewStability(), fs))
	assert.Equal(t, 5.0, observe(NewCellsFlipped(), fs))
}

func TestStandardNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard() {
		assert.False(t, seen[m.Name()], "duplicate metric %s", m.Name())
		seen[m.Name()] = true
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(nil)
	rec.OnFrame(automaton.Frame{Generation: 1, LiveCells: 10, DigitCursor: 3})
	rec.OnFrame(automaton.Frame{Generation: 2, LiveCells: 7, DigitCursor: 10, Perturbed: true, PerturbedCells: 4})

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.generation))
	assert.Equal(t, 7.0, testutil.ToFloat64(rec.liveCells))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.steps))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.perturbations))

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	for _, name := range []string{"asciilife_live_cells 7", "asciilife_perturbations_total 1", "asciilife_perturbed_cells_count 1"} {
		assert.True(t, strings.Contains(string(body), name), "missing %q", name)
	}
}
