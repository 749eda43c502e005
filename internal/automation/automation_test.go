package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/asciilife/internal/config"
	"github.com/san-kum/asciilife/internal/logging"
	"github.com/san-kum/asciilife/internal/storage"
)

const scenarioYAML = `
name: still lifes
description: a blinker then a block
steps:
  - pattern: blinker
    width: 10
    height: 10
    generations: 6
    save_as: blink
  - pattern: block
    width: 8
    height: 8
    generations: 4
    cursor: 3
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "still lifes", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, "blink", sc.Steps[0].SaveAs)
	require.NotNil(t, sc.Steps[1].Cursor)
	assert.Equal(t, 3, *sc.Steps[1].Cursor)
	assert.Nil(t, sc.Steps[0].Cursor)
}

func TestLoadScenario_Errors(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: empty\n"))
	assert.Error(t, err)

	_, err = LoadScenario(writeScenario(t, "steps: [[[\n"))
	assert.Error(t, err)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestScenarioStep_Apply(t *testing.T) {
	base := config.DefaultConfig()
	cursor := 0

	cfg, err := ScenarioStep{Pattern: "glider", Width: 30, Boundary: "clamped", Cursor: &cursor}.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, "glider", cfg.Pattern)
	assert.Equal(t, 30, cfg.Grid.Width)
	assert.Equal(t, base.Grid.Height, cfg.Grid.Height)
	assert.Equal(t, "clamped", cfg.Grid.Boundary)
	assert.Equal(t, 0, cfg.Cursor)
	assert.Equal(t, config.DefaultPattern, base.Pattern, "base must not change")

	_, err = ScenarioStep{Pattern: "nope"}.Apply(base)
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	st := storage.New(t.TempDir())
	require.NoError(t, st.Init())

	results, err := RunScenario(context.Background(), sc, config.DefaultConfig(), st, logging.Discard())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 6, results[0].Result.Generations)
	assert.Equal(t, 4, results[1].Result.Generations)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Result.Perturbations, 1, "step %d should stagnate", r.Step)
	}

	assert.Equal(t, "blink", results[0].RunID)
	assert.Empty(t, results[1].RunID)

	meta, err := st.Load("blink")
	require.NoError(t, err)
	assert.Equal(t, "blinker", meta.Pattern)
	assert.Equal(t, 6, meta.Generations)

	stats, err := st.LoadStats("blink")
	require.NoError(t, err)
	assert.Len(t, stats, 6)
}

func TestRunScenario_StepErrors(t *testing.T) {
	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{{Pattern: "block"}}}
	_, err := RunScenario(context.Background(), sc, config.DefaultConfig(), nil, logging.Discard())
	assert.ErrorContains(t, err, "step 1")

	sc.Steps[0] = ScenarioStep{Pattern: "nope", Generations: 3}
	_, err = RunScenario(context.Background(), sc, config.DefaultConfig(), nil, logging.Discard())
	assert.ErrorContains(t, err, "step 1")
}

func TestFractions(t *testing.T) {
	s := &FractionSweep{Min: 0, Max: 0.2, NumSteps: 3}
	got := s.Fractions()
	require.Len(t, got, 3)
	assert.InDelta(t, 0.0, got[0], 1e-12)
	assert.InDelta(t, 0.1, got[1], 1e-12)
	assert.InDelta(t, 0.2, got[2], 1e-12)

	assert.Equal(t, []float64{0.3}, (&FractionSweep{Min: 0.3, Max: 0.9, NumSteps: 1}).Fractions())
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Pattern = "block"
	base.Grid.Width, base.Grid.Height = 12, 12

	results, err := RunSweep(context.Background(), &FractionSweep{
		Base:        base,
		Min:         0,
		Max:         0.2,
		NumSteps:    3,
		Generations: 10,
	}, logging.Discard())
	require.NoError(t, err)
	require.Len(t, results, 3)

	// A zero fraction still reports stagnation but flips nothing.
	assert.Greater(t, results[0].Perturbations, 0)
	assert.Zero(t, results[0].CellsFlipped)
	assert.Greater(t, results[2].CellsFlipped, 0.0)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Stability, 0.0)
		assert.LessOrEqual(t, r.Stability, 1.0)
	}
}

func TestRunSweep_Invalid(t *testing.T) {
	base := config.DefaultConfig()
	ctx := context.Background()

	_, err := RunSweep(ctx, &FractionSweep{Base: base, Min: 0, Max: 1.5, NumSteps: 2, Generations: 1}, nil)
	assert.Error(t, err)

	_, err = RunSweep(ctx, &FractionSweep{Base: base, Min: 0, Max: 0.1, NumSteps: 0, Generations: 1}, nil)
	assert.Error(t, err)
}
