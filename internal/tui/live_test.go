package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/render"
)

func frame(gen int, perturbed bool) automaton.Frame {
	return automaton.Frame{
		Generation:     gen,
		Width:          3,
		Height:         2,
		Cells:          [][]bool{{true, false, true}, {false, true, false}},
		LiveCells:      3,
		Stagnant:       perturbed,
		Perturbed:      perturbed,
		PerturbedCells: 1,
		Entropy:        0xabc,
	}
}

func TestLiveRenderer_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	lr := NewLiveRenderer(&buf, render.NewRenderer(render.ModeBlocks, nil), 0)
	lr.Start()
	lr.OnFrame(frame(4, false))
	lr.Stop()

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Error("escape codes written to a non-terminal")
	}
	for _, want := range []string{"gen=4", "live=3", "  █ █\n", "   █\n", "evolving"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLiveRenderer_Throttle(t *testing.T) {
	var buf bytes.Buffer
	lr := NewLiveRenderer(&buf, render.NewRenderer(render.ModeBlocks, nil), 1)
	lr.OnFrame(frame(1, false))
	lr.OnFrame(frame(2, false))

	if strings.Contains(buf.String(), "gen=2") {
		t.Error("second frame within the same second should be dropped")
	}
}

func TestStatus(t *testing.T) {
	if got := Status(frame(1, true)); got != "stagnant: 1 cells perturbed (entropy 00000abc)" {
		t.Errorf("Status = %q", got)
	}
}
