package automaton

import (
	"errors"
	"testing"
)

func mustGrid(t *testing.T, w, h int, b Boundary, live ...Cell) *Grid {
	t.Helper()
	g, err := NewGrid(w, h, b)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	for _, c := range live {
		if err := g.Set(c.Row, c.Col, true); err != nil {
			t.Fatalf("set %v: %v", c, err)
		}
	}
	return g
}

func liveSet(g *Grid) map[Cell]bool {
	out := make(map[Cell]bool)
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if alive, _ := g.Alive(r, c); alive {
				out[Cell{r, c}] = true
			}
		}
	}
	return out
}

func TestNewGrid_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		b    Boundary
	}{
		{"zero width", 0, 5, BoundaryToroidal},
		{"negative height", 5, -1, BoundaryToroidal},
		{"unknown boundary", 5, 5, Boundary("mirror")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.w, tt.h, tt.b)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestGrid_BoundsChecked(t *testing.T) {
	g := mustGrid(t, 4, 3, BoundaryToroidal)

	for _, c := range []Cell{{-1, 0}, {0, -1}, {3, 0}, {0, 4}} {
		if err := g.Set(c.Row, c.Col, true); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Set%v: expected ErrIndexOutOfRange, got %v", c, err)
		}
		if _, err := g.Alive(c.Row, c.Col); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Alive%v: expected ErrIndexOutOfRange, got %v", c, err)
		}
	}

	var ie *IndexError
	if err := g.Set(7, 1, true); !errors.As(err, &ie) || ie.Row != 7 || ie.Col != 1 {
		t.Errorf("expected IndexError for (7,1), got %v", err)
	}
}

func TestEvolve_Blinker(t *testing.T) {
	for _, b := range []Boundary{BoundaryToroidal, BoundaryClamped} {
		t.Run(string(b), func(t *testing.T) {
			g := mustGrid(t, 5, 5, b, Cell{1, 2}, Cell{2, 2}, Cell{3, 2})

			next := g.Evolve()
			want := map[Cell]bool{{2, 1}: true, {2, 2}: true, {2, 3}: true}
			got := liveSet(next)
			if len(got) != len(want) {
				t.Fatalf("expected %d live cells, got %v", len(want), got)
			}
			for c := range want {
				if !got[c] {
					t.Errorf("expected %v alive after one step", c)
				}
			}

			if !next.Evolve().Equal(g) {
				t.Error("blinker should return to its start after two steps")
			}
		})
	}
}

func TestEvolve_Block(t *testing.T) {
	g := mustGrid(t, 6, 6, BoundaryClamped, Cell{2, 2}, Cell{2, 3}, Cell{3, 2}, Cell{3, 3})
	if !g.Evolve().Equal(g) {
		t.Error("block still life changed")
	}
}

func TestEvolve_AllDeadStaysDead(t *testing.T) {
	g := mustGrid(t, 3, 3, BoundaryToroidal)
	if n := g.Evolve().LiveCellCount(); n != 0 {
		t.Errorf("expected 0 live cells, got %d", n)
	}
}

func TestEvolve_DoesNotMutateReceiver(t *testing.T) {
	g := mustGrid(t, 5, 5, BoundaryToroidal, Cell{1, 2}, Cell{2, 2}, Cell{3, 2})
	before := g.Clone()
	_ = g.Evolve()
	if !g.Equal(before) {
		t.Error("Evolve modified its receiver")
	}
}

func TestEvolve_Deterministic(t *testing.T) {
	g := mustGrid(t, 8, 8, BoundaryToroidal, Cell{0, 1}, Cell{1, 2}, Cell{2, 0}, Cell{2, 1}, Cell{2, 2})
	a, b := g.Evolve(), g.Evolve()
	if !a.Equal(b) {
		t.Error("identical input produced different output")
	}
}

func TestEvolve_Locality(t *testing.T) {
	base := mustGrid(t, 12, 12, BoundaryClamped, Cell{4, 4}, Cell{4, 5}, Cell{5, 4}, Cell{6, 6})
	target := Cell{5, 5}

	want, _ := base.Evolve().Alive(target.Row, target.Col)

	far := base.Clone()
	_ = far.Set(10, 10, true)
	_ = far.Set(0, 11, true)
	got, _ := far.Evolve().Alive(target.Row, target.Col)

	if got != want {
		t.Errorf("cell %v changed from %v to %v after editing distant cells", target, want, got)
	}
}

func TestLiveNeighbors_Boundary(t *testing.T) {
	// Corner neighbors only exist across the wrap.
	cells := []Cell{{0, 4}, {4, 0}, {4, 4}}

	torus := mustGrid(t, 5, 5, BoundaryToroidal, cells...)
	clamped := mustGrid(t, 5, 5, BoundaryClamped, cells...)

	if n, _ := torus.LiveNeighbors(0, 0); n != 3 {
		t.Errorf("toroidal corner neighbors = %d, want 3", n)
	}
	if n, _ := clamped.LiveNeighbors(0, 0); n != 0 {
		t.Errorf("clamped corner neighbors = %d, want 0", n)
	}
	if _, err := clamped.LiveNeighbors(5, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestApplyPerturbation(t *testing.T) {
	g := mustGrid(t, 4, 4, BoundaryToroidal)

	err := g.ApplyPerturbation([]CellChange{{Row: 0, Col: 0, Alive: true}, {Row: 3, Col: 3, Alive: true}}, 2)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if g.LiveCellCount() != 2 {
		t.Errorf("expected 2 live cells, got %d", g.LiveCellCount())
	}
}

func TestApplyPerturbation_RejectsWithoutMutating(t *testing.T) {
	tests := []struct {
		name    string
		changes []CellChange
		limit   int
		want    error
	}{
		{"out of bounds", []CellChange{{Row: 0, Col: 0, Alive: true}, {Row: 4, Col: 0, Alive: true}}, 5, ErrIndexOutOfRange},
		{"over limit", []CellChange{{Row: 0, Col: 0, Alive: true}, {Row: 1, Col: 1, Alive: true}}, 1, ErrPerturbationBound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, 4, 4, BoundaryToroidal)
			err := g.ApplyPerturbation(tt.changes, tt.limit)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if g.LiveCellCount() != 0 {
				t.Error("rejected perturbation modified the grid")
			}
		})
	}
}

func TestPack(t *testing.T) {
	g := mustGrid(t, 3, 3, BoundaryToroidal, Cell{0, 0}, Cell{2, 2})
	packed := g.Pack()
	if len(packed) != 2 {
		t.Fatalf("expected 2 bytes, got %d", len(packed))
	}
	if packed[0] != 0x80 || packed[1] != 0x80 {
		t.Errorf("Pack() = %08b %08b", packed[0], packed[1])
	}
}

func TestEqual(t *testing.T) {
	a := mustGrid(t, 3, 3, BoundaryToroidal, Cell{1, 1})
	b := mustGrid(t, 3, 3, BoundaryClamped, Cell{1, 1})
	c := mustGrid(t, 3, 4, BoundaryToroidal, Cell{1, 1})

	if !a.Equal(b) {
		t.Error("equal states with different boundary should compare equal")
	}
	if a.Equal(c) {
		t.Error("grids of different size compared equal")
	}
	if a.Equal(nil) {
		t.Error("grid compared equal to nil")
	}
}

func TestEvolve_ParallelMatchesSerial(t *testing.T) {
	for _, b := range []Boundary{BoundaryToroidal, BoundaryClamped} {
		g := mustGrid(t, 160, 90, b)
		for i := 0; i < len(g.cells); i++ {
			// deterministic soup
			g.cells[i] = (i*2654435761)%7 < 3
		}

		serial := &Grid{w: g.w, h: g.h, boundary: b, cells: make([]bool, len(g.cells))}
		g.evolveRows(serial, 0, g.h)

		if !g.Evolve().Equal(serial) {
			t.Errorf("%s: parallel evolution differs from serial", b)
		}
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 100, 1001} {
		seen := make([]int, n)
		parallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				seen[i]++
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}
