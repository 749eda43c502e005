package patterns

import (
	"testing"

	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/digits"
)

func newGrid(t *testing.T, w, h int) *automaton.Grid {
	t.Helper()
	g, err := automaton.NewGrid(w, h, automaton.BoundaryToroidal)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func TestLibrary(t *testing.T) {
	for name, p := range Library {
		if p.Name != name {
			t.Errorf("pattern %q has name %q", name, p.Name)
		}
		if len(p.Cells) == 0 {
			t.Errorf("pattern %q has no cells", name)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(Library)+2 {
		t.Fatalf("expected %d names, got %d", len(Library)+2, len(names))
	}
	if names[len(names)-2] != SeedDigits || names[len(names)-1] != SeedRandom {
		t.Errorf("expected digits and random last, got %v", names[len(names)-2:])
	}
}

func TestPlaceCentered(t *testing.T) {
	g := newGrid(t, 9, 9)
	p, _ := Get("glider")
	if err := p.PlaceCentered(g); err != nil {
		t.Fatalf("place: %v", err)
	}
	if g.LiveCellCount() != 5 {
		t.Errorf("expected 5 live cells, got %d", g.LiveCellCount())
	}
	if alive, _ := g.Alive(3, 4); !alive {
		t.Error("expected glider head at (3,4)")
	}
}

func TestPlaceWraps(t *testing.T) {
	g := newGrid(t, 4, 4)
	p, _ := Get("block")
	if err := p.Place(g, 3, 3); err != nil {
		t.Fatalf("place: %v", err)
	}
	for _, c := range []automaton.Cell{{3, 3}, {3, 0}, {0, 3}, {0, 0}} {
		if alive, _ := g.Alive(c.Row, c.Col); !alive {
			t.Errorf("expected %v alive", c)
		}
	}
}

func TestFromDigits(t *testing.T) {
	src, err := digits.New(100)
	if err != nil {
		t.Fatalf("digits: %v", err)
	}
	g := newGrid(t, 80, 24)
	r := src.NewReader(0)

	if err := FromDigits(g, r); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if r.Position() != 16 {
		t.Errorf("reader position = %d, want 16", r.Position())
	}

	// Pairs (1,5) and (9,2) of 1415926535897932.
	for _, c := range []automaton.Cell{{23, 16}, {22, 11}, {21, 12}, {20, 13}, {22, 13}} {
		if alive, _ := g.Alive(c.Row, c.Col); !alive {
			t.Errorf("expected %v alive", c)
		}
	}
	// The first pair's cluster digits are all at most five.
	if alive, _ := g.Alive(19, 14); alive {
		t.Error("expected (19,14) dead")
	}

	again := newGrid(t, 80, 24)
	if err := FromDigits(again, src.NewReader(0)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !again.Equal(g) {
		t.Error("digit seeding is not deterministic")
	}
}

func TestRandom(t *testing.T) {
	a, b := newGrid(t, 20, 20), newGrid(t, 20, 20)
	_ = Random(a, 7, 0.3)
	_ = Random(b, 7, 0.3)
	if !a.Equal(b) {
		t.Error("same seed produced different soups")
	}
	if n := a.LiveCellCount(); n == 0 || n == 400 {
		t.Errorf("unexpected live count %d", n)
	}
}

func TestSeeder(t *testing.T) {
	src, _ := digits.New(50)

	tests := []struct {
		name    string
		reader  *digits.Reader
		wantErr bool
	}{
		{"glider", nil, false},
		{SeedRandom, nil, false},
		{SeedDigits, src.NewReader(0), false},
		{SeedDigits, nil, true},
		{"unknown", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := Seeder(tt.name, tt.reader, 1)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Seeder(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			g := newGrid(t, 30, 30)
			if err := fn(g); err != nil {
				t.Fatalf("seed: %v", err)
			}
			if g.LiveCellCount() == 0 {
				t.Error("seeder left the grid empty")
			}
		})
	}
}
