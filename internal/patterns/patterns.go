// Package patterns provides seed patterns for the automaton: a small
// library of named Life shapes, digit-driven seeding and random soup.
package patterns

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/digits"
)

// Seed names that are not entries of Library.
const (
	SeedDigits = "digits"
	SeedRandom = "random"
)

// seedDigitCount is how many digits one digit seeding consumes.
const seedDigitCount = 16

// Pattern is a shape given as offsets from its top-left corner.
type Pattern struct {
	Name        string
	Description string
	Cells       []automaton.Cell
}

// Size returns the bounding box of the pattern.
func (p Pattern) Size() (w, h int) {
	for _, c := range p.Cells {
		w = max(w, c.Col+1)
		h = max(h, c.Row+1)
	}
	return w, h
}

// Place writes the pattern with its top-left corner at (row, col).
// Coordinates wrap around the grid edges.
func (p Pattern) Place(g *automaton.Grid, row, col int) error {
	for _, c := range p.Cells {
		r := wrap(row+c.Row, g.Height())
		k := wrap(col+c.Col, g.Width())
		if err := g.Set(r, k, true); err != nil {
			return fmt.Errorf("place %s: %w", p.Name, err)
		}
	}
	return nil
}

// PlaceCentered places the pattern in the middle of the grid.
func (p Pattern) PlaceCentered(g *automaton.Grid) error {
	w, h := p.Size()
	return p.Place(g, (g.Height()-h)/2, (g.Width()-w)/2)
}

func cells(rows ...string) []automaton.Cell {
	var out []automaton.Cell
	for r, line := range rows {
		for c, ch := range line {
			if ch == 'O' {
				out = append(out, automaton.Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

var Library = map[string]Pattern{
	"block": {
		Name:        "block",
		Description: "2x2 still life",
		Cells:       cells("OO", "OO"),
	},
	"blinker": {
		Name:        "blinker",
		Description: "period 2 oscillator",
		Cells:       cells("O", "O", "O"),
	},
	"toad": {
		Name:        "toad",
		Description: "period 2 oscillator",
		Cells:       cells(".OOO", "OOO."),
	},
	"beacon": {
		Name:        "beacon",
		Description: "period 2 oscillator",
		Cells:       cells("OO..", "OO..", "..OO", "..OO"),
	},
	"pulsar": {
		Name:        "pulsar",
		Description: "period 3 oscillator",
		Cells: cells(
			"..OOO...OOO..",
			".............",
			"O....O.O....O",
			"O....O.O....O",
			"O....O.O....O",
			"..OOO...OOO..",
			".............",
			"..OOO...OOO..",
			"O....O.O....O",
			"O....O.O....O",
			"O....O.O....O",
			".............",
			"..OOO...OOO..",
		),
	},
	"glider": {
		Name:        "glider",
		Description: "diagonal spaceship",
		Cells:       cells(".O.", "..O", "OOO"),
	},
	"lwss": {
		Name:        "lwss",
		Description: "lightweight spaceship",
		Cells:       cells(".O..O", "O....", "O...O", "OOOO."),
	},
	"r-pentomino": {
		Name:        "r-pentomino",
		Description: "methuselah, settles after 1103 generations",
		Cells:       cells(".OO", "OO.", ".O."),
	},
	"acorn": {
		Name:        "acorn",
		Description: "methuselah, settles after 5206 generations",
		Cells:       cells(".O.....", "...O...", "OO..OOO"),
	},
	"diehard": {
		Name:        "diehard",
		Description: "vanishes after 130 generations",
		Cells:       cells("......O.", "OO......", ".O...OOO"),
	},
}

// Get returns the named library pattern.
func Get(name string) (Pattern, bool) {
	p, ok := Library[name]
	return p, ok
}

// Names lists every accepted seed name, library patterns first.
func Names() []string {
	names := make([]string, 0, len(Library)+2)
	for name := range Library {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, SeedDigits, SeedRandom)
}

// FromDigits seeds eight clusters from the next sixteen digits. Each pair
// (a, b) picks a center x = (10a+b) mod W, y = (7a+3b) mod H; each cell of
// the surrounding 3x3 block is set when the digit at (i+dx+dy) mod 16 is
// greater than five.
func FromDigits(g *automaton.Grid, r *digits.Reader) error {
	d := r.Next(seedDigitCount)
	w, h := g.Width(), g.Height()

	for i := 0; i < len(d); i += 2 {
		x := (d[i]*10 + d[i+1]) % w
		y := (d[i]*7 + d[i+1]*3) % h

		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if d[wrap(i+dx+dy, len(d))] <= 5 {
					continue
				}
				if err := g.Set(wrap(y+dy, h), wrap(x+dx, w), true); err != nil {
					return fmt.Errorf("digit seed: %w", err)
				}
			}
		}
	}
	return nil
}

// Random fills the grid with live cells at the given density.
func Random(g *automaton.Grid, seed uint64, density float64) error {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if rng.Float64() < density {
				if err := g.Set(r, c, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Seeder returns a function suitable for Controller.Seed. Library patterns
// are centered; "digits" reads from r; "random" uses seed at density 0.3.
func Seeder(name string, r *digits.Reader, seed uint64) (func(*automaton.Grid) error, error) {
	switch name {
	case SeedDigits:
		if r == nil {
			return nil, fmt.Errorf("pattern %q needs a digit reader", name)
		}
		return func(g *automaton.Grid) error { return FromDigits(g, r) }, nil
	case SeedRandom:
		return func(g *automaton.Grid) error { return Random(g, seed, 0.3) }, nil
	}

	p, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown pattern: %s", name)
	}
	return p.PlaceCentered, nil
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}
