// Package render turns automaton frames into text.
package render

import (
	"fmt"
	"strings"

	"github.com/san-kum/asciilife/internal/automaton"
	"github.com/san-kum/asciilife/internal/digits"
)

// Mode selects how live cells are drawn.
type Mode string

const (
	ModeBlocks   Mode = "blocks"
	ModeDigits   Mode = "digits"
	ModePathways Mode = "pathways"
)

// Modes lists the modes in cycling order.
var Modes = []Mode{ModeBlocks, ModeDigits, ModePathways}

// Glyphs are chosen by digit value; 9 reuses the last entry.
var Glyphs = []rune{' ', '░', '▒', '▓', '█', '◆', '●', '♦', '★'}

const blockGlyph = '█'

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown glyph mode: %s", s)
}

// Next returns the mode after m in Modes.
func (m Mode) Next() Mode {
	for i, mm := range Modes {
		if mm == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeBlocks
}

// Renderer draws frames in one mode. Digit mode consumes one digit per live
// cell from its reader, so the same grid rarely looks the same twice.
type Renderer struct {
	mode   Mode
	reader *digits.Reader
}

// NewRenderer returns a Renderer; reader is only used in digit mode and may
// be nil otherwise.
func NewRenderer(mode Mode, reader *digits.Reader) *Renderer {
	return &Renderer{mode: mode, reader: reader}
}

func (r *Renderer) Mode() Mode { return r.mode }

func (r *Renderer) SetMode(mode Mode) { r.mode = mode }

// CycleMode switches to the next mode and returns it.
func (r *Renderer) CycleMode() Mode {
	r.mode = r.mode.Next()
	return r.mode
}

// Render draws the frame's cells.
func (r *Renderer) Render(f automaton.Frame) string {
	return r.Cells(f.Cells)
}

// Cells draws a cell matrix in the renderer's mode.
func (r *Renderer) Cells(cells [][]bool) string {
	switch r.mode {
	case ModeDigits:
		if r.reader != nil {
			return DigitGlyphs(cells, r.reader)
		}
	case ModePathways:
		return Pathways(cells)
	}
	return Blocks(cells)
}

// Blocks draws live cells as full blocks.
func Blocks(cells [][]bool) string {
	return draw(cells, func(_, _ int) rune { return blockGlyph })
}

// DigitGlyphs draws each live cell with the glyph indexed by the next digit.
func DigitGlyphs(cells [][]bool, r *digits.Reader) string {
	return draw(cells, func(_, _ int) rune {
		d := r.Next(1)[0]
		return Glyphs[min(d, len(Glyphs)-1)]
	})
}

// draw calls glyph for live cells in row-major order and trims trailing
// spaces from every line.
func draw(cells [][]bool, glyph func(row, col int) rune) string {
	lines := make([]string, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for j, alive := range row {
			if alive {
				b.WriteRune(glyph(i, j))
			} else {
				b.WriteByte(' ')
			}
		}
		lines[i] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}
