package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas packs a cell grid into braille characters, two columns by four
// rows per character, so large grids fit a small panel.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

// NewCanvas returns a canvas of w x h characters.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// CanvasFor sizes a canvas to hold cells.
func CanvasFor(cells [][]bool) *Canvas {
	h := len(cells)
	w := 0
	if h > 0 {
		w = len(cells[0])
	}
	return NewCanvas((w+1)/2, (h+3)/4)
}

func (c *Canvas) Clear() {
	for y := range c.Grid {
		for x := range c.Grid[y] {
			c.Grid[y][x] = 0x2800
		}
	}
}

// Set marks the dot at cell coordinates (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cx >= c.Width || cy >= c.Height {
		return
	}
	c.Grid[cy][cx] |= pixelMap[y%4][x%2]
}

// Plot marks every live cell.
func (c *Canvas) Plot(cells [][]bool) {
	for y, row := range cells {
		for x, alive := range row {
			if alive {
				c.Set(x, y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// Braille renders cells as a braille minimap.
func Braille(cells [][]bool) string {
	c := CanvasFor(cells)
	c.Plot(cells)
	return c.String()
}
