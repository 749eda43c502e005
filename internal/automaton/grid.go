package automaton

// Grid stores W×H boolean cells in row-major order.
type Grid struct {
	w, h     int
	boundary Boundary
	cells    []bool
}

// Cell addresses one grid position.
type Cell struct {
	Row, Col int
}

// CellChange sets one cell to Alive.
type CellChange struct {
	Row, Col int
	Alive    bool
}

// NewGrid allocates an all-dead grid.
func NewGrid(w, h int, boundary Boundary) (*Grid, error) {
	if w <= 0 {
		return nil, &ConfigError{Field: "Width", Reason: "must be positive"}
	}
	if h <= 0 {
		return nil, &ConfigError{Field: "Height", Reason: "must be positive"}
	}
	if _, err := ParseBoundary(string(boundary)); err != nil {
		return nil, err
	}
	return &Grid{w: w, h: h, boundary: boundary, cells: make([]bool, w*h)}, nil
}

func (g *Grid) Width() int         { return g.w }
func (g *Grid) Height() int        { return g.h }
func (g *Grid) Boundary() Boundary { return g.boundary }
func (g *Grid) Size() int          { return len(g.cells) }

func (g *Grid) index(row, col int) int { return row*g.w + col }

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.h && col >= 0 && col < g.w
}

func (g *Grid) check(row, col int) error {
	if !g.inBounds(row, col) {
		return &IndexError{Row: row, Col: col, Width: g.w, Height: g.h}
	}
	return nil
}

// Alive reports the state of a cell.
func (g *Grid) Alive(row, col int) (bool, error) {
	if err := g.check(row, col); err != nil {
		return false, err
	}
	return g.cells[g.index(row, col)], nil
}

// Set writes the state of a cell.
func (g *Grid) Set(row, col int, alive bool) error {
	if err := g.check(row, col); err != nil {
		return err
	}
	g.cells[g.index(row, col)] = alive
	return nil
}

// Clear kills every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = false
	}
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{w: g.w, h: g.h, boundary: g.boundary, cells: make([]bool, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Rows returns the cells as a fresh [H][W] slice.
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.h)
	for r := range rows {
		rows[r] = make([]bool, g.w)
		copy(rows[r], g.cells[r*g.w:(r+1)*g.w])
	}
	return rows
}

// Pack serialises the cell states, eight cells per byte, row-major, most
// significant bit first.
func (g *Grid) Pack() []byte {
	out := make([]byte, (len(g.cells)+7)/8)
	for i, alive := range g.cells {
		if alive {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// LiveCellCount returns the number of live cells.
func (g *Grid) LiveCellCount() int {
	n := 0
	for _, alive := range g.cells {
		if alive {
			n++
		}
	}
	return n
}

// Equal reports elementwise equality. Grids of different size are never
// equal; the boundary mode is not part of the state.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.w != other.w || g.h != other.h {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// LiveNeighbors counts live cells in the Moore neighborhood of (row, col)
// under the grid's boundary mode.
func (g *Grid) LiveNeighbors(row, col int) (int, error) {
	if err := g.check(row, col); err != nil {
		return 0, err
	}
	return g.liveNeighbors(row, col), nil
}

func (g *Grid) liveNeighbors(row, col int) int {
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if g.boundary == BoundaryToroidal {
				r = (r + g.h) % g.h
				c = (c + g.w) % g.w
			} else if !g.inBounds(r, c) {
				continue
			}
			if g.cells[g.index(r, c)] {
				n++
			}
		}
	}
	return n
}

// Evolve returns the next generation. The receiver is not modified.
//
// A live cell with two or three live neighbors survives; a dead cell with
// exactly three becomes live; every other cell is dead.
func (g *Grid) Evolve() *Grid {
	next := &Grid{w: g.w, h: g.h, boundary: g.boundary, cells: make([]bool, len(g.cells))}
	if len(g.cells) < parallelThreshold {
		g.evolveRows(next, 0, g.h)
		return next
	}
	// Workers write disjoint rows of next and only read g.
	parallelFor(g.h, minRowsPerWorker, func(start, end int) {
		g.evolveRows(next, start, end)
	})
	return next
}

func (g *Grid) evolveRows(next *Grid, start, end int) {
	for row := start; row < end; row++ {
		for col := 0; col < g.w; col++ {
			n := g.liveNeighbors(row, col)
			idx := g.index(row, col)
			next.cells[idx] = n == 3 || (g.cells[idx] && n == 2)
		}
	}
}

// ApplyPerturbation writes every change. All coordinates and the change
// count are checked before any cell is touched, so a rejected call leaves
// the grid unchanged.
func (g *Grid) ApplyPerturbation(changes []CellChange, limit int) error {
	if len(changes) > limit {
		return ErrPerturbationBound
	}
	for _, ch := range changes {
		if err := g.check(ch.Row, ch.Col); err != nil {
			return err
		}
	}
	for _, ch := range changes {
		g.cells[g.index(ch.Row, ch.Col)] = ch.Alive
	}
	return nil
}
