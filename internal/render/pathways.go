package render

// Neuron glyphs stand for cells without orthogonal links.
var neurons = []rune{'◉', '●', '○', '◯', '⊙', '⊗'}

const (
	pathHorizontal = '━'
	pathVertical   = '┃'
	pathCross      = '╋'
	pathUp         = '┻'
	pathDown       = '┳'
	pathLeft       = '┫'
	pathRight      = '┣'
	pathBranch     = '┼'
)

// Pathways draws live cells as a network: each cell picks a box-drawing
// glyph from its live neighbors. Cells outside the grid count as dead.
func Pathways(cells [][]bool) string {
	return draw(cells, func(i, j int) rune { return connection(cells, i, j) })
}

func connection(cells [][]bool, i, j int) rune {
	at := func(di, dj int) bool {
		ni, nj := i+di, j+dj
		if ni < 0 || ni >= len(cells) || nj < 0 || nj >= len(cells[ni]) {
			return false
		}
		return cells[ni][nj]
	}

	up, down := at(-1, 0), at(1, 0)
	left, right := at(0, -1), at(0, 1)
	diagonal := at(-1, -1) || at(-1, 1) || at(1, -1) || at(1, 1)

	active := 0
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if (di != 0 || dj != 0) && at(di, dj) {
				active++
			}
		}
	}

	vertical := up || down
	horizontal := left || right

	switch {
	case active == 0:
		return neurons[0]
	case vertical && horizontal:
		if active >= 4 {
			return pathCross
		}
		return pathBranch
	case vertical:
		switch {
		case up && down:
			return pathVertical
		case up:
			return pathUp
		default:
			return pathDown
		}
	case horizontal:
		switch {
		case left && right:
			return pathHorizontal
		case left:
			return pathLeft
		default:
			return pathRight
		}
	case diagonal && active == 1:
		return neurons[1]
	default:
		return pathBranch
	}
}
