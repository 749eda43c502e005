package analysis

import (
	"math"

	"github.com/san-kum/asciilife/internal/automaton"
)

// Network summarises the connectivity of a grid's live cells.
type Network struct {
	ActiveCells    int     `json:"active_cells"`
	TotalCells     int     `json:"total_cells"`
	Density        float64 `json:"network_density"`
	ClusterCount   int     `json:"cluster_count"`
	LargestCluster int     `json:"largest_cluster"`
	Fragmentation  float64 `json:"fragmentation"`
	Entropy        float64 `json:"entropy"`
}

// Analyze computes the network properties of g. Clusters do not join
// across the wrap, even on a toroidal grid.
func Analyze(g *automaton.Grid) Network {
	total := g.Size()
	active := g.LiveCellCount()
	clusters := Clusters(g)

	largest := 0
	for _, c := range clusters {
		largest = max(largest, len(c))
	}

	n := Network{
		ActiveCells:    active,
		TotalCells:     total,
		ClusterCount:   len(clusters),
		LargestCluster: largest,
		Fragmentation:  float64(len(clusters)) / float64(max(1, active)),
	}
	if total > 0 {
		n.Density = float64(active) / float64(total)
	}
	n.Entropy = BinaryEntropy(n.Density)
	return n
}

// Interpretation describes the fragmentation in words.
func (n Network) Interpretation() string {
	switch {
	case n.Fragmentation < 0.1:
		return "highly connected network"
	case n.Fragmentation < 0.3:
		return "moderately fragmented pathways"
	default:
		return "sparse, isolated clusters"
	}
}

// Clusters returns the 8-connected components of live cells in row-major
// discovery order.
func Clusters(g *automaton.Grid) [][]automaton.Cell {
	w, h := g.Width(), g.Height()
	rows := g.Rows()
	visited := make([]bool, w*h)
	var out [][]automaton.Cell

	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			if !rows[r][c] || visited[r*w+c] {
				continue
			}

			var component []automaton.Cell
			stack := []automaton.Cell{{Row: r, Col: c}}
			visited[r*w+c] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				component = append(component, cur)

				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						nr, nc := cur.Row+dr, cur.Col+dc
						if nr < 0 || nr >= h || nc < 0 || nc >= w {
							continue
						}
						if !rows[nr][nc] || visited[nr*w+nc] {
							continue
						}
						visited[nr*w+nc] = true
						stack = append(stack, automaton.Cell{Row: nr, Col: nc})
					}
				}
			}
			out = append(out, component)
		}
	}
	return out
}

// BinaryEntropy is the Shannon entropy in bits of a cell being alive with
// probability p.
func BinaryEntropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return -p*math.Log2(p) - (1-p)*math.Log2(1-p)
}
