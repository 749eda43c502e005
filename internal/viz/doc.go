// Package viz is the interactive terminal view of the automaton.
//
// [Model] is a Bubble Tea model that steps an [automaton.Controller] on a
// timer and draws the grid next to a stats panel:
//
//   - the live cell count as an asciigraph plot
//   - a sparkline of cells flipped by perturbations
//   - the cluster analysis of the current generation
//
// [Canvas] packs a grid into braille characters, eight cells per rune, for
// grids wider than the terminal.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single step
//	R     - Reseed
//	G     - Cycle glyph mode
//	M     - Toggle braille minimap
//	T     - Cycle color themes
//	[]    - Replay (rewind/forward)
//	?     - Show help overlay
package viz
