// Package automaton is the evolution engine behind asciilife.
//
// It owns a two-state cellular automaton and keeps it from settling:
//
//   - [Grid]: fixed-size boolean cells, B3/S23 transition over the Moore
//     neighborhood with toroidal or clamped edges
//   - [History]: ring of the last K snapshots
//   - [IsStagnant]: exact-match lookup of the current grid in history
//   - [PerturbationEngine]: entropy from π digits, a history digest and the
//     wall clock; selects a bounded set of cells to flip
//   - [Controller]: one step per frame, returning a [Frame] for renderers
//
// # Example
//
//	ctrl, err := automaton.NewController(automaton.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	frame, err := ctrl.Step()
//
// # Thread Safety
//
// Controller instances are NOT thread-safe. A controller is meant to be
// driven by a single caller that requests one step at a time. On large
// grids [Grid.Evolve] splits rows across worker goroutines internally and
// returns only after all of them finish.
package automaton
