// Package analysis measures grids and population series.
//
// The package includes:
//
//   - [Analyze]: network properties of a grid (density, clusters,
//     fragmentation, state entropy)
//   - [Clusters]: 8-connected components of live cells
//   - [PowerSpectrum] and [DominantPeriod]: oscillation in a population series
//   - [GenerateReturnMap]: population at t against population at t+lag
//
// # Fragmentation
//
// Fragmentation is clusters per live cell. Values near zero mean a few large
// connected structures; values near one mean isolated cells:
//
//	net := analysis.Analyze(grid)
//	if net.Fragmentation < 0.1 {
//	    // highly connected
//	}
package analysis
