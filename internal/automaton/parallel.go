package automaton

import (
	"runtime"
	"sync"
)

const (
	// parallelThreshold is the cell count from which Evolve splits rows
	// across workers.
	parallelThreshold = 128 * 64
	minRowsPerWorker  = 8
)

// parallelFor calls fn over [0, n) in contiguous chunks, one goroutine per
// chunk, and returns when all chunks are done.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.NumCPU()
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(start, end)
		}()
	}
	wg.Wait()
}
