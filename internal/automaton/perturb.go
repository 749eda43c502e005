package automaton

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"time"

	"github.com/san-kum/asciilife/internal/digits"
)

// Clock supplies wall-clock time to the perturbation engine.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports T. Tests use it to make perturbations
// reproducible.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// pcgStream keeps cell selection independent of any other PCG user seeded
// with the same value.
const pcgStream = 0x61736369696c6966

// PerturbationEngine turns π digits, a history digest and the clock into a
// bounded set of cell flips.
type PerturbationEngine struct {
	src      *digits.Source
	fraction float64
	clock    Clock
}

// NewPerturbationEngine builds an engine. A nil clock means SystemClock.
func NewPerturbationEngine(src *digits.Source, fraction float64, clock Clock) *PerturbationEngine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &PerturbationEngine{src: src, fraction: fraction, clock: clock}
}

// Limit is the largest number of cells a single perturbation may change:
// floor(fraction·W·H).
func (e *PerturbationEngine) Limit(g *Grid) int {
	return int(math.Floor(e.fraction * float64(g.Size())))
}

// WallClockSeconds returns the clock reading as Unix seconds.
func (e *PerturbationEngine) WallClockSeconds() float64 {
	return float64(e.clock.Now().UnixNano()) / 1e9
}

// ComputeEntropyValue folds three sources into 32 bits:
//
//   - the π digit at digitCursor, 4 bits
//   - the big-endian 32-bit word of historyDigest at index generation mod 8
//   - the wall clock in milliseconds, truncated to 32 bits
//
// and XORs them together.
func (e *PerturbationEngine) ComputeEntropyValue(generation, digitCursor int, historyDigest [sha256.Size]byte, wallClockSeconds float64) uint32 {
	digit := uint32(e.src.DigitAt(digitCursor)) & 0xF

	word := ((generation % 8) + 8) % 8
	hash := binary.BigEndian.Uint32(historyDigest[word*4 : word*4+4])

	millis := uint32(int64(wallClockSeconds * 1000))

	return digit ^ hash ^ millis
}

// SelectPerturbationCells derives between 1 and Limit(g) distinct cells
// from entropy. Each change flips the cell's current state. The result is
// a pure function of the grid and entropy.
func (e *PerturbationEngine) SelectPerturbationCells(g *Grid, entropy uint32) []CellChange {
	limit := e.Limit(g)
	if limit <= 0 {
		return nil
	}

	r := rand.New(rand.NewPCG(uint64(entropy), pcgStream))
	count := 1 + r.IntN(limit)

	seen := make(map[int]struct{}, count)
	out := make([]CellChange, 0, count)
	for attempts := 0; len(out) < count && attempts < 4*count+16; attempts++ {
		idx := r.IntN(g.Size())
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, CellChange{
			Row:   idx / g.w,
			Col:   idx % g.w,
			Alive: !g.cells[idx],
		})
	}
	return out
}
