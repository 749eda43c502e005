package automaton

import (
	"crypto/sha256"
)

// Snapshot is an immutable copy of a grid tagged with its generation.
type Snapshot struct {
	Generation int
	Grid       *Grid
}

// History is a fixed-capacity ring of the most recent snapshots.
type History struct {
	buf   []Snapshot
	start int
	size  int
}

// NewHistory returns an empty ring holding at most capacity snapshots.
func NewHistory(capacity int) (*History, error) {
	if capacity <= 0 {
		return nil, &ConfigError{Field: "HistoryCapacity", Reason: "must be positive"}
	}
	return &History{buf: make([]Snapshot, capacity)}, nil
}

// Cap returns K.
func (h *History) Cap() int { return len(h.buf) }

// Len returns the number of buffered snapshots.
func (h *History) Len() int { return h.size }

// Push appends a snapshot, evicting the oldest when full. The grid is
// cloned so later mutation by the caller cannot reach the buffer.
func (h *History) Push(s Snapshot) {
	s.Grid = s.Grid.Clone()
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = s
		h.size++
		return
	}
	h.buf[h.start] = s
	h.start = (h.start + 1) % len(h.buf)
}

// Contains reports whether any buffered snapshot has the same cell states
// as g. Generation tags are ignored.
func (h *History) Contains(g *Grid) bool {
	for i := 0; i < h.size; i++ {
		if h.at(i).Grid.Equal(g) {
			return true
		}
	}
	return false
}

// Clear empties the ring.
func (h *History) Clear() {
	for i := range h.buf {
		h.buf[i] = Snapshot{}
	}
	h.start, h.size = 0, 0
}

// Snapshots returns the buffered snapshots, oldest first.
func (h *History) Snapshots() []Snapshot {
	out := make([]Snapshot, h.size)
	for i := range out {
		out[i] = h.at(i)
	}
	return out
}

// Digest hashes the packed cell states of every buffered snapshot, oldest
// first, with SHA-256.
func (h *History) Digest() [sha256.Size]byte {
	hasher := sha256.New()
	for i := 0; i < h.size; i++ {
		hasher.Write(h.at(i).Grid.Pack())
	}
	var sum [sha256.Size]byte
	copy(sum[:], hasher.Sum(nil))
	return sum
}

func (h *History) at(i int) Snapshot {
	return h.buf[(h.start+i)%len(h.buf)]
}
