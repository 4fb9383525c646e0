// Package moveslice provides a lightweight growable list of moves paired
// with an ordering score that is never packed into the Move word itself.
package moveslice

import (
	"sort"

	. "github.com/arbiterchess/arbiter/internal/types"
)

// Entry pairs a move with its current ordering score.
type Entry struct {
	Move  Move
	Score int32
}

// MoveSlice is a move list reused across plies to avoid per-node allocation.
type MoveSlice struct {
	entries []Entry
}

// New returns an empty list with capacity for a typical legal-move count.
func New() *MoveSlice {
	return &MoveSlice{entries: make([]Entry, 0, 64)}
}

// Clear empties the list without releasing its backing array.
func (ms *MoveSlice) Clear() { ms.entries = ms.entries[:0] }

// Len returns the number of moves currently stored.
func (ms *MoveSlice) Len() int { return len(ms.entries) }

// Push appends a move with an initial score of zero.
func (ms *MoveSlice) Push(m Move) {
	ms.entries = append(ms.entries, Entry{Move: m})
}

// At returns the entry at index i.
func (ms *MoveSlice) At(i int) Entry { return ms.entries[i] }

// SetScore updates the score of the entry at index i.
func (ms *MoveSlice) SetScore(i int, score int32) { ms.entries[i].Score = score }

// Truncate shortens the list to its first n entries.
func (ms *MoveSlice) Truncate(n int) {
	if n < len(ms.entries) {
		ms.entries = ms.entries[:n]
	}
}

// Swap exchanges the entries at i and j.
func (ms *MoveSlice) Swap(i, j int) { ms.entries[i], ms.entries[j] = ms.entries[j], ms.entries[i] }

// SortDescending orders every entry by score, highest first. Used for the
// tactical and quiet buckets of the staged move selector, each sorted
// independently right before it is consumed.
func (ms *MoveSlice) SortDescending() {
	sort.SliceStable(ms.entries, func(i, j int) bool {
		return ms.entries[i].Score > ms.entries[j].Score
	})
}

// PickBest moves the highest-scored entry at or after index i into index i
// and returns it - a selection-sort step used when only a handful of moves
// from a large bucket will ever be consumed (common once a cutoff occurs).
func (ms *MoveSlice) PickBest(i int) Entry {
	best := i
	for j := i + 1; j < len(ms.entries); j++ {
		if ms.entries[j].Score > ms.entries[best].Score {
			best = j
		}
	}
	ms.Swap(i, best)
	return ms.entries[i]
}

// Contains reports whether m is already present in the list.
func (ms *MoveSlice) Contains(m Move) bool {
	for _, e := range ms.entries {
		if e.Move == m {
			return true
		}
	}
	return false
}

// Moves returns the underlying moves in their current order, for callers
// that don't need the scores (perft, UCI "go searchmoves" filtering).
func (ms *MoveSlice) Moves() []Move {
	out := make([]Move, len(ms.entries))
	for i, e := range ms.entries {
		out[i] = e.Move
	}
	return out
}
