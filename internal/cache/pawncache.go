// Package cache implements the per-thread pawn-structure and material
// memoization tables: small direct-mapped hash tables keyed by the
// position's pawn-only and material-only Zobrist hashes, so that repeated
// searches through transpositions with an identical pawn skeleton or
// material signature don't redo the same evaluation work.
package cache

import (
	. "github.com/arbiterchess/arbiter/internal/types"
)

// PawnEntry is one memoized pawn-structure evaluation, keyed by PawnKey.
type PawnEntry struct {
	key         uint64
	value       Score
	passed      [ColorLength]Bitboard
	isolated    [ColorLength]Bitboard
	backward    [ColorLength]Bitboard
	attackedBy  [ColorLength]Bitboard
	attackedBy2 [ColorLength]Bitboard
	semiOpen    [ColorLength]Bitboard
	bothFlanks  bool
}

func (e *PawnEntry) Value() Score                { return e.value }
func (e *PawnEntry) Passed(c Color) Bitboard      { return e.passed[c] }
func (e *PawnEntry) Isolated(c Color) Bitboard    { return e.isolated[c] }
func (e *PawnEntry) Backward(c Color) Bitboard    { return e.backward[c] }
func (e *PawnEntry) AttackedBy(c Color) Bitboard  { return e.attackedBy[c] }
func (e *PawnEntry) AttackedBy2(c Color) Bitboard { return e.attackedBy2[c] }
func (e *PawnEntry) SemiOpen(c Color) Bitboard    { return e.semiOpen[c] }
func (e *PawnEntry) BothFlanks() bool             { return e.bothFlanks }

// PawnTable is a direct-mapped (no chaining, no replacement policy beyond
// "always overwrite") cache of pawn-structure evaluations. One instance
// lives per search thread; it is never shared, so no synchronization is
// needed.
type PawnTable struct {
	entries []PawnEntry
	mask    uint64
}

// NewPawnTable allocates a table with 2^bits entries.
func NewPawnTable(bits uint) *PawnTable {
	size := uint64(1) << bits
	return &PawnTable{entries: make([]PawnEntry, size), mask: size - 1}
}

// Probe returns the cached entry for key if present, or nil on a miss.
func (t *PawnTable) Probe(key uint64) *PawnEntry {
	e := &t.entries[key&t.mask]
	if e.key == key {
		return e
	}
	return nil
}

// Store writes a freshly computed pawn-structure evaluation for key,
// replacing whatever previously lived in that slot unconditionally - a
// missed memoization costs one recompute, never a correctness bug.
func (t *PawnTable) Store(key uint64, value Score, passed, isolated, backward, attackedBy, attackedBy2, semiOpen [ColorLength]Bitboard, bothFlanks bool) *PawnEntry {
	e := &t.entries[key&t.mask]
	*e = PawnEntry{
		key:         key,
		value:       value,
		passed:      passed,
		isolated:    isolated,
		backward:    backward,
		attackedBy:  attackedBy,
		attackedBy2: attackedBy2,
		semiOpen:    semiOpen,
		bothFlanks:  bothFlanks,
	}
	return e
}
