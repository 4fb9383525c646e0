package transpositiontable

import (
	. "github.com/arbiterchess/arbiter/internal/types"
)

// entry is one packed transposition table slot. Unlike a design that keeps
// the zobrist key in its own field, the key is never stored directly: only
// keyXorData = key XOR data0 XOR data1 is kept, alongside the two packed
// data words themselves. A probe recomputes key' = keyXorData ^ data0 ^
// data1 and compares it against the key it was looking for; the two reads
// and the xor-fold agreeing is what stands in for the key match. A
// concurrent writer that tears the entry - say, the reader observes a new
// data0 paired with a still-old data1 or keyXorData - makes the recomputed
// key' come out wrong with overwhelming probability, so the torn entry is
// rejected as a miss rather than handed back with mismatched fields.
//
//	data0: move (32 bits) | value (16 bits) | eval (16 bits)
//	data1: depth (8 bits) | bound (8 bits) | age (8 bits)
type entry struct {
	keyXorData uint64
	data0      uint64
	data1      uint64
}

func packData0(move Move, value, eval Value) uint64 {
	return uint64(uint32(move)) | uint64(uint16(value))<<32 | uint64(uint16(eval))<<48
}

func (e *entry) move() Move   { return Move(uint32(e.data0)) }
func (e *entry) value() Value { return Value(int16(uint16(e.data0 >> 32))) }
func (e *entry) eval() Value  { return Value(int16(uint16(e.data0 >> 48))) }

func packData1(depth int, vt ValueType, age uint8) uint64 {
	return uint64(uint8(depth)) | uint64(uint8(vt))<<8 | uint64(age)<<16
}

func (e *entry) depth() int        { return int(int8(uint8(e.data1))) }
func (e *entry) valueType() ValueType { return ValueType(uint8(e.data1 >> 8)) }
func (e *entry) age() uint8        { return uint8(e.data1 >> 16) }

// isEmpty reports whether the slot has never been written: a genuine store
// always packs a real (non-zero) moving-piece nibble into data0, since
// MoveNone never names a piece, so a zero data0 only happens on a
// never-written or freshly cleared slot.
func (e *entry) isEmpty() bool { return e.data0 == 0 }

// matches reports whether the entry's xor-folded key reconstructs to key
// and the slot isn't empty - the torn-read check described above.
func (e *entry) matches(key uint64) bool {
	return !e.isEmpty() && e.keyXorData^e.data0^e.data1 == key
}

// store overwrites the entry with a fresh key/move/value/eval/depth/bound/
// age, re-deriving keyXorData from the new data words.
func (e *entry) store(key uint64, move Move, value, eval Value, depth int, vt ValueType, age uint8) {
	e.data0 = packData0(move, value, eval)
	e.data1 = packData1(depth, vt, age)
	e.keyXorData = key ^ e.data0 ^ e.data1
}

// worth scores an entry for replacement: deeper and newer entries are kept
// over shallower, older ones.
func (e *entry) worth(currentAge uint8) int {
	ageDelta := int(currentAge) - int(e.age())
	if ageDelta < 0 {
		ageDelta += 256
	}
	return e.depth() - ageDelta*4
}

const clusterSize = 3

// cluster is the unit of storage the table's slice is built from. Three
// entries share one cache line's worth of locality on typical hardware.
type cluster struct {
	entries [clusterSize]entry
}
