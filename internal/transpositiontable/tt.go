// Package transpositiontable implements the engine's shared hash table:
// fixed-size clusters of entries probed and stored without a lock, relying
// on a key/data consistency check to tolerate torn reads from concurrent
// Lazy-SMP writers rather than serializing every probe behind a mutex.
package transpositiontable

import (
	. "github.com/arbiterchess/arbiter/internal/types"
)

// TranspositionTable is safe for concurrent Probe/Store from multiple
// search threads without external locking: each entry is three words, its
// key stored xor-folded with the two data words, so a torn write that
// races a read fails the key check and is treated as a cache miss rather
// than corruption.
type TranspositionTable struct {
	clusters []cluster
	mask     uint64
	age      uint8
}

// New allocates a table sized to approximately sizeMb megabytes.
func New(sizeMb int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(sizeMb)
	return tt
}

// Resize reallocates the table to approximately sizeMb megabytes, clearing
// all entries.
func (tt *TranspositionTable) Resize(sizeMb int) {
	if sizeMb < 1 {
		sizeMb = 1
	}
	bytesTotal := uint64(sizeMb) * MB
	numClusters := bytesTotal / uint64(clusterSizeBytes())
	numClusters = nextPowerOfTwo(numClusters)
	if numClusters == 0 {
		numClusters = 1
	}
	tt.clusters = make([]cluster, numClusters)
	tt.mask = numClusters - 1
	tt.age = 0
}

func clusterSizeBytes() int {
	return clusterSize * 24
}

func nextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	p := uint64(1)
	for p < v {
		p <<= 1
	}
	if p > v {
		p >>= 1
	}
	return p
}

// NewSearch bumps the table's age counter at the start of a new search,
// so stale entries from a previous search lose replacement priority
// without needing to be cleared.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

func (tt *TranspositionTable) clusterFor(key uint64) *cluster {
	return &tt.clusters[key&tt.mask]
}

// Probe looks up key. found reports whether a matching entry was present;
// when found is true the remaining values are populated from it. A torn
// read - one entry's data0/data1/keyXorData words observed mid-write by
// another thread - fails the xor-fold re-derivation in matches and is
// reported as a miss rather than handed back with mismatched fields.
func (tt *TranspositionTable) Probe(key uint64) (found bool, move Move, value Value, eval Value, depth int, vt ValueType) {
	c := tt.clusterFor(key)
	for i := range c.entries {
		e := &c.entries[i]
		if e.matches(key) {
			return true, e.move(), e.value(), e.eval(), e.depth(), e.valueType()
		}
	}
	return false, MoveNone, ValueNA, ValueNA, 0, NoValueType
}

// Store writes a new entry for key, reusing an empty slot or the entry
// already holding key, and otherwise replacing the lowest-worth entry in
// its cluster. value is stored unchanged: Store does not rewrite mate
// scores, AdjustMateScoreToStore does that before the call.
func (tt *TranspositionTable) Store(key uint64, move Move, value Value, eval Value, depth int, vt ValueType) {
	c := tt.clusterFor(key)

	var victim *entry
	for i := range c.entries {
		e := &c.entries[i]
		if e.isEmpty() || e.matches(key) {
			victim = e
			break
		}
		if victim == nil || e.worth(tt.age) < victim.worth(tt.age) {
			victim = e
		}
	}

	if victim.matches(key) && move == MoveNone {
		move = victim.move()
	}

	victim.store(key, move, value, eval, depth, vt, tt.age)
}

// HashFull estimates table occupancy in permille, sampling the first 1000
// clusters - used for UCI "info hashfull" reporting.
func (tt *TranspositionTable) HashFull() int {
	sampled := 1000
	if sampled > len(tt.clusters) {
		sampled = len(tt.clusters)
	}
	used := 0
	for i := 0; i < sampled; i++ {
		for _, e := range tt.clusters[i].entries {
			if !e.isEmpty() {
				used++
			}
		}
	}
	return used * 1000 / (sampled * clusterSize)
}

// AdjustMateScoreToStore converts a mate score found at ply plies from the
// search root into the root-relative representation stored in the table.
func AdjustMateScoreToStore(v Value, ply int) Value {
	if v >= ValueCheckMateThreshold {
		return v + Value(ply)
	}
	if v <= -ValueCheckMateThreshold {
		return v - Value(ply)
	}
	return v
}

// AdjustMateScoreFromProbe converts a root-relative mate score read back
// from the table into one relative to ply plies from the root.
func AdjustMateScoreFromProbe(v Value, ply int) Value {
	if v >= ValueCheckMateThreshold {
		return v - Value(ply)
	}
	if v <= -ValueCheckMateThreshold {
		return v + Value(ply)
	}
	return v
}
