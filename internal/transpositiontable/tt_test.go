package transpositiontable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/arbiterchess/arbiter/internal/types"
)

func TestProbeMissOnEmptyTable(t *testing.T) {
	tt := New(1)
	found, _, _, _, _, _ := tt.Probe(0x1234)
	assert.False(t, found)
}

func TestStoreThenProbeRoundTrips(t *testing.T) {
	tt := New(1)
	m := NewMove(SqE2, SqE4, Pawn)
	tt.Store(0xabcdef, m, Value(120), Value(100), 8, Exact)

	found, move, value, eval, depth, vt := tt.Probe(0xabcdef)
	assert.True(t, found)
	assert.Equal(t, m, move)
	assert.Equal(t, Value(120), value)
	assert.Equal(t, Value(100), eval)
	assert.Equal(t, 8, depth)
	assert.Equal(t, Exact, vt)
}

func TestStorePreservesExistingMoveWhenNoneGiven(t *testing.T) {
	tt := New(1)
	m := NewMove(SqD2, SqD4, Pawn)
	tt.Store(0x111, m, Value(10), Value(10), 4, Alpha)
	tt.Store(0x111, MoveNone, Value(20), Value(15), 6, Beta)

	_, move, value, _, depth, vt := tt.Probe(0x111)
	assert.Equal(t, m, move)
	assert.Equal(t, Value(20), value)
	assert.Equal(t, 6, depth)
	assert.Equal(t, Beta, vt)
}

func TestNewSearchBumpsAgeForReplacement(t *testing.T) {
	tt := New(1)
	assert.Equal(t, uint8(0), tt.age)
	tt.NewSearch()
	assert.Equal(t, uint8(1), tt.age)
	tt.NewSearch()
	assert.Equal(t, uint8(2), tt.age)
}

func TestHashFullIsZeroOnEmptyTable(t *testing.T) {
	tt := New(1)
	assert.Equal(t, 0, tt.HashFull())
}

func TestAdjustMateScoreRoundTripsThroughPly(t *testing.T) {
	v := ValueCheckMate - 3
	stored := AdjustMateScoreToStore(v, 5)
	back := AdjustMateScoreFromProbe(stored, 5)
	assert.Equal(t, v, back)
}

func TestResizeClearsEntries(t *testing.T) {
	tt := New(1)
	tt.Store(0x222, NewMove(SqG1, SqF3, Knight), Value(5), Value(5), 2, Exact)
	tt.Resize(2)
	found, _, _, _, _, _ := tt.Probe(0x222)
	assert.False(t, found)
}
