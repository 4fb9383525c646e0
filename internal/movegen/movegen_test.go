package movegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterchess/arbiter/internal/moveslice"
	"github.com/arbiterchess/arbiter/internal/position"
)

func TestStartPositionHas20LegalMoves(t *testing.T) {
	pos := position.NewStartPosition()
	moves := moveslice.New()
	GenerateLegalMoves(pos, All, moves)
	assert.Equal(t, 20, moves.Len())
}

func TestMoveFromUciResolvesPromotion(t *testing.T) {
	pos, err := position.NewPosition("8/P7/8/8/8/8/8/k6K w - - 0 1")
	require.NoError(t, err)
	m := MoveFromUci(pos, "a7a8q")
	require.True(t, m.IsValid())
	assert.True(t, m.IsPromotion())
}

func TestPerftStandardStart(t *testing.T) {
	if testing.Short() {
		t.Skip("perft to depth 6 is slow; run with -short=false")
	}
	cases := []struct {
		depth int
		nodes uint64
	}{
		{5, 4_865_609},
		{6, 119_060_324},
	}
	for _, c := range cases {
		pf := NewPerft()
		pf.StartPerft(position.StartFen, c.depth)
		assert.Equal(t, c.nodes, pf.Nodes, "depth %d", c.depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	if testing.Short() {
		t.Skip("perft to depth 5 is slow; run with -short=false")
	}
	pf := NewPerft()
	pf.StartPerft("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 5)
	assert.Equal(t, uint64(193_690_690), pf.Nodes)
}

func TestPerftRookEndgame(t *testing.T) {
	if testing.Short() {
		t.Skip("perft to depth 6 is slow; run with -short=false")
	}
	pf := NewPerft()
	pf.StartPerft("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 6)
	assert.Equal(t, uint64(11_030_083), pf.Nodes)
}

func TestPerftShallowDepths(t *testing.T) {
	pf := NewPerft()
	pf.StartPerft(position.StartFen, 3)
	assert.Equal(t, uint64(8_902), pf.Nodes)
	assert.Equal(t, uint64(34), pf.Captures)
	assert.Equal(t, uint64(12), pf.Checks)
}
