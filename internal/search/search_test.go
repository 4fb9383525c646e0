package search

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

func TestMain(m *testing.M) {
	config.Setup("")
	os.Exit(m.Run())
}

// TestMateInOne checks that a forced mate one ply deep is actually found
// and reported as the search's best move.
func TestMateInOne(t *testing.T) {
	s := NewSearch()
	p, err := position.NewPosition("4k3/8/4K3/8/8/8/8/4R3 w - - 0 1")
	require.NoError(t, err)

	lim := NewLimits()
	lim.Depth = 4
	s.StartSearch(p, lim)
	s.Wait()

	bestMove, _ := s.LastResult()
	assert.Equal(t, "e1e8", bestMove.StringUci())
}

// TestStalemateHasNoLegalMove checks that a stalemated side to move reports
// no best move rather than picking among (nonexistent) candidates.
func TestStalemateHasNoLegalMove(t *testing.T) {
	s := NewSearch()
	p, err := position.NewPosition("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	assert.False(t, p.InCheck())

	lim := NewLimits()
	lim.Depth = 2
	s.StartSearch(p, lim)
	s.Wait()

	bestMove, _ := s.LastResult()
	assert.Equal(t, MoveNone, bestMove)
}

// resultCapture is a UciHandler stub that funnels SendResult calls into a
// channel so tests can assert on when (not just whether) a result arrived.
type resultCapture struct {
	results chan Move
}

func (resultCapture) SendIterationEndInfo(int, int, Value, uint64, time.Duration, int, string) {}
func (r *resultCapture) SendResult(best, _ Move)                                              { r.results <- best }

// TestPonderHoldsBestMoveUntilStop checks that a ponder search never emits
// its best move on its own - it must wait for stop (or ponderhit plus its
// own deadlines).
func TestPonderHoldsBestMoveUntilStop(t *testing.T) {
	s := NewSearch()
	rc := &resultCapture{results: make(chan Move, 1)}
	s.SetUciHandler(rc)

	lim := NewLimits()
	lim.Ponder = true
	lim.Depth = 2
	s.StartSearch(position.NewStartPosition(), lim)

	select {
	case m := <-rc.results:
		t.Fatalf("bestmove %s emitted while still pondering", m)
	case <-time.After(100 * time.Millisecond):
	}

	s.StopSearch()
	s.Wait()

	select {
	case m := <-rc.results:
		assert.NotEqual(t, MoveNone, m)
	default:
		t.Fatal("no bestmove after stop")
	}
}

// TestFiftyMoveDrawPositionStillSearches checks that a root position that
// already satisfies the fifty-move rule doesn't crash or stall the search -
// the draw short-circuit in search() only fires for ply > 0, so the root
// must still produce a normal best move among the side's legal moves.
func TestFiftyMoveDrawPositionStillSearches(t *testing.T) {
	s := NewSearch()
	p, err := position.NewPosition("8/8/8/4k3/8/4K3/4P3/8 w - - 100 60")
	require.NoError(t, err)
	require.True(t, p.IsFiftyMoveDraw())

	lim := NewLimits()
	lim.Depth = 3
	s.StartSearch(p, lim)
	s.Wait()

	bestMove, _ := s.LastResult()
	assert.NotEqual(t, MoveNone, bestMove)
}
