// Package history tracks move-ordering statistics gathered during search:
// butterfly history for quiet moves, and a counter-move history indexed by
// the opponent's last move, both updated with a gravity-bounded formula so
// a single spike can't permanently dominate ordering.
package history

import (
	. "github.com/arbiterchess/arbiter/internal/types"
)

const maxHistory = 16384

// Tables holds one search thread's history/counter-move/killer state for
// both colors. Search keeps one set
// per Lazy-SMP thread so worker threads never contend on these updates.
type Tables struct {
	butterfly   [ColorLength][SqLength][SqLength]int32
	counterMove [PieceLength][SqLength]Move
	counterHist [PieceLength][SqLength][PieceLength][SqLength]int32
	killers     [MaxDepth][2]Move
}

// NewTables returns a zeroed history/killer state.
func NewTables() *Tables {
	return &Tables{}
}

func gravity(current int32, bonus int32) int32 {
	clamped := bonus
	if clamped > maxHistory {
		clamped = maxHistory
	} else if clamped < -maxHistory {
		clamped = -maxHistory
	}
	return current + clamped - current*abs32(clamped)/maxHistory
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// UpdateButterfly rewards or penalizes a quiet move's from/to squares by
// depth-scaled bonus, called once per searched quiet move at a cutoff node.
func (t *Tables) UpdateButterfly(c Color, m Move, bonus int32) {
	t.butterfly[c][m.From()][m.To()] = gravity(t.butterfly[c][m.From()][m.To()], bonus)
}

// ButterflyScore returns the current history score for a quiet move.
func (t *Tables) ButterflyScore(c Color, m Move) int32 {
	return t.butterfly[c][m.From()][m.To()]
}

// UpdateCounterMove records m as the best reply yet seen to prevMove. At
// the root and after a null move there is no previous move; the SqNone
// sentinel makes these calls no-ops rather than array escapes.
func (t *Tables) UpdateCounterMove(prevMovingPiece Piece, prevTo Square, m Move) {
	if !prevTo.IsValid() {
		return
	}
	t.counterMove[prevMovingPiece][prevTo] = m
}

// CounterMove returns the best known reply to prevMove, or MoveNone.
func (t *Tables) CounterMove(prevMovingPiece Piece, prevTo Square) Move {
	if !prevTo.IsValid() {
		return MoveNone
	}
	return t.counterMove[prevMovingPiece][prevTo]
}

// UpdateCounterHistory rewards or penalizes m in the context of the piece
// and destination square the opponent's previous move placed on the board.
func (t *Tables) UpdateCounterHistory(prevPiece Piece, prevTo Square, movingPiece Piece, to Square, bonus int32) {
	if !prevTo.IsValid() || !to.IsValid() {
		return
	}
	cur := &t.counterHist[prevPiece][prevTo][movingPiece][to]
	*cur = gravity(*cur, bonus)
}

// CounterHistoryScore returns the counter-move history score for m given
// the opponent's previous move context.
func (t *Tables) CounterHistoryScore(prevPiece Piece, prevTo Square, movingPiece Piece, to Square) int32 {
	if !prevTo.IsValid() || !to.IsValid() {
		return 0
	}
	return t.counterHist[prevPiece][prevTo][movingPiece][to]
}

// UpdateKiller stores m as a killer at ply, keeping the two most recent
// distinct killers per ply.
func (t *Tables) UpdateKiller(ply int, m Move) {
	if ply >= MaxDepth {
		return
	}
	if t.killers[ply][0] == m {
		return
	}
	t.killers[ply][1] = t.killers[ply][0]
	t.killers[ply][0] = m
}

// Killers returns the two killer moves stored for ply.
func (t *Tables) Killers(ply int) (Move, Move) {
	if ply >= MaxDepth {
		return MoveNone, MoveNone
	}
	return t.killers[ply][0], t.killers[ply][1]
}
