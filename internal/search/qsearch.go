package search

import (
	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/movegen"
	"github.com/arbiterchess/arbiter/internal/moveslice"
	"github.com/arbiterchess/arbiter/internal/transpositiontable"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// qsearch resolves tactical noise at the leaves: captures and promotions
// only (plus full evasions when in check), with a stand-pat cutoff so quiet
// positions terminate in O(1) rather than recursing into a full quiet
// search. Ply is still tracked so mate scores returned from here stay
// ply-relative like the main search's.
func (w *worker) qsearch(ply int, alpha, beta Value, pvNode bool) Value {
	pv := &w.pvTable[ply]
	pv.clear()

	if w.checkStop() {
		return valueStopped
	}
	if ply > w.seldepth {
		w.seldepth = ply
	}
	if ply >= MaxDepth {
		return w.evalCtx.Evaluate(w.pos)
	}

	inCheck := w.pos.InCheck()

	var ttMove Move
	key := w.pos.ZobristKey()
	if config.Settings.Search.UseTranspositionTable {
		if hit, m, v, _, _, bound := w.s.tt.Probe(key); hit {
			v = transpositiontable.AdjustMateScoreFromProbe(v, ply)
			if !pvNode {
				switch {
				case bound == Exact:
					return v
				case bound == Alpha && v <= alpha:
					return v
				case bound == Beta && v >= beta:
					return v
				}
			}
			ttMove = m
		}
	}

	var best Value
	var deltaBase Value
	if !inCheck {
		staticEval := w.evalCtx.Evaluate(w.pos)
		best = staticEval
		if staticEval >= beta {
			return staticEval
		}
		if alpha < staticEval {
			alpha = staticEval
		}
		deltaBase = staticEval + 120
	} else {
		best = -ValueInf
	}

	moves := moveslice.New()
	if inCheck {
		movegen.GenerateMoves(w.pos, movegen.Evasions, moves)
	} else {
		movegen.GenerateMoves(w.pos, movegen.Captures, moves)
		// the Captures phase leaves out non-capturing promotions; pick them
		// out of the quiet moves when a pawn is one step from promoting.
		us := w.pos.SideToMove()
		if ShiftBitboard(w.pos.PieceBb(us, Pawn), us.MoveDirection())&us.PromotionRankBb() != 0 {
			quiets := moveslice.New()
			movegen.GenerateMoves(w.pos, movegen.Quiets, quiets)
			for i := 0; i < quiets.Len(); i++ {
				if m := quiets.At(i).Move; m.IsPromotion() {
					moves.Push(m)
				}
			}
		}
	}
	for i := 0; i < moves.Len(); i++ {
		moves.SetScore(i, mvvLvaScore(moves.At(i).Move))
	}
	moves.SortDescending()

	legalMoves := 0
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i).Move

		if !inCheck {
			if config.Settings.Search.UseSee && !movegen.SEEGe(w.pos, m, 0) {
				continue
			}
			if m != ttMove && !m.IsPromotion() && deltaBase+m.CapturedType().ValueOf() <= alpha {
				continue
			}
		}

		if !movegen.MakeLegal(w.pos, m) {
			w.pos.UndoMove()
			continue
		}
		legalMoves++

		v := w.qsearchChild(ply+1, -beta, -alpha, pvNode)
		w.pos.UndoMove()

		if v == valueStopped {
			return valueStopped
		}
		if v > best {
			best = v
			if v > alpha {
				alpha = v
				if pvNode {
					pv.set(m, &w.pvTable[ply+1])
				}
			}
		}
		if alpha >= beta {
			break
		}
	}

	if inCheck && legalMoves == 0 {
		return matedIn(ply)
	}
	return best
}

func mvvLvaScore(m Move) int32 {
	victim := int32(m.CapturedType().ValueOf())
	if m.IsEnPassant() {
		victim = int32(Pawn.ValueOf())
	}
	attacker := int32(m.MovingType().ValueOf())
	score := victim*16 - attacker
	if m.IsPromotion() {
		score += int32(m.PromotionType().ValueOf()) * 16
	}
	return score
}
