package search

import (
	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/movegen"
	"github.com/arbiterchess/arbiter/internal/tablebase"
	"github.com/arbiterchess/arbiter/internal/transpositiontable"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// mateIn/matedIn express a forced mate n plies from the current node as a
// Value relative to the root (rewritten to/from a root-relative value at
// TT store/probe).
func mateIn(ply int) Value  { return ValueCheckMate - Value(ply) }
func matedIn(ply int) Value { return -ValueCheckMate + Value(ply) }

// stopCheckInterval is how many nodes a worker visits between polls of the
// shared stop flag and deadline.
const stopCheckInterval = 4096

// valueStopped is returned up the recursion (as a sentinel search result,
// not a Go error) by checking w.s.shouldStop() at node entry; search()
// returns ValueNA and the caller must not trust or store the result.
const valueStopped = ValueNA

// searchChild runs a child node and negates its score into the parent's
// perspective, propagating the stop sentinel unchanged - valueStopped must
// never be negated or it stops looking like a sentinel.
func (w *worker) searchChild(depth, ply int, alpha, beta Value, pvNode, cutNode bool, prevPiece Piece, prevTo Square) Value {
	v := w.search(depth, ply, alpha, beta, pvNode, cutNode, prevPiece, prevTo)
	if v == valueStopped {
		return valueStopped
	}
	return -v
}

func (w *worker) qsearchChild(ply int, alpha, beta Value, pvNode bool) Value {
	v := w.qsearch(ply, alpha, beta, pvNode)
	if v == valueStopped {
		return valueStopped
	}
	return -v
}

func (w *worker) checkStop() bool {
	w.nodes++
	if w.nodes%stopCheckInterval != 0 {
		return false
	}
	if w.s.shouldStop() {
		return true
	}
	if w.tc != nil && w.tc.Expired() {
		w.s.StopSearch()
		return true
	}
	return false
}

// search is the main alpha-beta/PVS node function. depth is plies of search
// remaining, ply is the distance from the search root. Returns valueStopped
// if the stop flag fired mid-search, in which case the caller must discard
// the result without updating the TT or best move.
func (w *worker) search(depth, ply int, alpha, beta Value, pvNode bool, cutNode bool, prevPiece Piece, prevTo Square) Value {
	pv := &w.pvTable[ply]
	pv.clear()

	if w.checkStop() {
		return valueStopped
	}
	if ply > w.seldepth {
		w.seldepth = ply
	}
	// extensions can push a line past the per-ply array bound; settle for
	// the static evaluation rather than indexing off the stack.
	if ply >= MaxDepth {
		return w.evalCtx.Evaluate(w.pos)
	}

	if ply > 0 {
		if w.pos.IsDraw() {
			return ValueDraw
		}
		// mate distance pruning: no line can beat a mate already found
		// closer to the root, so the window can only shrink.
		if config.Settings.Search.UseMateDistancePruning {
			if alpha < matedIn(ply) {
				alpha = matedIn(ply)
			}
			if beta > mateIn(ply+1) {
				beta = mateIn(ply + 1)
			}
			if alpha >= beta {
				return alpha
			}
		}
	}

	inCheck := w.pos.InCheck()
	if depth <= 0 && !inCheck {
		if !config.Settings.Search.UseQuiescence {
			return w.evalCtx.Evaluate(w.pos)
		}
		return w.qsearch(ply, alpha, beta, pvNode)
	}
	if depth < 0 {
		depth = 0
	}

	alphaOrig := alpha
	excludedMove := w.excluded[ply]

	var ttMove Move
	var ttHit bool
	var ttValue, ttEval Value
	var ttDepth int
	var ttBound ValueType
	key := w.pos.ZobristKey()
	if config.Settings.Search.UseTranspositionTable && excludedMove == MoveNone {
		ttHit, ttMove, ttValue, ttEval, ttDepth, ttBound = w.s.tt.Probe(key)
		if ttHit {
			ttValue = transpositiontable.AdjustMateScoreFromProbe(ttValue, ply)
			if !pvNode && ttDepth >= depth {
				switch {
				case ttBound == Exact:
					return ttValue
				case ttBound == Alpha && ttValue <= alpha:
					return ttValue
				case ttBound == Beta && ttValue >= beta:
					return ttValue
				}
			}
		}
	}

	// tablebase probe: leaves with few enough pieces and a clean fifty-move
	// clock get an exact score straight from the prober, bypassing search.
	if ply > 0 && w.s.prober != nil {
		pieces := w.pos.Occupied().PopCount()
		if pieces <= w.s.prober.MaxPieces() && w.pos.HalfMoveClock() == 0 {
			if wdl, ok := w.s.prober.ProbeWdl(w.pos); ok {
				return tablebase.ValueFromWdl(wdl)
			}
		}
	}

	var staticEval Value
	if inCheck {
		staticEval = ValueNA
		w.staticEval[ply] = ValueNA
	} else if ttHit && ttEval != ValueNA {
		staticEval = ttEval
		w.staticEval[ply] = staticEval
	} else {
		staticEval = w.evalCtx.Evaluate(w.pos)
		w.staticEval[ply] = staticEval
	}

	improving := !inCheck && ply >= 2 && w.staticEval[ply-2] != ValueNA && staticEval > w.staticEval[ply-2]

	// pre-move-loop pruning: none of these apply in check, at the root, or
	// at a PV node where we want an exact score.
	if !pvNode && !inCheck && excludedMove == MoveNone && beta < ValueCheckMateThreshold && alpha > -ValueCheckMateThreshold {
		if config.Settings.Search.UseRazoring && depth <= razorMaxDepth && staticEval+razorMargin*Value(depth) < alpha {
			v := w.qsearch(ply, alpha, alpha+1, false)
			if v < alpha {
				return v
			}
		}

		if config.Settings.Search.UseRfp && depth <= rfpMaxDepth && staticEval-Value(rfpMargin*depth) >= beta {
			return staticEval
		}

		if config.Settings.Search.UseNullMovePruning && depth >= nullMoveMinDepth &&
			staticEval >= beta && w.hasNonPawnMaterial() {
			r := nullMoveBaseR + depth/4
			if bonus := int(staticEval-beta) / 200; bonus < 3 {
				r += bonus
			} else {
				r += 3
			}
			w.pos.DoNullMove()
			v := w.searchChild(depth-r-1, ply+1, -beta, -beta+1, false, !cutNode, PieceNone, SqNone)
			w.pos.UndoNullMove()
			if v == valueStopped {
				return valueStopped
			}
			if v >= beta {
				if v >= ValueCheckMateThreshold {
					v = beta
				}
				if depth < 12 {
					return v
				}
				// zugzwang guard: high in the tree, confirm the null-move
				// fail-high with a reduced search of the real moves before
				// trusting it.
				vv := w.search(depth-r-1, ply, beta-1, beta, false, false, prevPiece, prevTo)
				if vv == valueStopped {
					return valueStopped
				}
				if vv >= beta {
					return v
				}
			}
		}

		if config.Settings.Search.UseProbCut && depth >= probCutMinDepth {
			probCutBeta := beta + probCutMargin
			sel := w.sel[ply]
			sel.Reset(w.pos, w.hist, ply, ttMove, MoveNone, prevPiece, prevTo)
			for {
				m, ok := sel.Next()
				if !ok {
					break
				}
				if !m.IsCapture() || !movegen.SEEGe(w.pos, m, int(probCutBeta-staticEval)) {
					continue
				}
				if !movegen.MakeLegal(w.pos, m) {
					w.pos.UndoMove()
					continue
				}
				v := w.searchChild(depth-4, ply+1, -probCutBeta, -probCutBeta+1, false, !cutNode, MakePiece(w.pos.SideToMove().Flip(), m.MovingType()), m.To())
				w.pos.UndoMove()
				if v == valueStopped {
					return valueStopped
				}
				if v >= probCutBeta {
					return v
				}
			}
		}
	}

	// internal iterative deepening/reduction: without a hash move to try
	// first, a shallow search seeds one so move ordering isn't flying blind.
	if config.Settings.Search.UseIid && ttMove == MoveNone && excludedMove == MoveNone && depth >= 6 && (pvNode || cutNode) {
		w.search(depth-depth/2-1, ply, alpha, beta, pvNode, cutNode, prevPiece, prevTo)
		if hit, m, _, _, _, _ := w.s.tt.Probe(key); hit {
			ttMove = m
		}
	}

	sel := w.sel[ply]
	if excludedMove != MoveNone {
		sel = w.selEx[ply]
	}
	sel.Reset(w.pos, w.hist, ply, ttMove, excludedMove, prevPiece, prevTo)

	best := -ValueInf
	bestMove := MoveNone
	legalMoves := 0
	var quietsSearched [64]Move
	numQuiets := 0

	for {
		m, ok := sel.Next()
		if !ok {
			break
		}
		if m == excludedMove {
			continue
		}
		if ply == 0 && !w.isRootMove(m) {
			continue
		}

		isCapture := m.IsCapture()
		givesCheck := w.pos.GivesCheck(m)

		// singular extension probe: before playing the TT move itself at
		// sufficient depth, verify no sibling comes close to its stored
		// value; if one does at a wide margin, the whole node is pruned
		// (multi-cut) instead of extended.
		extension := 0
		if config.Settings.Search.UseSingularExtension && depth >= singularMinDepth && m == ttMove &&
			ttHit && ttBound != Alpha && ttDepth >= depth-3 && excludedMove == MoveNone && ply > 0 {
			singularBeta := ttValue - Value(singularMarginPerDepth*depth)
			w.excluded[ply] = m
			v := w.search(depth/2, ply, singularBeta-1, singularBeta, false, cutNode, prevPiece, prevTo)
			w.excluded[ply] = MoveNone
			if v == valueStopped {
				return valueStopped
			}
			if v < singularBeta {
				extension = 1
			} else if config.Settings.Search.UseMultiCut && singularBeta >= beta {
				return singularBeta
			}
		}
		if config.Settings.Search.UseCheckExtension && extension == 0 && givesCheck && movegen.SEEGe(w.pos, m, 0) {
			extension = 1
		}

		if !pvNode && legalMoves > 0 && !inCheck && !isCapture && best > -ValueCheckMateThreshold {
			if config.Settings.Search.UseFutilityPruning && depth <= futilityMaxDepth &&
				staticEval+Value(futilityBase+futilityMargin*depth) < alpha {
				continue
			}
			if config.Settings.Search.UseLmp && depth <= lmpMaxDepth && numQuiets >= lmpTable[depth] {
				continue
			}
			if config.Settings.Search.UseSee && depth <= 8 && !movegen.SEEGe(w.pos, m, -20*depth*depth) {
				continue
			}
		}

		if !movegen.MakeLegal(w.pos, m) {
			w.pos.UndoMove()
			continue
		}
		legalMoves++
		if !isCapture && numQuiets < len(quietsSearched) {
			quietsSearched[numQuiets] = m
			numQuiets++
		}

		childPiece := MakePiece(w.pos.SideToMove().Flip(), m.MovingType())
		newDepth := depth - 1 + extension

		var v Value
		if legalMoves == 1 {
			v = w.searchChild(newDepth, ply+1, -beta, -alpha, pvNode, false, childPiece, m.To())
		} else {
			reduction := 0
			if config.Settings.Search.UseLmr && depth >= 3 && legalMoves > 1 && !isCapture && !givesCheck {
				reduction = lmrTable[minInt(depth, maxPly-1)][minInt(legalMoves, 63)]
				if !improving {
					reduction++
				}
				if pvNode {
					reduction--
				}
				if cutNode {
					reduction++
				}
				if w.hist != nil {
					hs := w.hist.ButterflyScore(w.pos.SideToMove().Flip(), m)
					if hs > 4000 {
						reduction--
					} else if hs < -4000 {
						reduction++
					}
				}
				if reduction < 0 {
					reduction = 0
				}
				if reduction > newDepth-1 {
					reduction = newDepth - 1
				}
			}
			v = w.searchChild(newDepth-reduction, ply+1, -alpha-1, -alpha, false, true, childPiece, m.To())
			if v == valueStopped {
				w.pos.UndoMove()
				return valueStopped
			}
			if v > alpha && reduction > 0 {
				v = w.searchChild(newDepth, ply+1, -alpha-1, -alpha, false, !cutNode, childPiece, m.To())
			}
			if v != valueStopped && v > alpha && v < beta {
				v = w.searchChild(newDepth, ply+1, -beta, -alpha, true, false, childPiece, m.To())
			}
		}
		w.pos.UndoMove()

		if v == valueStopped {
			return valueStopped
		}

		if v > best {
			best = v
			bestMove = m
			if v > alpha {
				alpha = v
				if pvNode {
					pv.set(m, &w.pvTable[ply+1])
				}
			}
		}

		if alpha >= beta {
			traceNode(ply, depth, int(alpha), int(beta), "cutoff "+m.StringUci())
			if !isCapture {
				bonus := int32(depth * depth)
				w.hist.UpdateKiller(ply, m)
				w.hist.UpdateButterfly(w.pos.SideToMove(), m, bonus)
				w.hist.UpdateCounterMove(prevPiece, prevTo, m)
				w.hist.UpdateCounterHistory(prevPiece, prevTo, childPiece, m.To(), bonus)
				for i := 0; i < numQuiets-1; i++ {
					w.hist.UpdateButterfly(w.pos.SideToMove(), quietsSearched[i], -bonus)
					w.hist.UpdateCounterHistory(prevPiece, prevTo, MakePiece(w.pos.SideToMove(), quietsSearched[i].MovingType()), quietsSearched[i].To(), -bonus)
				}
			}
			break
		}
	}

	if legalMoves == 0 {
		if excludedMove != MoveNone {
			return alpha
		}
		if inCheck {
			return matedIn(ply)
		}
		return ValueDraw
	}

	if config.Settings.Search.UseTranspositionTable && excludedMove == MoveNone {
		bound := Exact
		if best <= alphaOrig {
			bound = Alpha
		} else if best >= beta {
			bound = Beta
		}
		storeEval := staticEval
		w.s.tt.Store(key, bestMove, transpositiontable.AdjustMateScoreToStore(best, ply), storeEval, depth, bound)
	}

	return best
}

func (w *worker) hasNonPawnMaterial() bool {
	us := w.pos.SideToMove()
	return w.pos.PieceBb(us, Knight)|w.pos.PieceBb(us, Bishop)|w.pos.PieceBb(us, Rook)|w.pos.PieceBb(us, Queen) != BbZero
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
