package search

import (
	"github.com/arbiterchess/arbiter/internal/evaluator"
	"github.com/arbiterchess/arbiter/internal/history"
	"github.com/arbiterchess/arbiter/internal/movegen"
	"github.com/arbiterchess/arbiter/internal/moveselector"
	"github.com/arbiterchess/arbiter/internal/moveslice"
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// worker is one Lazy-SMP search thread's entire private state: its own
// copy of the position (made/unmade in place as the recursion descends),
// its own move selectors, history/killer tables, and evaluation caches. No
// field here is ever touched by another worker - the only thing workers
// share is the transposition table.
type worker struct {
	id      int
	isMain  bool
	pos     *position.Position
	sel     [MaxDepth + 1]*moveselector.Selector
	// selEx is a second selector bank used by singular-extension
	// verification searches, which re-enter search() at the same ply and
	// would otherwise clobber the parent node's in-progress selector.
	selEx   [MaxDepth + 1]*moveselector.Selector
	hist    *history.Tables
	evalCtx *evaluator.Context

	nodes    uint64
	seldepth int
	tc       *timeControl

	staticEval [MaxDepth + 1]Value
	pvTable    [MaxDepth + 1]pvLine
	excluded   [MaxDepth + 1]Move

	s *Search

	rootMoves []Move
}

func newWorker(id int, s *Search) *worker {
	w := &worker{id: id, isMain: id == 0, hist: history.NewTables(), evalCtx: evaluator.NewContext(), s: s}
	for i := range w.sel {
		w.sel[i] = moveselector.New()
		w.selEx[i] = moveselector.New()
	}
	return w
}

// skipPattern perturbs helper threads' effective starting depth so that
// Lazy-SMP threads don't all search an identical tree - the classic
// Stockfish-style "skip every Nth depth on thread k" diversification.
var skipPattern = [20]int{0, 1, 1, 2, 2, 3, 3, 4, 2, 3, 4, 5, 1, 2, 3, 4, 5, 2, 3, 4}
var skipSize = [20]int{1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 3, 4, 4, 4}

// isRootMove reports whether m is allowed at the search root, honouring
// both the "searchmoves" UCI restriction and any tablebase root filtering
// the driver applied in filterRootMoves. An empty rootMoves means no
// restriction is in effect.
func (w *worker) isRootMove(m Move) bool {
	if len(w.rootMoves) == 0 {
		return true
	}
	for _, rm := range w.rootMoves {
		if rm == m {
			return true
		}
	}
	return false
}

// legalRootMoves generates every legal move in pos and keeps only those
// named by searchMoves, when that restriction is non-empty.
func legalRootMoves(pos *position.Position, searchMoves []Move) []Move {
	list := moveslice.New()
	movegen.GenerateLegalMoves(pos, movegen.All, list)
	moves := make([]Move, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.At(i).Move
		if len(searchMoves) > 0 {
			found := false
			for _, sm := range searchMoves {
				if sm == m {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		moves = append(moves, m)
	}
	return moves
}

func (w *worker) helperStartDepth(depth int) int {
	if w.isMain {
		return depth
	}
	idx := w.id % len(skipPattern)
	if (depth+skipPattern[idx])%skipSize[idx] == 0 {
		return depth + 1
	}
	return depth
}
