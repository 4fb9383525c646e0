// Package search implements the engine's iterative-deepening principal
// variation search: aspiration windows around each iteration's previous
// score, null-move/razoring/futility pruning, late-move reductions,
// singular extensions, quiescence at the leaves, and a Lazy-SMP driver
// that runs further worker threads sharing one transposition table.
package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/logging"
	"github.com/arbiterchess/arbiter/internal/position"
	"github.com/arbiterchess/arbiter/internal/tablebase"
	"github.com/arbiterchess/arbiter/internal/transpositiontable"
	. "github.com/arbiterchess/arbiter/internal/types"
	"github.com/arbiterchess/arbiter/internal/util"
)

var log = logging.GetLog(logging.EngineLogger)

// UciHandler is the callback boundary search reports progress and results
// through - implemented by the protocol front-end (internal/uci), kept as
// an interface here so search never imports the protocol package.
type UciHandler interface {
	SendIterationEndInfo(depth, seldepth int, value Value, nodes uint64, elapsed time.Duration, hashFull int, pv string)
	SendResult(bestMove, ponderMove Move)
}

type noopUciHandler struct{}

func (noopUciHandler) SendIterationEndInfo(int, int, Value, uint64, time.Duration, int, string) {}
func (noopUciHandler) SendResult(Move, Move)                                                    {}

const (
	stopNone int32 = iota
	stopRequested
)

// Search owns the transposition table and drives one analysis session at a
// time; StartSearch/StopSearch/PonderHit form the protocol-facing surface,
// each one just a thin synchronized wrapper around the actual search
// goroutines. The running semaphore acts as the init/running gate: only
// one search may be in flight, and IsReady blocks until any prior search
// has fully wound down.
type Search struct {
	tt      *transpositiontable.TranspositionTable
	prober  tablebase.Prober
	uci     UciHandler
	running *semaphore.Weighted

	stopLevel int32

	// tc is the active search's time manager; written by StartSearch
	// before any worker runs, read by PonderHit from the protocol thread.
	tc *timeControl

	wg sync.WaitGroup

	lastBestMove   Move
	lastPonderMove Move
}

// NewSearch allocates a search session with the configured hash size and a
// no-op tablebase prober; call SetUciHandler and SetProber to wire in the
// real collaborators.
func NewSearch() *Search {
	return &Search{
		tt:      transpositiontable.New(config.Settings.Search.TtSizeMb),
		prober:  tablebase.None,
		uci:     noopUciHandler{},
		running: semaphore.NewWeighted(1),
	}
}

// SetUciHandler wires in the protocol front-end's info/result sink.
func (s *Search) SetUciHandler(h UciHandler) { s.uci = h }

// SetProber wires in a real tablebase collaborator, replacing the no-op.
func (s *Search) SetProber(p tablebase.Prober) {
	if p == nil {
		p = tablebase.None
	}
	s.prober = p
}

// IsReady blocks until any in-flight search has finished, then returns -
// the UCI "isready"/"readyok" handshake.
func (s *Search) IsReady() {
	_ = s.running.Acquire(context.TODO(), 1)
	s.running.Release(1)
}

// NewGame resets the transposition table for a new game.
func (s *Search) NewGame() {
	s.IsReady()
	s.tt.Resize(config.Settings.Search.TtSizeMb)
}

// Resize reallocates the transposition table to sizeMb.
func (s *Search) Resize(sizeMb int) {
	s.IsReady()
	s.tt.Resize(sizeMb)
}

func (s *Search) shouldStop() bool {
	return atomic.LoadInt32(&s.stopLevel) == stopRequested
}

// StopSearch requests immediate termination of any running search; the
// search goroutines notice at their next node-count poll and unwind
// without updating the TT or best move from their current, incomplete
// iteration.
func (s *Search) StopSearch() {
	atomic.StoreInt32(&s.stopLevel, stopRequested)
}

// PonderHit converts an in-flight ponder search into a normal timed
// search: the opponent played the move we were pondering on, so the
// clock starts counting against our own limits from now.
func (s *Search) PonderHit() {
	if s.tc != nil {
		s.tc.PonderHit()
	}
}

// StartSearch begins a new analysis of pos under lim, spawning one worker
// goroutine per configured thread (Lazy-SMP) and returning immediately;
// results are reported asynchronously through the UciHandler, and the
// caller is expected to call StopSearch (or let lim's own deadline expire)
// to end it.
func (s *Search) StartSearch(pos *position.Position, lim Limits) {
	if !s.running.TryAcquire(1) {
		log.Warning("search: StartSearch called while a search is already running")
		return
	}
	atomic.StoreInt32(&s.stopLevel, stopNone)

	numThreads := config.Settings.Search.NumberOfThreads
	if numThreads < 1 {
		numThreads = 1
	}

	s.tc = newTimeControl(pos.SideToMove(), lim)
	s.tt.NewSearch()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Release(1)
		s.run(pos, lim, numThreads)
	}()
}

// Wait blocks until the current search (if any) has reported a result -
// used by synchronous callers such as tests and the bench command.
func (s *Search) Wait() { s.wg.Wait() }

func (s *Search) run(rootPos *position.Position, lim Limits, numThreads int) {
	rootMoves := s.filterRootMoves(rootPos, lim)

	workers := make([]*worker, numThreads)
	for i := range workers {
		workers[i] = newWorker(i, s)
		workers[i].pos = rootPos.Clone()
		workers[i].rootMoves = rootMoves
	}

	tc := s.tc
	for _, w := range workers {
		w.tc = tc
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var mainResult iterationResult

	for _, w := range workers {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := s.iterativeDeepening(w, lim, tc)
			if w.isMain {
				mu.Lock()
				mainResult = res
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// a pondering search that ran out of depth to explore must still hold
	// its result until the GUI resolves the ponder with ponderhit or stop.
	for tc.Pondering() && !s.shouldStop() {
		time.Sleep(2 * time.Millisecond)
	}

	var totalNodes uint64
	for _, w := range workers {
		totalNodes += w.nodes
	}
	elapsed := tc.Elapsed()
	log.Debugf("search done: %s nodes in %v (%s), heap %s",
		util.FormatNodes(totalNodes), elapsed, util.Nps(totalNodes, elapsed), util.MemStat())

	s.lastBestMove = mainResult.bestMove
	s.lastPonderMove = mainResult.ponderMove
	s.uci.SendResult(s.lastBestMove, s.lastPonderMove)
}

// filterRootMoves computes the root move restriction: the
// "searchmoves" option directly names the allowed subset, and - when a
// real tablebase prober is configured and the position is shallow and
// clean enough to probe - a WDL probe after each remaining candidate narrows
// the set further to only the moves that preserve the best tablebase
// outcome. An empty result means "no restriction".
func (s *Search) filterRootMoves(rootPos *position.Position, lim Limits) []Move {
	var moves []Move
	if len(lim.SearchMoves) > 0 {
		moves = legalRootMoves(rootPos, lim.SearchMoves)
	}

	if s.prober == tablebase.None {
		return moves
	}
	pieces := rootPos.Occupied().PopCount()
	if pieces > s.prober.MaxPieces() || rootPos.HalfMoveClock() != 0 {
		return moves
	}

	candidates := moves
	if candidates == nil {
		candidates = legalRootMoves(rootPos, nil)
	}
	if len(candidates) == 0 {
		return moves
	}

	type scored struct {
		m   Move
		wdl tablebase.Wdl
		ok  bool
	}
	scoredMoves := make([]scored, 0, len(candidates))
	best := tablebase.Loss - 1
	for _, m := range candidates {
		pos := rootPos.Clone()
		pos.DoMove(m)
		wdl, ok := s.prober.ProbeWdl(pos)
		if ok {
			// ProbeWdl reports from the mover-after-the-move's point of
			// view, so our side's outcome is the opposite classification.
			wdl = -wdl
			if wdl > best {
				best = wdl
			}
		}
		scoredMoves = append(scoredMoves, scored{m: m, wdl: wdl, ok: ok})
	}
	if best < tablebase.Loss {
		return moves
	}

	filtered := make([]Move, 0, len(scoredMoves))
	for _, sm := range scoredMoves {
		if sm.ok && sm.wdl == best {
			filtered = append(filtered, sm.m)
		}
	}
	if len(filtered) == 0 {
		return moves
	}
	return filtered
}

type iterationResult struct {
	bestMove   Move
	ponderMove Move
}

// iterativeDeepening runs w's depth-1, depth-2, ... loop until the time
// manager or an explicit depth/node limit says to stop, applying an
// aspiration window around each iteration's score once the previous
// iteration gives one to center on.
func (s *Search) iterativeDeepening(w *worker, lim Limits, tc *timeControl) iterationResult {
	maxDepth := maxPly - 1
	if lim.Depth > 0 && lim.Depth < maxDepth {
		maxDepth = lim.Depth
	}

	var best Value
	var bestMove, ponderMove Move

	startDepth := 1
	if !config.Settings.Search.UseIterativeDeepening {
		startDepth = maxDepth
	}
	for depth := startDepth; depth <= maxDepth; depth++ {
		searchDepth := w.helperStartDepth(depth)
		if searchDepth > maxDepth {
			continue
		}

		var value Value
		if !config.Settings.Search.UseAspirationWindows || depth < 4 {
			value = w.search(searchDepth, 0, -ValueInf, ValueInf, true, false, PieceNone, SqNone)
		} else {
			value = s.aspirationSearch(w, searchDepth, best)
		}

		if value == valueStopped {
			break
		}
		best = value

		pv := &w.pvTable[0]
		if pv.len > 0 {
			bestMove = pv.first()
			if pv.len > 1 {
				ponderMove = pv.moves[1]
			} else {
				ponderMove = MoveNone
			}
		}

		if w.isMain {
			s.uci.SendIterationEndInfo(depth, w.seldepth, best, w.nodes, tc.Elapsed(), s.tt.HashFull(), pv.String())
			tc.NoteIterationResult(bestMove)
		}

		if lim.Nodes > 0 && w.nodes >= lim.Nodes {
			break
		}
		if w.isMain && !tc.ShouldStartNewIteration() {
			atomic.StoreInt32(&s.stopLevel, stopRequested)
			break
		}
		if s.shouldStop() {
			break
		}
	}

	return iterationResult{bestMove: bestMove, ponderMove: ponderMove}
}

// aspirationSearch re-searches with a widening window on fail-high/low.
// A narrow window around the last iteration's score usually re-proves the
// same value far cheaper than a full-width search, at the cost of an
// occasional re-search.
func (s *Search) aspirationSearch(w *worker, depth int, previous Value) Value {
	window := Value(aspirationInitWindow)
	alpha := previous - window
	beta := previous + window
	if alpha < -ValueInf {
		alpha = -ValueInf
	}
	if beta > ValueInf {
		beta = ValueInf
	}

	for {
		value := w.search(depth, 0, alpha, beta, true, false, PieceNone, SqNone)
		if value == valueStopped {
			return valueStopped
		}
		if value <= alpha {
			beta = (alpha + beta) / 2
			alpha = value - window
			if alpha < -ValueInf {
				alpha = -ValueInf
			}
		} else if value >= beta {
			beta = value + window
			if beta > ValueInf {
				beta = ValueInf
			}
		} else {
			return value
		}
		window += window / 2
		if s.shouldStop() {
			return valueStopped
		}
	}
}

// LastResult returns the most recently completed search's best and ponder
// moves - used by UCI's "eval"/debug paths and tests.
func (s *Search) LastResult() (Move, Move) { return s.lastBestMove, s.lastPonderMove }

// TT exposes the shared transposition table, e.g. for an "eval"/"d" debug
// command that wants to report hashfull alongside a static evaluation.
func (s *Search) TT() *transpositiontable.TranspositionTable { return s.tt }
