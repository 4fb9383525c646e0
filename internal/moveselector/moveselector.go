// Package moveselector implements the search's staged move-ordering state
// machine: rather than sorting every pseudo-legal move up front, it yields
// moves one at a time in priority order - hash move, then good tacticals,
// killers, the counter move, quiets ordered by history, and finally the
// deferred bad tacticals - so that a beta cutoff early in the list avoids
// ever scoring or even generating the moves behind it. In-check nodes use a
// separate, simpler evasion pipeline.
package moveselector

import (
	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/history"
	"github.com/arbiterchess/arbiter/internal/movegen"
	"github.com/arbiterchess/arbiter/internal/moveslice"
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

type stage int

const (
	stageHashMove stage = iota
	stageTacticalInit
	stageTactical
	stageKiller1
	stageKiller2
	stageCounter
	stageQuietInit
	stageQuiet
	stageBadTactical
	stageEvasionInit
	stageEvasion
	stageDone
)

// mvv-lva: victim value dominates, attacker value is the tiebreaker, so a
// pawn taking a queen always outranks a queen taking a pawn.
var mvvValue = [PtLength]int32{0, 20000, 100, 320, 330, 500, 900}

// Selector drives one node's move ordering. It is reused across nodes by
// calling Reset rather than allocated per node, like the position's own
// move stack.
type Selector struct {
	pos     *position.Position
	hist    *history.Tables
	ply     int
	inCheck bool

	hashMove     Move
	excludedMove Move
	prevPiece    Piece
	prevTo       Square

	stage stage

	pseudo   *moveslice.MoveSlice
	tactical *moveslice.MoveSlice
	bad      *moveslice.MoveSlice
	quiet    *moveslice.MoveSlice

	idx int

	killer1, killer2 Move
	counter          Move
}

// New returns a reusable selector backed by its own scratch move lists.
func New() *Selector {
	return &Selector{
		pseudo:   moveslice.New(),
		tactical: moveslice.New(),
		bad:      moveslice.New(),
		quiet:    moveslice.New(),
	}
}

// Reset prepares the selector for a new node. hashMove and excludedMove may
// both be MoveNone. prevPiece/prevTo identify the opponent's last move, for
// counter-move lookup; pass PieceNone/SqNone at the root.
func (s *Selector) Reset(pos *position.Position, hist *history.Tables, ply int, hashMove, excludedMove Move, prevPiece Piece, prevTo Square) {
	s.pos = pos
	s.hist = hist
	s.ply = ply
	s.inCheck = pos.InCheck()
	s.hashMove = hashMove
	s.excludedMove = excludedMove
	s.prevPiece = prevPiece
	s.prevTo = prevTo

	s.tactical.Clear()
	s.bad.Clear()
	s.quiet.Clear()
	s.idx = 0

	if s.inCheck {
		s.stage = stageEvasionInit
		s.killer1, s.killer2 = MoveNone, MoveNone
		s.counter = MoveNone
		return
	}

	s.stage = stageHashMove
	s.killer1, s.killer2 = MoveNone, MoveNone
	s.counter = MoveNone
	if hist != nil {
		if config.Settings.Search.UseKillerMoves {
			s.killer1, s.killer2 = hist.Killers(ply)
		}
		if config.Settings.Search.UseCounterMoves {
			s.counter = hist.CounterMove(prevPiece, prevTo)
		}
	}
}

// skip reports whether m must never be yielded: it is MoveNone or the
// excluded move (singular-extension testing). The hash move is filtered
// separately by each stage.
func (s *Selector) skip(m Move) bool {
	if m == MoveNone {
		return true
	}
	if m == s.excludedMove {
		return true
	}
	return false
}

// Next returns the next move in priority order, or (MoveNone, false) once
// every legal move has been yielded.
func (s *Selector) Next() (Move, bool) {
	for {
		switch s.stage {
		case stageHashMove:
			s.stage = stageTacticalInit
			if s.hashMove != MoveNone && s.hashMove != s.excludedMove && movegen.IsPseudoLegal(s.pos, s.hashMove) {
				return s.hashMove, true
			}

		case stageTacticalInit:
			s.pseudo.Clear()
			movegen.GenerateMoves(s.pos, movegen.Captures, s.pseudo)
			for i := 0; i < s.pseudo.Len(); i++ {
				m := s.pseudo.At(i).Move
				if m == s.hashMove || s.skip(m) {
					continue
				}
				score := mvvLva(m)
				if movegen.SEEGe(s.pos, m, 0) {
					s.tactical.Push(m)
					s.tactical.SetScore(s.tactical.Len()-1, score)
				} else {
					s.bad.Push(m)
					s.bad.SetScore(s.bad.Len()-1, score)
				}
			}
			s.tactical.SortDescending()
			s.idx = 0
			s.stage = stageTactical

		case stageTactical:
			if s.idx < s.tactical.Len() {
				m := s.tactical.At(s.idx).Move
				s.idx++
				return m, true
			}
			s.stage = stageKiller1

		case stageKiller1:
			s.stage = stageKiller2
			if s.eligibleKiller(s.killer1) {
				return s.killer1, true
			}

		case stageKiller2:
			s.stage = stageCounter
			if s.eligibleKiller(s.killer2) {
				return s.killer2, true
			}

		case stageCounter:
			s.stage = stageQuietInit
			if s.eligibleCounter(s.counter) {
				return s.counter, true
			}

		case stageQuietInit:
			s.pseudo.Clear()
			movegen.GenerateMoves(s.pos, movegen.Quiets, s.pseudo)
			for i := 0; i < s.pseudo.Len(); i++ {
				m := s.pseudo.At(i).Move
				if m == s.hashMove || m == s.killer1 || m == s.killer2 || m == s.counter || s.skip(m) {
					continue
				}
				score := int32(0)
				if s.hist != nil && config.Settings.Search.UseHistoryHeuristic {
					score = s.hist.ButterflyScore(s.pos.SideToMove(), m) +
						s.hist.CounterHistoryScore(s.prevPiece, s.prevTo, MakePiece(s.pos.SideToMove(), m.MovingType()), m.To())
				}
				s.quiet.Push(m)
				s.quiet.SetScore(s.quiet.Len()-1, score)
			}
			s.quiet.SortDescending()
			s.idx = 0
			s.stage = stageQuiet

		case stageQuiet:
			if s.idx < s.quiet.Len() {
				m := s.quiet.At(s.idx).Move
				s.idx++
				return m, true
			}
			s.idx = 0
			s.stage = stageBadTactical

		case stageBadTactical:
			if s.idx < s.bad.Len() {
				m := s.bad.At(s.idx).Move
				s.idx++
				return m, true
			}
			s.stage = stageDone

		case stageEvasionInit:
			s.pseudo.Clear()
			movegen.GenerateMoves(s.pos, movegen.Evasions, s.pseudo)
			for i := 0; i < s.pseudo.Len(); i++ {
				m := s.pseudo.At(i).Move
				if s.skip(m) {
					continue
				}
				var score int32
				if m.IsCapture() {
					score = mvvLva(m) + 1_000_000
				} else if s.hist != nil {
					score = s.hist.ButterflyScore(s.pos.SideToMove(), m)
				}
				s.quiet.Push(m)
				s.quiet.SetScore(s.quiet.Len()-1, score)
			}
			s.quiet.SortDescending()
			s.idx = 0
			s.stage = stageEvasion

		case stageEvasion:
			if s.idx < s.quiet.Len() {
				m := s.quiet.At(s.idx).Move
				s.idx++
				return m, true
			}
			s.stage = stageDone

		case stageDone:
			return MoveNone, false
		}
	}
}

func (s *Selector) eligibleKiller(m Move) bool {
	if m == MoveNone || m == s.hashMove || m.IsCapture() || s.skip(m) {
		return false
	}
	return movegen.IsPseudoLegal(s.pos, m)
}

func (s *Selector) eligibleCounter(m Move) bool {
	if m == MoveNone || m == s.hashMove || m == s.killer1 || m == s.killer2 || m.IsCapture() || s.skip(m) {
		return false
	}
	return movegen.IsPseudoLegal(s.pos, m)
}

func mvvLva(m Move) int32 {
	victim := mvvValue[m.CapturedType()]
	if m.IsEnPassant() {
		victim = mvvValue[Pawn]
	}
	attacker := mvvValue[m.MovingType()]
	score := victim*16 - attacker
	if m.IsPromotion() {
		score += mvvValue[m.PromotionType()] * 16
	}
	return score
}

// Stage-name helpers are not needed by search directly but keep the state
// machine's vocabulary visible for debugging/tests.
func (s *Selector) InEvasionPipeline() bool { return s.inCheck }
