package movegen

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arbiterchess/arbiter/internal/moveslice"
	"github.com/arbiterchess/arbiter/internal/position"
)

var out = message.NewPrinter(language.English)

// Perft counts leaf nodes of the legal move tree to a fixed depth, broken
// down by move category - the standard way to validate a move generator
// against known node counts for a handful of reference positions.
type Perft struct {
	Nodes      uint64
	Captures   uint64
	EnPassants uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
	stop       bool
}

// NewPerft returns a zeroed Perft counter.
func NewPerft() *Perft { return &Perft{} }

// Stop requests StartPerftMulti/StartPerft abort at the next depth boundary
// they check - used when perft was launched from a goroutine and the UCI
// "stop" command arrives.
func (pf *Perft) Stop() { pf.stop = true }

// StartPerftMulti runs StartPerft for every depth from startDepth to
// endDepth in turn, printing each result, stopping early if Stop is called.
func (pf *Perft) StartPerftMulti(fen string, startDepth, endDepth int) {
	pf.stop = false
	for d := startDepth; d <= endDepth; d++ {
		if pf.stop {
			out.Print("perft multi-depth run stopped\n")
			return
		}
		pf.StartPerft(fen, d)
	}
}

// StartPerft runs a single-depth perft from fen and prints a summary.
func (pf *Perft) StartPerft(fen string, depth int) {
	pf.stop = false
	if depth <= 0 {
		depth = 1
	}
	pf.reset()

	pos, err := position.NewPosition(fen)
	if err != nil {
		out.Printf("perft: bad fen %q: %v\n", fen, err)
		return
	}

	out.Printf("perft depth %d\n", depth)
	out.Printf("fen: %s\n", fen)

	start := time.Now()
	nodes := pf.search(pos, depth)
	elapsed := time.Since(start)

	if pf.stop {
		out.Print("perft stopped\n")
		return
	}
	pf.Nodes = nodes

	nps := uint64(0)
	if elapsed > 0 {
		nps = nodes * uint64(time.Second) / uint64(elapsed)
	}
	out.Printf("time: %s nps: %d\n", elapsed, nps)
	out.Printf("nodes: %d captures: %d ep: %d castles: %d promotions: %d checks: %d\n",
		pf.Nodes, pf.Captures, pf.EnPassants, pf.Castles, pf.Promotions, pf.Checks)
}

// search recursively counts leaf nodes rooted at pos to the given depth. At
// depth 1 each legal move is classified before being undone rather than
// recursing once more, halving the branching at the true leaves.
func (pf *Perft) search(pos *position.Position, depth int) uint64 {
	if pf.stop {
		return 0
	}

	pseudo := moveslice.New()
	GenerateMoves(pos, All, pseudo)

	var total uint64
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.At(i).Move
		if !MakeLegal(pos, m) {
			pos.UndoMove()
			continue
		}
		if depth > 1 {
			total += pf.search(pos, depth-1)
		} else {
			total++
			if m.IsCapture() {
				pf.Captures++
			}
			if m.IsEnPassant() {
				pf.EnPassants++
			}
			if m.IsCastling() {
				pf.Castles++
			}
			if m.IsPromotion() {
				pf.Promotions++
			}
			if pos.InCheck() {
				pf.Checks++
			}
		}
		pos.UndoMove()
	}
	return total
}

func (pf *Perft) reset() {
	pf.Nodes, pf.Captures, pf.EnPassants, pf.Castles, pf.Promotions, pf.Checks = 0, 0, 0, 0, 0, 0
}
