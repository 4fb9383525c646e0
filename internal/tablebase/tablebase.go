// Package tablebase defines the boundary for an endgame tablebase prober.
// No real Syzygy implementation lives in this repository, but search needs
// two call sites (root move filtering, leaf score override) wired against
// a real interface so a prober can be plugged in without touching the
// search tree.
package tablebase

import (
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// Wdl is a win/draw/loss classification as reported by a WDL tablebase
// probe, from the point of view of the side to move.
type Wdl int

const (
	Loss Wdl = iota - 2
	BlessedLoss
	Draw
	CursedWin
	Win
)

// Prober is the two-entry-point collaborator interface: probing at the
// root to filter/score root moves, and probing at search leaves to
// substitute a tablebase-exact score for the static/search evaluation.
type Prober interface {
	// ProbeWdl returns the WDL classification of pos, or ok=false if pos
	// falls outside the tablebase's coverage or the probe otherwise fails.
	ProbeWdl(pos *position.Position) (wdl Wdl, ok bool)
	// ProbeDtz returns the distance-to-zero of pos, or ok=false on failure.
	ProbeDtz(pos *position.Position) (dtz int, ok bool)
	// MaxPieces returns the largest total piece count the prober covers;
	// search only probes when pos has at most this many pieces left.
	MaxPieces() int
}

// None is the nil-safe no-op prober used whenever no real tablebase is
// configured: every probe fails, so search silently falls back to its own
// result.
type noneProber struct{}

func (noneProber) ProbeWdl(*position.Position) (Wdl, bool) { return Draw, false }
func (noneProber) ProbeDtz(*position.Position) (int, bool) { return 0, false }
func (noneProber) MaxPieces() int                          { return 0 }

// None is the shared no-op Prober instance.
var None Prober = noneProber{}

// ValueFromWdl maps a WDL classification to a search-scale score, used by
// the leaf probe substitution. The score carries no ply-based adjustment:
// every tablebase win (or loss) maps to the same value whatever its
// distance.
func ValueFromWdl(w Wdl) Value {
	switch w {
	case Win:
		return ValueCheckMateThreshold - 1
	case CursedWin:
		return ValueDraw + 1
	case Loss:
		return -ValueCheckMateThreshold + 1
	case BlessedLoss:
		return ValueDraw - 1
	default:
		return ValueDraw
	}
}
