package search

import (
	"time"

	"github.com/arbiterchess/arbiter/internal/config"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// Limits captures every stopping condition the "go" command can supply.
// Zero values mean "unset"; Search interprets an all-zero Limits as
// infinite analysis bounded only by an explicit stop.
type Limits struct {
	Depth        int
	Nodes        uint64
	MoveTime     time.Duration
	WhiteTime    time.Duration
	BlackTime    time.Duration
	WhiteInc     time.Duration
	BlackInc     time.Duration
	MovesToGo    int
	Infinite     bool
	Ponder       bool
	SearchMoves  []Move
	MoveOverhead time.Duration
}

// NewLimits returns a Limits carrying the configured move overhead, ready
// for the caller to fill in.
func NewLimits() Limits {
	return Limits{MoveOverhead: time.Duration(config.Settings.Search.MoveOverheadMs) * time.Millisecond}
}

// hasClock reports whether Limits specifies any clock at all (as opposed to
// a pure depth/node/infinite search with no wall-clock component).
func (l Limits) hasClock(us Color) bool {
	if us == White {
		return l.WhiteTime > 0
	}
	return l.BlackTime > 0
}
