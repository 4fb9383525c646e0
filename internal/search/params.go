package search

import (
	"math"

	"github.com/arbiterchess/arbiter/internal/types"
)

const (
	maxPly = types.MaxDepth

	nullMoveMinDepth = 3
	nullMoveBaseR    = 3

	razorMaxDepth  = 3
	razorMargin    = 300

	rfpMaxDepth = 8
	rfpMargin   = 85

	futilityMaxDepth = 6
	futilityBase     = 100
	futilityMargin   = 90

	lmpMaxDepth = 8

	probCutMinDepth = 5
	probCutMargin   = 150

	singularMinDepth = 8
	singularMarginPerDepth = 2

	aspirationInitWindow = 15
)

// lmrTable[depth][moveNumber] gives the base reduction in plies for a late
// quiet move, before the history/PV/improving adjustments search applies.
var lmrTable [maxPly][64]int

func init() {
	for d := 1; d < maxPly; d++ {
		for m := 1; m < 64; m++ {
			r := 0.2 + math.Log(float64(d))*math.Log(float64(m))/2.1
			lmrTable[d][m] = int(r)
		}
	}
}

// lmpTable[depth] bounds how many quiet moves are tried at all once depth
// and move-count both suggest the position is unlikely to improve alpha.
var lmpTable = [lmpMaxDepth + 1]int{0, 4, 6, 10, 14, 20, 26, 32, 40}
