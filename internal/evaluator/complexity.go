package evaluator

import (
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// Complexity-term magnitudes.
const (
	complexityPerPawn    = 2
	complexityBothFlanks = 34
	complexityPawnsOnly  = 38
)

// complexityAdjustment pulls the interpolated score toward zero in
// positions judged harder to convert: pawns spread across both flanks give
// the defending king counterplay on either side, and a pure pawn ending
// (kings and pawns only) raises the defender's fortress and stalemate
// chances. Each pawn on the board restores some winning potential. The
// adjustment never flips the sign of the score.
func complexityAdjustment(pos *position.Position, bothFlanks, pawnsOnly bool, value Value) Value {
	if value == 0 {
		return 0
	}
	reduction := 0
	if bothFlanks {
		reduction += complexityBothFlanks
	}
	if pawnsOnly {
		reduction += complexityPawnsOnly
	}
	reduction -= pos.AllPieceTypeBb(Pawn).PopCount() * complexityPerPawn
	if reduction <= 0 {
		return 0
	}
	r := Value(reduction)
	if value > 0 {
		if r > value {
			r = value
		}
		return -r
	}
	if r > -value {
		r = -value
	}
	return r
}
