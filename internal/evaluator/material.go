package evaluator

import (
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// Named material-pattern recognizers for the scale factor applied to the
// endgame half of the score. The recognized patterns are the common
// draw-prone endings that the raw material difference misjudges.

// oppositeColoredBishops reports whether each side has exactly one bishop
// and they stand on opposite-colored squares, with no rooks or queens left
// to fight for the extra square color - the classic dead-drawish ending.
func oppositeColoredBishops(pos *position.Position) bool {
	if pos.PieceBb(White, Bishop).PopCount() != 1 || pos.PieceBb(Black, Bishop).PopCount() != 1 {
		return false
	}
	if pos.AllPieceTypeBb(Rook).PopCount() != 0 || pos.AllPieceTypeBb(Queen).PopCount() != 0 {
		return false
	}
	wLight := SquaresBb(White).Has(pos.PieceBb(White, Bishop).Lsb())
	bLight := SquaresBb(White).Has(pos.PieceBb(Black, Bishop).Lsb())
	return wLight != bLight
}

// loneBishop reports whether c has a single bishop and no other piece kind
// besides pawns and king - a lone bishop (with or without rook-pawns only)
// struggles to convert an extra pawn or two.
func loneBishop(pos *position.Position, c Color) bool {
	if pos.PieceBb(c, Bishop).PopCount() != 1 {
		return false
	}
	return pos.PieceBb(c, Knight) == 0 && pos.PieceBb(c, Rook) == 0 && pos.PieceBb(c, Queen) == 0
}

// rookVsMinor reports whether one side has a lone extra rook against the
// other side's lone extra minor piece with no other majors/minors on the
// board - a notoriously drawish material imbalance regardless of the raw
// centipawn difference.
func rookVsMinor(pos *position.Position) bool {
	wMinors := pos.PieceBb(White, Knight).PopCount() + pos.PieceBb(White, Bishop).PopCount()
	bMinors := pos.PieceBb(Black, Knight).PopCount() + pos.PieceBb(Black, Bishop).PopCount()
	wRooks := pos.PieceBb(White, Rook).PopCount()
	bRooks := pos.PieceBb(Black, Rook).PopCount()
	if pos.AllPieceTypeBb(Queen).PopCount() != 0 {
		return false
	}
	return (wRooks == 1 && bRooks == 0 && wMinors == 0 && bMinors == 1) ||
		(bRooks == 1 && wRooks == 0 && bMinors == 0 && wMinors == 1)
}

// scaleFactor returns a /128 scaling applied to the endgame half of the
// score for material signatures recognized as especially drawish.
func scaleFactor(pos *position.Position) int {
	if oppositeColoredBishops(pos) {
		return 64
	}
	if rookVsMinor(pos) {
		return 96
	}
	if loneBishop(pos, White) || loneBishop(pos, Black) {
		if pos.AllPieceTypeBb(Pawn).PopCount() <= 1 {
			return 48
		}
	}
	return 128
}
