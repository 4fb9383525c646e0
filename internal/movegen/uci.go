package movegen

import (
	"github.com/arbiterchess/arbiter/internal/moveslice"
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// MoveFromUci resolves a UCI move string ("e2e4", "e7e8q") against the
// legal moves available in pos, matching it up to a fully-encoded Move -
// the wire format carries no piece type or capture flag, so this is the
// only place that turns "a7a8q" into the promotion move the rest of the
// engine actually operates on. Returns MoveNone if the string names no
// legal move.
func MoveFromUci(pos *position.Position, uci string) Move {
	if len(uci) < 4 {
		return MoveNone
	}
	from := MakeSquare(uci[0:2])
	to := MakeSquare(uci[2:4])
	if !from.IsValid() || !to.IsValid() {
		return MoveNone
	}
	var promo PieceType = PtNone
	if len(uci) >= 5 {
		switch uci[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		}
	}

	legal := moveslice.New()
	GenerateLegalMoves(pos, All, legal)
	for i := 0; i < legal.Len(); i++ {
		m := legal.At(i).Move
		if m.From() == from && m.To() == to && m.PromotionType() == promo {
			return m
		}
	}
	return MoveNone
}
