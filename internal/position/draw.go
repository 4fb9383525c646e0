package position

import (
	. "github.com/arbiterchess/arbiter/internal/types"
)

// IsInsufficientMaterial reports whether neither side has enough material
// to force checkmate: no pawns, rooks, or queens remain, and each side has
// at most one minor piece (KvK, KvKN, KvKB, KNvKN, KBvKB with same- or
// different-colored bishops - the engine doesn't try to detect the
// opposite-bishop-with-pawns edge case here, only the pawnless endings
// where mate is provably impossible).
func (p *Position) IsInsufficientMaterial() bool {
	if p.AllPieceTypeBb(Pawn) != BbZero {
		return false
	}
	if p.AllPieceTypeBb(Rook) != BbZero || p.AllPieceTypeBb(Queen) != BbZero {
		return false
	}
	whiteMinors := p.PieceBb(White, Knight).PopCount() + p.PieceBb(White, Bishop).PopCount()
	blackMinors := p.PieceBb(Black, Knight).PopCount() + p.PieceBb(Black, Bishop).PopCount()
	return whiteMinors <= 1 && blackMinors <= 1
}

// IsDraw reports whether the position is a rules draw by the fifty-move
// clock, repetition, or insufficient material - the three conditions the
// search treats identically as an immediate ValueDraw return.
func (p *Position) IsDraw() bool {
	return p.IsFiftyMoveDraw() || p.IsRepetition() || p.IsInsufficientMaterial()
}
