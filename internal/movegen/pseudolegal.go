package movegen

import (
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// IsPseudoLegal validates an arbitrary 32-bit move against pos without
// generating the full move list - used to check a transposition-table move
// is still playable before trying it, since the table's key collisions and
// position-independent storage mean a stored move can point at a square
// that no longer holds the piece (or holds a different one) it was
// generated for.
func IsPseudoLegal(pos *position.Position, m Move) bool {
	if !m.IsValid() {
		return false
	}
	us := pos.SideToMove()
	from, to := m.From(), m.To()
	moving := pos.PieceOn(from)
	if moving == PieceNone || moving.ColorOf() != us || moving.TypeOf() != m.MovingType() {
		return false
	}
	if pos.ColorBb(us).Has(to) {
		return false
	}

	if m.IsEnPassant() {
		if m.MovingType() != Pawn || pos.EpSquare() != to {
			return false
		}
		return PawnAttacksBb(us.Flip(), to)&from.Bb() != 0
	}

	targetOccupied := pos.Occupied().Has(to)
	if m.IsCapture() && !targetOccupied {
		return false
	}
	if !m.IsCapture() && targetOccupied {
		return false
	}
	if targetOccupied && pos.PieceOn(to).TypeOf() != m.CapturedType() {
		return false
	}

	if m.MovingType() == King {
		if m.IsCastling() {
			return isPseudoLegalCastle(pos, m)
		}
		return GetAttacksBb(King, from, pos.Occupied()).Has(to)
	}

	if m.MovingType() == Pawn {
		return isPseudoLegalPawnMove(pos, m, us)
	}

	return GetAttacksBb(m.MovingType(), from, pos.Occupied()).Has(to)
}

func isPseudoLegalCastle(pos *position.Position, m Move) bool {
	us := pos.SideToMove()
	from, to := m.From(), m.To()
	if from != pos.KingSquare(us) {
		return false
	}
	kingside := to.FileOf() == FileG
	var right CastlingRights
	var clearSquares Bitboard
	var passThrough Square
	if us == White {
		if kingside {
			right, passThrough, clearSquares = CastlingWhiteOO, SqF1, SqF1.Bb()|SqG1.Bb()
		} else {
			right, passThrough, clearSquares = CastlingWhiteOOO, SqD1, SqB1.Bb()|SqC1.Bb()|SqD1.Bb()
		}
	} else {
		if kingside {
			right, passThrough, clearSquares = CastlingBlackOO, SqF8, SqF8.Bb()|SqG8.Bb()
		} else {
			right, passThrough, clearSquares = CastlingBlackOOO, SqD8, SqB8.Bb()|SqC8.Bb()|SqD8.Bb()
		}
	}
	if !pos.Castling().Has(right) {
		return false
	}
	if pos.Occupied()&clearSquares != 0 {
		return false
	}
	them := us.Flip()
	return !pos.IsAttackedBy(from, them) && !pos.IsAttackedBy(passThrough, them) && !pos.IsAttackedBy(to, them)
}

func isPseudoLegalPawnMove(pos *position.Position, m Move, us Color) bool {
	from, to := m.From(), m.To()
	them := us.Flip()
	promoRank := Rank8
	if us == Black {
		promoRank = Rank1
	}
	isPromo := to.RankOf() == promoRank
	if isPromo != m.IsPromotion() {
		return false
	}

	if m.IsCapture() {
		return PawnAttacksBb(them, to)&from.Bb() != 0 && pos.Occupied().Has(to)
	}

	forward := North
	if us == Black {
		forward = South
	}
	single := Square(int(from) + int(forward))
	if to == single {
		return !pos.Occupied().Has(to)
	}
	double := Square(int(from) + 2*int(forward))
	homeRank := Rank2
	if us == Black {
		homeRank = Rank7
	}
	if to == double && from.RankOf() == homeRank {
		return !pos.Occupied().Has(single) && !pos.Occupied().Has(to)
	}
	return false
}
