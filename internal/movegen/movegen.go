// Package movegen generates pseudo-legal moves from a position in one of
// several phases - all moves, captures only, quiets only, check evasions,
// or quiet checking moves - and filters pseudo-legal moves down to legal
// ones via the standard make/attacked/unmake pattern.
package movegen

import (
	"github.com/arbiterchess/arbiter/internal/moveslice"
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// Phase selects which subset of pseudo-legal moves GenerateMoves produces.
type Phase int

const (
	All Phase = iota
	Captures
	Quiets
	Evasions
	QuietChecks
)

// GenerateMoves appends every pseudo-legal move of the requested phase to
// out. When the side to move is in check only the All and Evasions phases
// produce moves; the other phases append nothing. The caller is expected to
// reuse out across plies.
func GenerateMoves(pos *position.Position, phase Phase, out *moveslice.MoveSlice) {
	if pos.InCheck() && phase != Evasions && phase != All {
		return
	}
	if phase == Evasions && !pos.InCheck() {
		return
	}

	us := pos.SideToMove()
	them := us.Flip()
	occ := pos.Occupied()
	startLen := out.Len()

	var targetMask Bitboard
	switch phase {
	case Captures:
		targetMask = pos.ColorBb(them)
	case Quiets, QuietChecks:
		targetMask = ^occ
	case Evasions:
		targetMask = ^pos.ColorBb(us)
		if pos.Checkers().PopCount() == 1 {
			checker := pos.Checkers().Lsb()
			targetMask &= Intermediate(pos.KingSquare(us), checker) | checker.Bb()
		} else {
			targetMask = BbZero // double check: only king moves are legal
		}
	default:
		targetMask = ^pos.ColorBb(us)
	}

	generatePawnMoves(pos, phase, targetMask, out)
	generatePieceMoves(pos, Knight, targetMask, out)
	generatePieceMoves(pos, Bishop, targetMask, out)
	generatePieceMoves(pos, Rook, targetMask, out)
	generatePieceMoves(pos, Queen, targetMask, out)
	generateKingMoves(pos, phase, out)

	if phase == QuietChecks {
		keep := startLen
		for i := startLen; i < out.Len(); i++ {
			if m := out.At(i).Move; pos.GivesCheck(m) {
				out.Swap(keep, i)
				keep++
			}
		}
		out.Truncate(keep)
	}
}

func generatePieceMoves(pos *position.Position, pt PieceType, targetMask Bitboard, out *moveslice.MoveSlice) {
	us := pos.SideToMove()
	pieces := pos.PieceBb(us, pt)
	occ := pos.Occupied()
	for pieces != 0 {
		from := pieces.PopLsb()
		attacks := GetAttacksBb(pt, from, occ) & targetMask
		for attacks != 0 {
			to := attacks.PopLsb()
			if pos.Occupied().Has(to) {
				captured := pos.PieceOn(to).TypeOf()
				out.Push(NewCapture(from, to, pt, captured))
			} else {
				out.Push(NewMove(from, to, pt))
			}
		}
	}
}

func generateKingMoves(pos *position.Position, phase Phase, out *moveslice.MoveSlice) {
	us := pos.SideToMove()
	from := pos.KingSquare(us)
	occ := pos.Occupied()
	attacks := GetAttacksBb(King, from, occ) &^ pos.ColorBb(us)
	for attacks != 0 {
		to := attacks.PopLsb()
		if pos.Occupied().Has(to) {
			if phase == Quiets || phase == QuietChecks {
				continue
			}
			captured := pos.PieceOn(to).TypeOf()
			out.Push(NewCapture(from, to, King, captured))
		} else {
			if phase == Captures {
				continue
			}
			out.Push(NewMove(from, to, King))
		}
	}
	if phase != Captures && phase != Evasions && !pos.InCheck() {
		generateCastles(pos, out)
	}
}

func generateCastles(pos *position.Position, out *moveslice.MoveSlice) {
	us := pos.SideToMove()
	rights := pos.Castling()
	occ := pos.Occupied()
	from := pos.KingSquare(us)

	tryCastle := func(kingside bool) {
		var clearSquares Bitboard
		var kingTo, passThrough Square
		rank := from.RankOf()
		if kingside {
			kingTo = SquareOf(FileG, rank)
			passThrough = SquareOf(FileF, rank)
			clearSquares = SquareOf(FileF, rank).Bb() | SquareOf(FileG, rank).Bb()
		} else {
			kingTo = SquareOf(FileC, rank)
			passThrough = SquareOf(FileD, rank)
			clearSquares = SquareOf(FileB, rank).Bb() | SquareOf(FileC, rank).Bb() | SquareOf(FileD, rank).Bb()
		}
		if occ&clearSquares != 0 {
			return
		}
		them := us.Flip()
		if pos.IsAttackedBy(from, them) || pos.IsAttackedBy(passThrough, them) || pos.IsAttackedBy(kingTo, them) {
			return
		}
		out.Push(NewMove(from, kingTo, King))
	}

	if us == White {
		if rights.Has(CastlingWhiteOO) {
			tryCastle(true)
		}
		if rights.Has(CastlingWhiteOOO) {
			tryCastle(false)
		}
	} else {
		if rights.Has(CastlingBlackOO) {
			tryCastle(true)
		}
		if rights.Has(CastlingBlackOOO) {
			tryCastle(false)
		}
	}
}

var promotionPieces = [4]PieceType{Queen, Rook, Bishop, Knight}

func generatePawnMoves(pos *position.Position, phase Phase, targetMask Bitboard, out *moveslice.MoveSlice) {
	us := pos.SideToMove()
	them := us.Flip()
	occ := pos.Occupied()
	pawns := pos.PieceBb(us, Pawn)

	forward := North
	promoRank := Rank8
	if us == Black {
		forward = South
		promoRank = Rank1
	}

	if phase != Captures {
		pushOnce := ShiftBitboard(pawns, forward) &^ occ
		pushTargets := pushOnce & targetMask
		for b := pushTargets; b != 0; {
			to := b.PopLsb()
			from := Square(int(to) - int(forward))
			pushPawnMove(out, from, to, us, promoRank, false)
		}
		doublePush := ShiftBitboard(pushOnce&thirdRank(us), forward) &^ occ
		doublePush &= targetMask
		for b := doublePush; b != 0; {
			to := b.PopLsb()
			from := Square(int(to) - 2*int(forward))
			out.Push(NewMove(from, to, Pawn))
		}
	}

	if phase != Quiets {
		for _, capDir := range captureDirs(us) {
			captures := ShiftBitboard(pawns, capDir) & pos.ColorBb(them) & targetMask
			for b := captures; b != 0; {
				to := b.PopLsb()
				from := Square(int(to) - int(capDir))
				captured := pos.PieceOn(to).TypeOf()
				pushCapturePromotion(out, from, to, us, captured, promoRank)
			}
		}
		if pos.EpSquare() != SqNone {
			for _, capDir := range captureDirs(us) {
				from := Square(int(pos.EpSquare()) - int(capDir))
				if !from.IsValid() || !pawns.Has(from) {
					continue
				}
				if FileDistance(from, pos.EpSquare()) != 1 {
					continue
				}
				capTargetRank := Rank5
				if us == Black {
					capTargetRank = Rank4
				}
				capTarget := SquareOf(pos.EpSquare().FileOf(), capTargetRank)
				out.Push(NewEnPassant(from, pos.EpSquare(), Pawn, capTarget))
			}
		}
	}
}

func captureDirs(c Color) [2]Direction {
	if c == White {
		return [2]Direction{Northeast, Northwest}
	}
	return [2]Direction{Southeast, Southwest}
}

// thirdRank returns the rank a pawn lands on after a single push from its
// home rank - the only rank from which a double push can continue.
func thirdRank(c Color) Bitboard {
	if c == White {
		return Rank3Bb
	}
	return Rank6Bb
}

func pushPawnMove(out *moveslice.MoveSlice, from, to Square, us Color, promoRank Rank, isCapture bool) {
	if to.RankOf() == promoRank {
		for _, pt := range promotionPieces {
			out.Push(NewPromotion(from, to, Pawn, PtNone, pt))
		}
		return
	}
	out.Push(NewMove(from, to, Pawn))
}

func pushCapturePromotion(out *moveslice.MoveSlice, from, to Square, us Color, captured PieceType, promoRank Rank) {
	if to.RankOf() == promoRank {
		for _, pt := range promotionPieces {
			out.Push(NewPromotion(from, to, Pawn, captured, pt))
		}
		return
	}
	out.Push(NewCapture(from, to, Pawn, captured))
}

// MakeLegal plays m on pos and reports whether it is legal, i.e. whether the
// side that moved is not left in check. The move stays played either way,
// so the caller must always call pos.UndoMove.
func MakeLegal(pos *position.Position, m Move) bool {
	mover := pos.SideToMove()
	pos.DoMove(m)
	return !pos.IsAttackedBy(pos.KingSquare(mover), pos.SideToMove())
}

// GenerateLegalMoves generates every legal move of the given phase,
// filtering pseudo-legal candidates through make/unmake.
func GenerateLegalMoves(pos *position.Position, phase Phase, out *moveslice.MoveSlice) {
	pseudo := moveslice.New()
	GenerateMoves(pos, phase, pseudo)
	out.Clear()
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.At(i).Move
		if MakeLegal(pos, m) {
			out.Push(m)
		}
		pos.UndoMove()
	}
}
