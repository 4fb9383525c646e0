package evaluator

import (
	"github.com/arbiterchess/arbiter/internal/cache"
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// kingAttackWeight is the danger contributed by one enemy piece of this kind
// attacking a square in the king's ring, and safeCheckBonus the extra danger
// for a piece of this kind being able to deliver a check on a square our
// pawns don't cover. Indexed by PieceType; Pawn/King entries are unused.
var kingAttackWeight = [PtLength]int{0, 0, 0, 20, 20, 40, 80}
var safeCheckBonus = [PtLength]int{0, 0, 0, 35, 45, 65, 90}

const (
	ringAttackerPenalty = 8
	queenDangerNum       = 3
	queenDangerDen       = 2
	pinnedPenalty        = 6
)

// kingSafety scores the safety of color c's king: danger accumulated from
// enemy pieces bearing on the king's ring and on safe check squares,
// counter-weighted by the pawn shield in front of it and any advancing
// enemy pawn storm. Reads ctx's pawn-hash entry for the semi-open-file
// flags the storm term needs, rather than recomputing file occupancy.
func (ctx *Context) kingSafety(pos *position.Position, pe *cache.PawnEntry, c Color) Score {
	them := c.Flip()
	king := pos.KingSquare(c)
	occ := pos.Occupied()
	ring := GetAttacksBb(King, king, BbZero)

	danger := 0
	attackers := 0
	for _, pt := range [4]PieceType{Knight, Bishop, Rook, Queen} {
		bb := pos.PieceBb(them, pt)
		for b := bb; b != 0; {
			sq := b.PopLsb()
			hits := GetAttacksBb(pt, sq, occ) & ring
			if hits != 0 {
				attackers++
				danger += kingAttackWeight[pt] * hits.PopCount()
			}
		}
	}

	ourPawnCover := pe.AttackedBy(c)
	for _, pt := range [3]PieceType{Knight, Bishop, Rook} {
		checkSquares := GetAttacksBb(pt, king, occ) &^ occ &^ ourPawnCover
		bb := pos.PieceBb(them, pt)
		for b := bb; b != 0; {
			sq := b.PopLsb()
			if GetAttacksBb(pt, sq, occ)&checkSquares != 0 {
				danger += safeCheckBonus[pt]
				break
			}
		}
	}
	if queen := pos.PieceBb(them, Queen); queen != 0 {
		queenChecks := (GetAttacksBb(Rook, king, occ) | GetAttacksBb(Bishop, king, occ)) &^ occ &^ ourPawnCover
		for b := queen; b != 0; {
			sq := b.PopLsb()
			if GetAttacksBb(Queen, sq, occ)&queenChecks != 0 {
				danger += safeCheckBonus[Queen]
				break
			}
		}
		danger = danger * queenDangerNum / queenDangerDen
	}

	danger += attackers * ringAttackerPenalty
	danger += pos.Pinned(c).PopCount() * pinnedPenalty

	score := MakeScore(int16(-danger), int16(-danger/4))
	score += kingShield(pos, c, king)
	score += pawnStorm(pos, pe, c, king)
	return score
}

// kingFileMask returns king's own file and both neighbours.
func kingFileMask(king Square) Bitboard {
	f := king.FileOf()
	return f.Bb() | NeighbourFilesMask(f)
}

func rankBbOrZero(r int) Bitboard {
	if r < int(Rank1) || r > int(Rank8) {
		return BbZero
	}
	return Rank(r).Bb()
}

// kingShield rewards c's own pawns standing on the two ranks directly in
// front of the king, across the king's file and its neighbours.
func kingShield(pos *position.Position, c Color, king Square) Score {
	files := kingFileMask(king)
	step := 1
	if c == Black {
		step = -1
	}
	r := int(king.RankOf())
	shield := files & (rankBbOrZero(r+step) | rankBbOrZero(r+2*step))
	missing := 3 - (shield & pos.PieceBb(c, Pawn)).PopCount()
	if missing < 0 {
		missing = 0
	}
	return MakeScore(int16(-12*missing), int16(-4*missing))
}

// pawnStorm penalizes enemy pawns advancing on the king's file or its
// neighbours, more so the further advanced and less so when the stop
// square ahead of the storming pawn is already occupied by one of c's own
// pieces (making the advance less threatening).
func pawnStorm(pos *position.Position, pe *cache.PawnEntry, c Color, king Square) Score {
	them := c.Flip()
	files := kingFileMask(king)
	stormers := files & pos.PieceBb(them, Pawn)

	var score Score
	for bb := stormers; bb != 0; {
		sq := bb.PopLsb()
		advance := int(relativeRank(them, sq))
		stop := sq.To(them.MoveDirection())
		blocked := stop.IsValid() && pos.PieceOn(stop) != PieceNone && pos.PieceOn(stop).ColorOf() == c

		var penalty int
		if blocked {
			penalty = advance * advance / 2
		} else {
			penalty = advance * advance
		}
		score -= MakeScore(int16(penalty), int16(penalty/3))
	}
	// an already semi-open file in front of the king (no pawn of c's own to
	// block a later storm) slightly compounds the danger.
	if pe.SemiOpen(c)&king.FileOf().Bb() != 0 {
		score -= MakeScore(10, 4)
	}
	return score
}
