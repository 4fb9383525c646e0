package evaluator

import (
	"github.com/arbiterchess/arbiter/internal/cache"
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// Pawn-structure term tables, tapered (mg, eg), indexed by the pawn's rank
// relative to its own side (0 = home rank, 7 = promotion rank).
var (
	isolatedPawnPenalty = MakeScore(-13, -12)
	doubledPawnPenalty  = MakeScore(-9, -21)
	backwardPawnPenalty = MakeScore(-11, -16)
)

var connectedBonus = [RankLength]Score{
	MakeScore(0, 0), MakeScore(0, 0), MakeScore(7, 7), MakeScore(9, 9),
	MakeScore(12, 14), MakeScore(22, 26), MakeScore(40, 50), MakeScore(0, 0),
}

var phalanxBonus = [RankLength]Score{
	MakeScore(0, 0), MakeScore(0, 0), MakeScore(5, 4), MakeScore(8, 6),
	MakeScore(11, 10), MakeScore(20, 18), MakeScore(35, 30), MakeScore(0, 0),
}

var attackingPawnBonus = [RankLength]Score{
	MakeScore(0, 0), MakeScore(-48, 12), MakeScore(-14, 4), MakeScore(-14, -6),
	MakeScore(-14, -6), MakeScore(-15, 1), MakeScore(0, 0), MakeScore(0, 0),
}

var passedPawnBonus = [RankLength]Score{
	MakeScore(0, 0), MakeScore(0, 3), MakeScore(2, 7), MakeScore(2, 24),
	MakeScore(13, 41), MakeScore(30, 68), MakeScore(57, 96), MakeScore(0, 0),
}

// relativeRank returns sq's rank as seen by c - 0 on c's home rank, 7 on
// c's promotion rank.
func relativeRank(c Color, sq Square) Rank {
	if c == White {
		return sq.RankOf()
	}
	return Rank(int(Rank8) - int(sq.RankOf()))
}

// ranksAtOrBehind returns every rank a pawn of color c on rank r would have
// already passed through, inclusive of r itself - used to test whether a
// neighbour-file pawn could ever have defended a given square.
func ranksAtOrBehind(c Color, r Rank) Bitboard {
	var m Bitboard
	for rr := Rank1; rr <= Rank8; rr++ {
		if (c == White && rr <= r) || (c == Black && rr >= r) {
			m |= rr.Bb()
		}
	}
	return m
}

// attackedByPawn reports whether a pawn of color c standing on sq would be
// attacked by an enemy pawn in enemyPawns - the usual trick of reusing the
// mover's own attack table in reverse, since pawn captures are symmetric.
func attackedByPawn(c Color, sq Square, enemyPawns Bitboard) bool {
	return PawnAttacksBb(c, sq)&enemyPawns != 0
}

// pawnAnalysis is everything pawnStructure computes for one color that is
// worth memoizing across nodes sharing a pawn skeleton.
type pawnAnalysis struct {
	score       Score
	passed      Bitboard
	isolated    Bitboard
	backward    Bitboard
	attackedBy  Bitboard
	attackedBy2 Bitboard
	semiOpen    Bitboard
}

// analyzePawns scores color c's pawn structure and derives the bitboards
// the pawn-hash entry caches: passed/isolated/backward pawns, squares
// attacked by one resp. two of c's pawns, and files c has no pawn on
// (semi-open from c's own side).
func analyzePawns(pos *position.Position, c Color) pawnAnalysis {
	them := c.Flip()
	pawns := pos.PieceBb(c, Pawn)
	enemyPawns := pos.PieceBb(them, Pawn)
	enemyNonPawns := pos.ColorBb(them) &^ enemyPawns

	var a pawnAnalysis
	for f := FileA; f <= FileH; f++ {
		if f.Bb()&pawns == 0 {
			a.semiOpen |= f.Bb()
		}
	}

	var seenOnce Bitboard
	for bb := pawns; bb != 0; {
		sq := bb.PopLsb()
		atk := PawnAttacksBb(c, sq)
		a.attackedBy2 |= seenOnce & atk
		seenOnce |= atk
	}
	a.attackedBy = seenOnce

	for bb := pawns; bb != 0; {
		sq := bb.PopLsb()
		f := sq.FileOf()
		r := sq.RankOf()
		relRank := relativeRank(c, sq)
		neighbours := NeighbourFilesMask(f) & pawns
		supported := attackedByPawn(them, sq, pawns)
		phalanx := (ShiftBitboard(sq.Bb(), East) | ShiftBitboard(sq.Bb(), West)) & pawns != 0

		if neighbours == 0 {
			a.isolated |= sq.Bb()
			a.score += isolatedPawnPenalty
		} else {
			if supported {
				a.score += connectedBonus[relRank]
			}
			if phalanx {
				a.score += phalanxBonus[relRank]
			}
			if !supported && !phalanx {
				behind := ranksAtOrBehind(c, r) & neighbours
				stop := sq.To(c.MoveDirection())
				if behind == 0 && stop.IsValid() && attackedByPawn(c, stop, enemyPawns) {
					a.backward |= sq.Bb()
					a.score += backwardPawnPenalty
				}
			}
		}

		if (f.Bb() & pawns &^ sq.Bb()) != 0 {
			a.score += doubledPawnPenalty
		}

		if PawnAttacksBb(c, sq)&enemyNonPawns != 0 {
			a.score += attackingPawnBonus[relRank]
		}

		if PassedPawnMask(c, sq)&enemyPawns == 0 {
			a.passed |= sq.Bb()
			a.score += passedPawnScore(pos, c, sq, relRank)
		}
	}
	return a
}

// passedPawnScore applies the rank-based passed-pawn bonus, modulated by
// how much closer each king stands to the pawn's promotion square - a king
// escorting its own passer matters more than one merely in the area, and an
// enemy king that is far away lets the passer run.
func passedPawnScore(pos *position.Position, c Color, sq Square, relRank Rank) Score {
	them := c.Flip()
	promoRank := Rank8
	if c == Black {
		promoRank = Rank1
	}
	promoSq := SquareOf(sq.FileOf(), promoRank)
	ownDist := SquareDistance(pos.KingSquare(c), promoSq)
	enemyDist := SquareDistance(pos.KingSquare(them), promoSq)
	proximity := int16((enemyDist-ownDist)*int(relRank)) * 3
	return passedPawnBonus[relRank] + MakeScore(0, proximity)
}

// bothFlanksPawns reports whether pawns (of either color) remain on both the
// queenside (files a-d) and kingside (files e-h) - used by the complexity
// term, which treats such positions as harder to convert.
func bothFlanksPawns(pos *position.Position) bool {
	pawns := pos.AllPieceTypeBb(Pawn)
	queenside := FileABb | FileABb<<1 | FileABb<<2 | FileABb<<3
	return pawns&queenside != 0 && pawns&^queenside != 0
}

// pawnEntry returns ctx's memoized pawn-structure analysis for both colors
// in pos, computing and caching it on a miss.
func (ctx *Context) pawnEntry(pos *position.Position) *cache.PawnEntry {
	key := pos.PawnKey()
	if e := ctx.pawns.Probe(key); e != nil {
		return e
	}
	w := analyzePawns(pos, White)
	b := analyzePawns(pos, Black)
	value := w.score - b.score
	return ctx.pawns.Store(key, value,
		[ColorLength]Bitboard{w.passed, b.passed},
		[ColorLength]Bitboard{w.isolated, b.isolated},
		[ColorLength]Bitboard{w.backward, b.backward},
		[ColorLength]Bitboard{w.attackedBy, b.attackedBy},
		[ColorLength]Bitboard{w.attackedBy2, b.attackedBy2},
		[ColorLength]Bitboard{w.semiOpen, b.semiOpen},
		bothFlanksPawns(pos),
	)
}
