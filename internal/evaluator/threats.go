package evaluator

import (
	"github.com/arbiterchess/arbiter/internal/cache"
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// Threat-term tapered bonuses.
var (
	pawnPushThreatBonus = MakeScore(17, 24)
	safePawnAttackBonus = MakeScore(73, 30)
	hangingPiecePenalty = MakeScore(23, 36)
	minorBehindPawnBonus = MakeScore(15, 11)
	rookOnSeventhBonus   = MakeScore(18, 32)
)

// sliderOnFileBonus[0] rewards a rook/queen on a semi-open file (no pawn of
// its own color), [1] a fully open one (no pawns of either color).
var sliderOnFileBonus = [2]Score{MakeScore(21, 7), MakeScore(43, 1)}

// threats scores attacking relationships for color c's pieces against the
// opponent: direct attacks on higher-value pieces, hanging pieces, pawn
// threats (both current and one push away), rooks/queens on open files,
// rooks on the seventh rank, and minor pieces sitting behind a friendly
// pawn.
func threats(pos *position.Position, pe *cache.PawnEntry, c Color) Score {
	them := c.Flip()
	occ := pos.Occupied()
	enemy := pos.ColorBb(them)
	var score Score

	for _, pt := range [4]PieceType{Knight, Bishop, Rook, Queen} {
		bb := pos.PieceBb(c, pt)
		for b := bb; b != 0; {
			sq := b.PopLsb()
			attacked := GetAttacksBb(pt, sq, occ) & enemy
			for a := attacked; a != 0; {
				target := a.PopLsb()
				targetPiece := pos.PieceOn(target)
				targetPt := targetPiece.TypeOf()
				if targetPt.ValueOf() > pt.ValueOf() {
					score += MakeScore(12, 18)
				}
				if !pos.IsAttackedBy(target, them) {
					score += hangingPiecePenalty
				}
			}

			if pt == Rook {
				if idx, open := sliderOnOpenFile(pe, c, sq); open {
					score += sliderOnFileBonus[idx]
				}
				seventh := Rank7
				if c == Black {
					seventh = Rank2
				}
				if sq.RankOf() == seventh {
					score += rookOnSeventhBonus
				}
			}
			if pt == Queen {
				if idx, open := sliderOnOpenFile(pe, c, sq); open {
					score += sliderOnFileBonus[idx] / 2
				}
			}
			if pt == Knight || pt == Bishop {
				down := them.MoveDirection()
				if ShiftBitboard(pos.PieceBb(c, Pawn), down)&sq.Bb() != 0 {
					score += minorBehindPawnBonus
				}
			}
		}
	}

	score += pawnThreats(pos, c, them)
	return score
}

// sliderOnOpenFile reports whether sq's file carries none of c's own pawns
// (semi-open, index 0) or none of either color's (open, index 1), reading
// the file occupancy straight out of the cached pawn-hash entry rather than
// rescanning the board.
func sliderOnOpenFile(pe *cache.PawnEntry, c Color, sq Square) (int, bool) {
	f := sq.FileOf().Bb()
	if pe.SemiOpen(c)&f == 0 {
		return 0, false
	}
	if pe.SemiOpen(c.Flip())&f != 0 {
		return 1, true
	}
	return 0, true
}

// pawnThreats scores c's pawns' threats against them's non-pawn pieces:
// direct safe attacks, and attacks one push away from landing.
func pawnThreats(pos *position.Position, c, them Color) Score {
	pawns := pos.PieceBb(c, Pawn)
	targets := pos.ColorBb(them) &^ pos.PieceBb(them, Pawn)
	enemyPawns := pos.PieceBb(them, Pawn)
	var score Score

	for bb := pawns; bb != 0; {
		sq := bb.PopLsb()
		attacks := PawnAttacksBb(c, sq) & targets
		for a := attacks; a != 0; {
			target := a.PopLsb()
			if !attackedByPawn(c, target, enemyPawns) {
				score += safePawnAttackBonus
			}
		}
	}

	occ := pos.Occupied()
	pushed := ShiftBitboard(pawns, c.MoveDirection()) &^ occ
	for bb := pushed; bb != 0; {
		sq := bb.PopLsb()
		if PawnAttacksBb(c, sq)&targets != 0 {
			score += pawnPushThreatBonus
		}
	}
	return score
}
