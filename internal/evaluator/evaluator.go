// Package evaluator scores a position from the side-to-move's perspective
// using a tapered combination of material, piece-square, mobility, king
// safety, pawn structure, threat, and complexity terms, interpolated
// between middlegame and endgame weights by the remaining non-pawn
// material.
package evaluator

import (
	"github.com/arbiterchess/arbiter/internal/cache"
	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// pawnTableBits sizes the per-thread pawn cache at 2^16 entries - ample for
// the handful of distinct pawn skeletons any single search thread visits,
// small enough to stay cheap to allocate per worker.
const pawnTableBits = 16
const materialTableBits = 13

// Context holds the per-search-thread memoization tables the evaluator
// consults before repeating pawn-structure or material-scale work. One
// Context belongs to exactly one search thread; it is never shared.
type Context struct {
	pawns    *cache.PawnTable
	material *cache.MaterialTable
}

// NewContext allocates a fresh pair of per-thread caches.
func NewContext() *Context {
	return &Context{
		pawns:    cache.NewPawnTable(pawnTableBits),
		material: cache.NewMaterialTable(materialTableBits),
	}
}

// Evaluate returns a centipawn score from the perspective of the side to
// move in pos, using ctx's caches to memoize pawn-structure and
// material-scale computation across nodes that share a pawn or material
// signature.
func (ctx *Context) Evaluate(pos *position.Position) Value {
	score := materialAndPsqt(pos)
	phase := gamePhase(pos)

	var pe *cache.PawnEntry
	if config.Settings.Eval.UsePawnStructure || config.Settings.Eval.UseKingSafety || config.Settings.Eval.UseThreats {
		pe = ctx.pawnEntry(pos)
	}

	if config.Settings.Eval.UseMobility {
		score += mobility(pos, pe, White) - mobility(pos, pe, Black)
	}
	if config.Settings.Eval.UseKingSafety {
		score += ctx.kingSafety(pos, pe, White) - ctx.kingSafety(pos, pe, Black)
	}
	if config.Settings.Eval.UseBishopPair {
		score += bishopTerms(pos, White) - bishopTerms(pos, Black)
	}
	if config.Settings.Eval.UsePawnStructure {
		score += pe.Value()
	}
	if config.Settings.Eval.UseThreats {
		score += threats(pos, pe, White) - threats(pos, pe, Black)
	}

	value := score.Interpolate(phase)

	me := ctx.materialEntry(pos)
	if config.Settings.Eval.UseComplexity {
		bothFlanks := pe != nil && pe.BothFlanks()
		value += complexityAdjustment(pos, bothFlanks, me.PawnsOnly(), value)
	}

	if config.Settings.Eval.UseScaleFactor {
		sc := me.Scale(int(White))
		if value < 0 {
			sc = me.Scale(int(Black))
		}
		value = Value(int(value) * sc / cache.ScaleNormal)
	}

	// every term above is accumulated from White's perspective; flip for
	// Black so the return value is always relative to the side to move,
	// then add the tempo bonus for the side to move.
	if pos.SideToMove() == Black {
		value = -value
	}
	return value + Value(config.Settings.Eval.Tempo)
}

// Evaluate scores pos without thread-local memoization - used by callers
// outside the search tree (the "eval" debug command, tests) where
// allocating a whole Context per call isn't worth it.
func Evaluate(pos *position.Position) Value {
	return NewContext().Evaluate(pos)
}

// materialEntry returns ctx's memoized material-signature evaluation for
// pos, computing and caching it on a miss. The scale factor is the same for
// both sides (it depends only on which drawish pattern the material
// signature matches, not on who is better), but is stored per-color to
// match cache.MaterialEntry's shape, which a future asymmetric scale term
// could specialize.
func (ctx *Context) materialEntry(pos *position.Position) *cache.MaterialEntry {
	key := pos.MaterialKey()
	if e := ctx.material.Probe(key); e != nil {
		return e
	}
	sf := scaleFactor(pos)
	pawns := pos.AllPieceTypeBb(Pawn).PopCount()
	pawnsOnly := pawns == pos.Occupied().PopCount()-2
	return ctx.material.Store(key, sf, sf, pawnsOnly, pawns)
}

func gamePhase(pos *position.Position) int {
	phase := 0
	for _, pt := range [4]PieceType{Knight, Bishop, Rook, Queen} {
		count := pos.AllPieceTypeBb(pt).PopCount()
		phase += count * pt.GamePhaseValue()
	}
	if phase > GamePhaseMax {
		phase = GamePhaseMax
	}
	return phase
}

func materialAndPsqt(pos *position.Position) Score {
	usePsqt := config.Settings.Eval.UsePsqt
	var score Score
	for _, c := range [2]Color{White, Black} {
		for pt := King; pt <= Queen; pt++ {
			bb := pos.PieceBb(c, pt)
			for bb != 0 {
				sq := bb.PopLsb()
				var term Score
				if usePsqt {
					term = PsqtScore(pt, c, sq)
				} else {
					v := int16(pt.ValueOf())
					term = MakeScore(v, v)
				}
				if c == White {
					score += term
				} else {
					score -= term
				}
			}
		}
	}
	return score
}

// mobilityBonus scores a piece by how many destination squares it reaches
// that aren't held by a friendly piece or covered by an enemy pawn. The
// tables are per piece type and per reachable-square count; a boxed-in
// piece is an outright liability, not merely a zero.
var mobilityBonus = [PtLength][]Score{
	Knight: {
		MakeScore(-31, -40), MakeScore(-26, -28), MakeScore(-6, -15), MakeScore(-2, -8),
		MakeScore(1, 2), MakeScore(6, 5), MakeScore(11, 8), MakeScore(14, 10),
		MakeScore(16, 12),
	},
	Bishop: {
		MakeScore(-24, -29), MakeScore(-10, -11), MakeScore(8, -1), MakeScore(13, 6),
		MakeScore(19, 12), MakeScore(25, 21), MakeScore(27, 27), MakeScore(31, 28),
		MakeScore(31, 32), MakeScore(34, 36), MakeScore(40, 39), MakeScore(40, 43),
		MakeScore(45, 44), MakeScore(49, 48),
	},
	Rook: {
		MakeScore(-29, -38), MakeScore(-13, -9), MakeScore(-7, 14), MakeScore(-5, 27),
		MakeScore(-2, 34), MakeScore(-1, 41), MakeScore(4, 56), MakeScore(8, 59),
		MakeScore(15, 66), MakeScore(14, 71), MakeScore(16, 77), MakeScore(19, 82),
		MakeScore(23, 83), MakeScore(24, 84), MakeScore(29, 85),
	},
	Queen: {
		MakeScore(-19, -18), MakeScore(-10, -7), MakeScore(1, 4), MakeScore(1, 9),
		MakeScore(7, 17), MakeScore(11, 27), MakeScore(14, 30), MakeScore(20, 36),
		MakeScore(21, 39), MakeScore(24, 46), MakeScore(28, 47), MakeScore(30, 52),
		MakeScore(30, 56), MakeScore(33, 60), MakeScore(33, 61), MakeScore(35, 63),
		MakeScore(35, 66), MakeScore(36, 68), MakeScore(39, 70), MakeScore(44, 71),
		MakeScore(44, 74), MakeScore(49, 83), MakeScore(51, 85), MakeScore(51, 87),
		MakeScore(53, 92), MakeScore(54, 95), MakeScore(56, 103), MakeScore(58, 106),
	},
}

func mobility(pos *position.Position, pe *cache.PawnEntry, c Color) Score {
	them := c.Flip()
	occ := pos.Occupied()
	own := pos.ColorBb(c)
	var enemyPawnCover Bitboard
	if pe != nil {
		enemyPawnCover = pe.AttackedBy(them)
	} else {
		enemyPawnCover = pawnCover(pos, them)
	}

	var score Score
	for _, pt := range [4]PieceType{Knight, Bishop, Rook, Queen} {
		table := mobilityBonus[pt]
		bb := pos.PieceBb(c, pt)
		for bb != 0 {
			sq := bb.PopLsb()
			n := (GetAttacksBb(pt, sq, occ) &^ own &^ enemyPawnCover).PopCount()
			if n >= len(table) {
				n = len(table) - 1
			}
			score += table[n]
		}
	}
	return score
}

// pawnCover computes the squares c's pawns attack, for callers evaluating
// without a pawn-hash entry in hand.
func pawnCover(pos *position.Position, c Color) Bitboard {
	pawns := pos.PieceBb(c, Pawn)
	if c == White {
		return ShiftBitboard(pawns, Northeast) | ShiftBitboard(pawns, Northwest)
	}
	return ShiftBitboard(pawns, Southeast) | ShiftBitboard(pawns, Southwest)
}

// bishopPairBonus rewards holding both bishops, which together cover every
// square color a single bishop never can.
var bishopPairBonus = MakeScore(30, 40)

// bishopBlockedPenalty is charged per own pawn sitting on a square the same
// color as c's bishop - each such pawn is a square the bishop can never
// influence. bishopCenterBonus rewards a bishop whose empty-board diagonal
// reach already covers a center square, and homeBishopStuckPenalty punishes a
// bishop still on its home square with every one of its first diagonal
// steps blocked.
var (
	bishopBlockedPenalty = MakeScore(-3, -5)
	bishopCenterBonus    = MakeScore(5, 2)
	homeBishopStuckPenalty = MakeScore(-30, -20)
)

var centerSquares = SqD4.Bb() | SqD5.Bb() | SqE4.Bb() | SqE5.Bb()

// bishopTerms scores c's bishops: the bishop-pair bonus, a penalty for own
// pawns fixed on the bishop's square color, a bonus for aiming at the
// center, and a penalty for a fianchetto-less bishop still boxed in on its
// starting square.
func bishopTerms(pos *position.Position, c Color) Score {
	var score Score
	bishops := pos.PieceBb(c, Bishop)
	if bishops.PopCount() >= 2 {
		score += bishopPairBonus
	}

	ownPawns := pos.PieceBb(c, Pawn)
	occ := pos.Occupied()
	homeRank := Rank1
	if c == Black {
		homeRank = Rank8
	}
	for bb := bishops; bb != 0; {
		sq := bb.PopLsb()
		sameColor := SquaresBb(White)
		if !sameColor.Has(sq) {
			sameColor = ^sameColor
		}
		blockers := (sameColor & ownPawns).PopCount()
		score += MakeScore(bishopBlockedPenalty.Mg()*int16(blockers), bishopBlockedPenalty.Eg()*int16(blockers))
		if GetAttacksBb(Bishop, sq, BbZero)&centerSquares != 0 {
			score += bishopCenterBonus
		}
		if sq.RankOf() == homeRank && GetAttacksBb(Bishop, sq, occ)&^occ == 0 {
			score += homeBishopStuckPenalty
		}
	}
	return score
}
