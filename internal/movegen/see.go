package movegen

import (
	"github.com/arbiterchess/arbiter/internal/position"
	. "github.com/arbiterchess/arbiter/internal/types"
)

// seeValue is separate from PieceType.ValueOf so SEE can use simple integer
// arithmetic independent of any future evaluation rescaling.
var seeValue = [PtLength]int{0, 20000, 100, 320, 330, 500, 900}

// seeOrder lists the piece kinds cheapest-first; the King's numeric code
// sorts before Pawn's, so a plain PieceType loop would get this wrong.
var seeOrder = [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

// leastValuableAttacker returns the least valuable piece of color c among
// attackers, and its square, or SqNone if c has no attacker in the set.
func leastValuableAttacker(pos *position.Position, attackers Bitboard, c Color) (Square, PieceType) {
	for _, pt := range seeOrder {
		bb := attackers & pos.PieceBb(c, pt)
		if bb != 0 {
			return bb.Lsb(), pt
		}
	}
	return SqNone, PtNone
}

// SEE returns the static exchange evaluation of the capture sequence that
// would follow move m: positive means the side to move wins material on
// the destination square even after all recaptures.
func SEE(pos *position.Position, m Move) int {
	to := m.To()
	from := m.From()
	us := pos.SideToMove()

	var gain [32]int
	depth := 0

	occupied := pos.Occupied()
	attackers := attackersToStatic(pos, to, occupied)

	movingType := m.MovingType()
	capturedValue := 0
	if m.IsEnPassant() {
		capturedValue = seeValue[Pawn]
	} else {
		capturedValue = seeValue[m.CapturedType()]
	}
	gain[0] = capturedValue

	occupied.PopSquare(from)
	if m.IsEnPassant() {
		occupied.PopSquare(m.EpTarget())
	}
	attackers = attackersToStatic(pos, to, occupied) & occupied

	side := us.Flip()
	lastValue := seeValue[movingType]

	for {
		sqAttacker, pt := leastValuableAttacker(pos, attackers&pos.ColorBb(side), side)
		if sqAttacker == SqNone {
			break
		}
		depth++
		gain[depth] = lastValue - gain[depth-1]
		if maxInt(-gain[depth-1], gain[depth]) < 0 {
			break
		}
		occupied.PopSquare(sqAttacker)
		attackers = attackersToStatic(pos, to, occupied) & occupied
		lastValue = seeValue[pt]
		side = side.Flip()
		if depth >= 31 {
			break
		}
	}

	for depth > 0 {
		depth--
		if -gain[depth+1] < gain[depth] {
			gain[depth] = -gain[depth+1]
		}
	}
	return gain[0]
}

// SEEGe reports whether the capture sequence following m nets at least
// threshold centipawn-like units for the side to move - the predicate form
// used by search and quiescence to prune captures and check extensions
// without needing the exact swap-list value.
func SEEGe(pos *position.Position, m Move, threshold int) bool {
	return SEE(pos, m) >= threshold
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// attackersToStatic mirrors Position's internal attackersTo for a caller
// outside the package, needed because SEE must recompute attacks against a
// shrinking occupancy as pieces are removed from the exchange.
func attackersToStatic(pos *position.Position, sq Square, occ Bitboard) Bitboard {
	attackers := BbZero
	attackers |= GetAttacksBb(Knight, sq, occ) & pos.AllPieceTypeBb(Knight)
	attackers |= GetAttacksBb(Bishop, sq, occ) & (pos.AllPieceTypeBb(Bishop) | pos.AllPieceTypeBb(Queen))
	attackers |= GetAttacksBb(Rook, sq, occ) & (pos.AllPieceTypeBb(Rook) | pos.AllPieceTypeBb(Queen))
	attackers |= GetAttacksBb(King, sq, occ) & pos.AllPieceTypeBb(King)
	attackers |= PawnAttacksBb(White, sq) & pos.PieceBb(Black, Pawn)
	attackers |= PawnAttacksBb(Black, sq) & pos.PieceBb(White, Pawn)
	return attackers & occ
}
