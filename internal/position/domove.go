package position

import (
	"github.com/arbiterchess/arbiter/internal/assert"
	. "github.com/arbiterchess/arbiter/internal/types"
)

var castlingRightsLost = [SqLength]CastlingRights{}

func init() {
	castlingRightsLost[SqE1] = CastlingWhite
	castlingRightsLost[SqA1] = CastlingWhiteOOO
	castlingRightsLost[SqH1] = CastlingWhiteOO
	castlingRightsLost[SqE8] = CastlingBlack
	castlingRightsLost[SqA8] = CastlingBlackOOO
	castlingRightsLost[SqH8] = CastlingBlackOO
}

// DoMove plays a pseudo-legal move, updating every incremental field. The
// caller is responsible for having verified legality (or for calling
// UndoMove immediately if IsAttackedBy afterwards shows the own king left
// in check, the standard make-then-test-then-maybe-unmake pattern used by
// move generation's legality filter).
func (p *Position) DoMove(m Move) {
	us, them := p.sideToMove, p.sideToMove.Flip()
	from, to := m.From(), m.To()
	moving := MakePiece(us, m.MovingType())

	info := undoInfo{
		move:            m,
		captured:        m.CapturedType(),
		castling:        p.castling,
		epSquare:        p.epSquare,
		halfMoveClock:   p.halfMoveClock,
		zobrist:         p.zobrist,
		pawnZobrist:     p.pawnZobrist,
		materialZobrist: p.materialZobrist,
		checkers:        p.checkers,
	}

	p.zobrist ^= zobristEnPassant[epFile(p.epSquare)]

	if m.IsEnPassant() {
		capSq := m.EpTarget()
		capturedPawn := MakePiece(them, Pawn)
		p.removePiece(capturedPawn, capSq)
		p.zobrist ^= zobristPiece[capturedPawn][capSq]
		p.pawnZobrist ^= zobristPawnPiece[capturedPawn][capSq]
		p.materialZobrist ^= zobristMaterial[capturedPawn][p.pieceBb[capturedPawn].PopCount()+1]
		p.materialZobrist ^= zobristMaterial[capturedPawn][p.pieceBb[capturedPawn].PopCount()]
	} else if m.IsCapture() {
		captured := MakePiece(them, m.CapturedType())
		p.removePiece(captured, to)
		p.zobrist ^= zobristPiece[captured][to]
		if m.CapturedType() == Pawn {
			p.pawnZobrist ^= zobristPawnPiece[captured][to]
		}
		p.materialZobrist ^= zobristMaterial[captured][p.pieceBb[captured].PopCount()+1]
		p.materialZobrist ^= zobristMaterial[captured][p.pieceBb[captured].PopCount()]
	}

	p.movePiece(moving, from, to)
	p.zobrist ^= zobristPiece[moving][from] ^ zobristPiece[moving][to]
	if m.MovingType() == Pawn || m.MovingType() == King {
		p.pawnZobrist ^= zobristPawnPiece[moving][from] ^ zobristPawnPiece[moving][to]
	}

	if m.IsPromotion() {
		promoted := MakePiece(us, m.PromotionType())
		p.removePiece(moving, to)
		p.putPiece(promoted, to)
		p.zobrist ^= zobristPiece[moving][to] ^ zobristPiece[promoted][to]
		p.pawnZobrist ^= zobristPawnPiece[moving][to]
		p.materialZobrist ^= zobristMaterial[moving][p.pieceBb[moving].PopCount()+1]
		p.materialZobrist ^= zobristMaterial[moving][p.pieceBb[moving].PopCount()]
		p.materialZobrist ^= zobristMaterial[promoted][p.pieceBb[promoted].PopCount()-1]
		p.materialZobrist ^= zobristMaterial[promoted][p.pieceBb[promoted].PopCount()]
	}

	if m.MovingType() == King {
		p.kingSquare[us] = to
		if m.IsCastling() {
			p.doCastleRookMove(us, from, to)
		}
	}

	oldCastling := p.castling
	p.castling.Remove(castlingRightsLost[from] | castlingRightsLost[to])
	if oldCastling != p.castling {
		p.zobrist ^= zobristCastling[oldCastling] ^ zobristCastling[p.castling]
	}

	if m.MovingType() == Pawn && SquareDistance(from, to) == 2 {
		p.epSquare = Square((int(from) + int(to)) / 2)
	} else {
		p.epSquare = SqNone
	}
	p.zobrist ^= zobristEnPassant[epFile(p.epSquare)]

	if m.MovingType() == Pawn || m.IsCapture() {
		p.halfMoveClock = 0
	} else {
		p.halfMoveClock++
	}

	p.zobrist ^= zobristSideToMove
	if us == Black {
		p.fullMoveNumber++
	}
	p.sideToMove = them

	p.updateCheckersAndPins()

	if assert.DEBUG {
		assert.Assert(p.zobrist == p.computeZobrist(), "position: zobrist mismatch after %s", m.String())
		assert.Assert(p.pawnZobrist == p.computePawnZobrist(), "position: pawn zobrist mismatch after %s", m.String())
		assert.Assert(p.materialZobrist == p.computeMaterialZobrist(), "position: material zobrist mismatch after %s", m.String())
	}

	p.history = append(p.history, info)
	p.keyHistory = append(p.keyHistory, p.zobrist)
}

// doCastleRookMove relocates the rook side-effect of a king's two-file
// jump; which rook moves where is implied entirely by the king's own
// from/to squares, per the packed Move encoding carrying no separate tag.
func (p *Position) doCastleRookMove(c Color, kingFrom, kingTo Square) {
	rook := MakePiece(c, Rook)
	var rookFrom, rookTo Square
	if kingTo > kingFrom {
		rookFrom = SquareOf(FileH, kingFrom.RankOf())
		rookTo = SquareOf(FileF, kingFrom.RankOf())
	} else {
		rookFrom = SquareOf(FileA, kingFrom.RankOf())
		rookTo = SquareOf(FileD, kingFrom.RankOf())
	}
	p.movePiece(rook, rookFrom, rookTo)
	p.zobrist ^= zobristPiece[rook][rookFrom] ^ zobristPiece[rook][rookTo]
}

// UndoMove reverses the most recent DoMove.
func (p *Position) UndoMove() {
	n := len(p.history)
	info := p.history[n-1]
	p.history = p.history[:n-1]
	p.keyHistory = p.keyHistory[:n-1]

	m := info.move
	them := p.sideToMove
	us := them.Flip()
	from, to := m.From(), m.To()
	moving := MakePiece(us, m.MovingType())

	p.sideToMove = us
	if us == Black {
		p.fullMoveNumber--
	}

	if m.IsPromotion() {
		promoted := MakePiece(us, m.PromotionType())
		p.removePiece(promoted, to)
		p.putPiece(moving, to)
	}

	if m.MovingType() == King && m.IsCastling() {
		p.undoCastleRookMove(us, from, to)
	}

	p.movePiece(moving, to, from)
	if m.MovingType() == King {
		p.kingSquare[us] = from
	}

	if m.IsEnPassant() {
		capSq := m.EpTarget()
		p.putPiece(MakePiece(them, Pawn), capSq)
	} else if m.IsCapture() {
		p.putPiece(MakePiece(them, m.CapturedType()), to)
	}

	p.castling = info.castling
	p.epSquare = info.epSquare
	p.halfMoveClock = info.halfMoveClock
	p.zobrist = info.zobrist
	p.pawnZobrist = info.pawnZobrist
	p.materialZobrist = info.materialZobrist
	p.checkers = info.checkers
	p.updateCheckersAndPins()
}

func (p *Position) undoCastleRookMove(c Color, kingFrom, kingTo Square) {
	rook := MakePiece(c, Rook)
	var rookFrom, rookTo Square
	if kingTo > kingFrom {
		rookFrom = SquareOf(FileH, kingFrom.RankOf())
		rookTo = SquareOf(FileF, kingFrom.RankOf())
	} else {
		rookFrom = SquareOf(FileA, kingFrom.RankOf())
		rookTo = SquareOf(FileD, kingFrom.RankOf())
	}
	p.movePiece(rook, rookTo, rookFrom)
}

// DoNullMove passes the turn without moving a piece - used by null-move
// pruning. UndoNullMove must be called to restore state.
func (p *Position) DoNullMove() {
	info := undoInfo{
		epSquare:        p.epSquare,
		halfMoveClock:   p.halfMoveClock,
		zobrist:         p.zobrist,
		pawnZobrist:     p.pawnZobrist,
		materialZobrist: p.materialZobrist,
		checkers:        p.checkers,
		castling:        p.castling,
	}
	p.zobrist ^= zobristEnPassant[epFile(p.epSquare)]
	p.epSquare = SqNone
	p.zobrist ^= zobristEnPassant[epFile(p.epSquare)]
	p.zobrist ^= zobristSideToMove
	p.sideToMove = p.sideToMove.Flip()
	p.halfMoveClock++
	p.updateCheckersAndPins()
	p.history = append(p.history, info)
	p.keyHistory = append(p.keyHistory, p.zobrist)
}

// UndoNullMove reverses the most recent DoNullMove.
func (p *Position) UndoNullMove() {
	n := len(p.history)
	info := p.history[n-1]
	p.history = p.history[:n-1]
	p.keyHistory = p.keyHistory[:n-1]

	p.sideToMove = p.sideToMove.Flip()
	p.epSquare = info.epSquare
	p.halfMoveClock = info.halfMoveClock
	p.zobrist = info.zobrist
	p.pawnZobrist = info.pawnZobrist
	p.materialZobrist = info.materialZobrist
	p.checkers = info.checkers
	p.castling = info.castling
}
