// Package position implements the board representation: piece bitboards
// plus a mailbox for O(1) piece-on-square lookups, incremental Zobrist
// hashing (full/pawn/material), move make/unmake, FEN parsing, and
// repetition detection over the game's move history.
package position

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/arbiterchess/arbiter/internal/types"
)

// StartFen is the standard chess starting position.
const StartFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// undoInfo captures everything DoMove mutates that UndoMove cannot recover
// from the move alone: captured piece, prior castling rights, prior en
// passant square, prior half-move clock, and the three hash values.
type undoInfo struct {
	move           Move
	captured       PieceType
	castling       CastlingRights
	epSquare       Square
	halfMoveClock  int
	zobrist        uint64
	pawnZobrist    uint64
	materialZobrist uint64
	checkers       Bitboard
}

// Position is the full mutable game state.
type Position struct {
	pieceBb  [PieceLength]Bitboard
	colorBb  [ColorLength]Bitboard
	occupied Bitboard
	board    [SqLength]Piece

	sideToMove Color
	castling   CastlingRights
	epSquare   Square

	halfMoveClock int
	fullMoveNumber int

	kingSquare [ColorLength]Square

	checkers    Bitboard
	pinned      [ColorLength]Bitboard

	zobrist         uint64
	pawnZobrist     uint64
	materialZobrist uint64

	history    []undoInfo
	keyHistory []uint64
}

// NewPosition returns the position after parsing fen, or an error if fen
// is malformed. Malformed external input is a protocol boundary: it is
// reported, never panicked on.
func NewPosition(fen string) (*Position, error) {
	p := &Position{}
	if err := p.setFen(fen); err != nil {
		return nil, err
	}
	return p, nil
}

// NewStartPosition returns the standard starting position.
func NewStartPosition() *Position {
	p, err := NewPosition(StartFen)
	if err != nil {
		panic("position: start fen is malformed: " + err.Error())
	}
	return p
}

func (p *Position) setFen(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return fmt.Errorf("position: fen needs at least 4 fields, got %d", len(fields))
	}

	for i := range p.pieceBb {
		p.pieceBb[i] = BbZero
	}
	p.colorBb[White], p.colorBb[Black] = BbZero, BbZero
	p.occupied = BbZero
	for i := range p.board {
		p.board[i] = PieceNone
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("position: fen board needs 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		r := Rank8 - Rank(i)
		f := FileA
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				f += File(ch - '0')
				continue
			}
			piece := PieceFromChar(string(ch))
			if piece == PieceNone || !f.IsValid() {
				return fmt.Errorf("position: invalid fen board character %q", ch)
			}
			sq := SquareOf(f, r)
			p.putPiece(piece, sq)
			f++
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return fmt.Errorf("position: invalid side to move %q", fields[1])
	}

	p.castling = CastlingNone
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.castling.Add(CastlingWhiteOO)
			case 'Q':
				p.castling.Add(CastlingWhiteOOO)
			case 'k':
				p.castling.Add(CastlingBlackOO)
			case 'q':
				p.castling.Add(CastlingBlackOOO)
			default:
				return fmt.Errorf("position: invalid castling character %q", ch)
			}
		}
	}

	if fields[3] == "-" {
		p.epSquare = SqNone
	} else {
		p.epSquare = MakeSquare(fields[3])
		if p.epSquare == SqNone {
			return fmt.Errorf("position: invalid en passant square %q", fields[3])
		}
	}

	p.halfMoveClock = 0
	if len(fields) > 4 {
		if v, err := strconv.Atoi(fields[4]); err == nil {
			p.halfMoveClock = v
		}
	}
	p.fullMoveNumber = 1
	if len(fields) > 5 {
		if v, err := strconv.Atoi(fields[5]); err == nil {
			p.fullMoveNumber = v
		}
	}

	p.kingSquare[White] = p.pieceBb[MakePiece(White, King)].Lsb()
	p.kingSquare[Black] = p.pieceBb[MakePiece(Black, King)].Lsb()

	p.zobrist = p.computeZobrist()
	p.pawnZobrist = p.computePawnZobrist()
	p.materialZobrist = p.computeMaterialZobrist()
	p.updateCheckersAndPins()

	p.history = p.history[:0]
	// the starting position's own key seeds the repetition chain, so a
	// line that shuffles back to it is detected like any other repeat.
	p.keyHistory = append(p.keyHistory[:0], p.zobrist)
	return nil
}

func (p *Position) putPiece(piece Piece, sq Square) {
	p.pieceBb[piece].PushSquare(sq)
	p.colorBb[piece.ColorOf()].PushSquare(sq)
	p.occupied.PushSquare(sq)
	p.board[sq] = piece
}

func (p *Position) removePiece(piece Piece, sq Square) {
	p.pieceBb[piece].PopSquare(sq)
	p.colorBb[piece.ColorOf()].PopSquare(sq)
	p.occupied.PopSquare(sq)
	p.board[sq] = PieceNone
}

func (p *Position) movePiece(piece Piece, from, to Square) {
	mask := from.Bb() | to.Bb()
	p.pieceBb[piece] ^= mask
	p.colorBb[piece.ColorOf()] ^= mask
	p.occupied ^= mask
	p.board[from] = PieceNone
	p.board[to] = piece
}

// PieceOn returns the piece occupying sq, or PieceNone if it's empty.
func (p *Position) PieceOn(sq Square) Piece { return p.board[sq] }

// SideToMove returns whose turn it is.
func (p *Position) SideToMove() Color { return p.sideToMove }

// Occupied returns the full occupancy bitboard.
func (p *Position) Occupied() Bitboard { return p.occupied }

// ColorBb returns the occupancy bitboard for c.
func (p *Position) ColorBb(c Color) Bitboard { return p.colorBb[c] }

// PieceBb returns the bitboard of pieces of color c and type pt.
func (p *Position) PieceBb(c Color, pt PieceType) Bitboard {
	return p.pieceBb[MakePiece(c, pt)]
}

// AllPieceTypeBb returns the bitboard of every piece of type pt, any color.
func (p *Position) AllPieceTypeBb(pt PieceType) Bitboard {
	return p.pieceBb[MakePiece(White, pt)] | p.pieceBb[MakePiece(Black, pt)]
}

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square { return p.kingSquare[c] }

// Castling returns the current castling rights.
func (p *Position) Castling() CastlingRights { return p.castling }

// EpSquare returns the current en passant target square, or SqNone.
func (p *Position) EpSquare() Square { return p.epSquare }

// Checkers returns the bitboard of enemy pieces currently giving check.
func (p *Position) Checkers() Bitboard { return p.checkers }

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.checkers != BbZero }

// Pinned returns the bitboard of c's pieces pinned to c's own king.
func (p *Position) Pinned(c Color) Bitboard { return p.pinned[c] }

// ZobristKey returns the full incremental hash of the position.
func (p *Position) ZobristKey() uint64 { return p.zobrist }

// PawnKey returns the pawn-only incremental hash, used for a dedicated
// pawn-structure evaluation cache.
func (p *Position) PawnKey() uint64 { return p.pawnZobrist }

// MaterialKey returns the material-only incremental hash, used for a
// dedicated endgame/material-table cache.
func (p *Position) MaterialKey() uint64 { return p.materialZobrist }

// HalfMoveClock returns the fifty-move-rule ply counter.
func (p *Position) HalfMoveClock() int { return p.halfMoveClock }

// FullMoveNumber returns the one-based full-move counter.
func (p *Position) FullMoveNumber() int { return p.fullMoveNumber }

// Fen renders the position as a six-field FEN string; parsing it back
// yields an equal position.
func (p *Position) Fen() string {
	var b strings.Builder
	for r := Rank8; ; r-- {
		empty := 0
		for f := FileA; f <= FileH; f++ {
			piece := p.board[SquareOf(f, r)]
			if piece == PieceNone {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteString(piece.String())
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if r == Rank1 {
			break
		}
		b.WriteByte('/')
	}
	b.WriteByte(' ')
	b.WriteString(p.sideToMove.String())
	b.WriteByte(' ')
	b.WriteString(p.castling.String())
	b.WriteByte(' ')
	b.WriteString(p.epSquare.String())
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(p.halfMoveClock))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(p.fullMoveNumber))
	return b.String()
}

func (p *Position) String() string { return p.Fen() }

// Ply returns the number of half-moves played so far this game.
func (p *Position) Ply() int { return len(p.history) }

func (p *Position) computeZobrist() uint64 {
	var h uint64
	for piece := WhiteKing; piece < PieceLength; piece++ {
		bb := p.pieceBb[piece]
		for bb != 0 {
			sq := bb.PopLsb()
			h ^= zobristPiece[piece][sq]
		}
	}
	h ^= zobristCastling[p.castling]
	h ^= zobristEnPassant[epFile(p.epSquare)]
	if p.sideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}

// computePawnZobrist covers pawns and both kings: the passed-pawn terms
// memoized under this key depend on king proximity, so king placement must
// be part of the key.
func (p *Position) computePawnZobrist() uint64 {
	var h uint64
	for _, c := range [2]Color{White, Black} {
		piece := MakePiece(c, Pawn)
		bb := p.pieceBb[piece]
		for bb != 0 {
			sq := bb.PopLsb()
			h ^= zobristPawnPiece[piece][sq]
		}
		king := MakePiece(c, King)
		h ^= zobristPawnPiece[king][p.kingSquare[c]]
	}
	return h
}

func (p *Position) computeMaterialZobrist() uint64 {
	var h uint64
	for piece := WhiteKing; piece < PieceLength; piece++ {
		count := p.pieceBb[piece].PopCount()
		h ^= zobristMaterial[piece][count]
	}
	return h
}

// attackersTo returns every piece (of either color) that attacks sq given
// the supplied occupancy, which callers may modify to "see through" a
// piece being captured or moved.
func (p *Position) attackersTo(sq Square, occ Bitboard) Bitboard {
	attackers := BbZero
	attackers |= GetAttacksBb(Knight, sq, occ) & p.AllPieceTypeBb(Knight)
	attackers |= GetAttacksBb(Bishop, sq, occ) & (p.AllPieceTypeBb(Bishop) | p.AllPieceTypeBb(Queen))
	attackers |= GetAttacksBb(Rook, sq, occ) & (p.AllPieceTypeBb(Rook) | p.AllPieceTypeBb(Queen))
	attackers |= GetAttacksBb(King, sq, occ) & p.AllPieceTypeBb(King)
	attackers |= PawnAttacksBb(White, sq) & p.PieceBb(Black, Pawn)
	attackers |= PawnAttacksBb(Black, sq) & p.PieceBb(White, Pawn)
	return attackers
}

// IsAttackedBy reports whether any piece of color c attacks sq.
func (p *Position) IsAttackedBy(sq Square, c Color) bool {
	return p.attackersTo(sq, p.occupied)&p.colorBb[c] != BbZero
}

func (p *Position) updateCheckersAndPins() {
	us, them := p.sideToMove, p.sideToMove.Flip()
	ksq := p.kingSquare[us]
	p.checkers = p.attackersTo(ksq, p.occupied) & p.colorBb[them]

	p.pinned[White] = BbZero
	p.pinned[Black] = BbZero
	for _, c := range [2]Color{White, Black} {
		them := c.Flip()
		king := p.kingSquare[c]
		sliders := (p.AllPieceTypeBb(Bishop) | p.AllPieceTypeBb(Queen)) & p.colorBb[them] & GetAttacksBb(Bishop, king, BbZero)
		sliders |= (p.AllPieceTypeBb(Rook) | p.AllPieceTypeBb(Queen)) & p.colorBb[them] & GetAttacksBb(Rook, king, BbZero)
		for sliders != 0 {
			s := sliders.PopLsb()
			between := Intermediate(king, s) & p.occupied
			if between.PopCount() == 1 && between&p.colorBb[c] != 0 {
				p.pinned[c] |= between
			}
		}
	}
}

// GivesCheck reports whether making m (pseudo-legal, not yet played) would
// give check to the opponent. Used by move generation's QUIETS_WITH_CHECK
// phase and by search's check-extension logic.
func (p *Position) GivesCheck(m Move) bool {
	us := p.sideToMove
	them := us.Flip()
	to := m.To()
	occAfter := (p.occupied &^ m.From().Bb()) | to.Bb()
	if m.MovingType() == Pawn {
		if PawnAttacksBb(us, to)&p.kingSquare[them].Bb() != 0 {
			return true
		}
	} else if GetAttacksBb(m.MovingType(), to, occAfter)&p.kingSquare[them].Bb() != 0 {
		return true
	}
	// discovered check: the moving piece was the sole blocker on a slider's
	// line to the king, and stepping off that line leaves it clear.
	discoverers := (p.AllPieceTypeBb(Bishop) | p.AllPieceTypeBb(Queen)) & p.colorBb[us] & GetAttacksBb(Bishop, p.kingSquare[them], BbZero)
	discoverers |= (p.AllPieceTypeBb(Rook) | p.AllPieceTypeBb(Queen)) & p.colorBb[us] & GetAttacksBb(Rook, p.kingSquare[them], BbZero)
	for discoverers != 0 {
		s := discoverers.PopLsb()
		line := Intermediate(p.kingSquare[them], s)
		if line.Has(m.From()) && line&occAfter == BbZero {
			return true
		}
	}
	return false
}

// IsRepetition reports whether the current position has occurred at least
// once before since the last irreversible move (capture, pawn move, or
// loss of castling rights), walking backwards through halfMoveClock plies.
func (p *Position) IsRepetition() bool {
	n := len(p.keyHistory)
	// keyHistory[n-1] is the current position; a repeat can only sit an
	// even number of plies back, and no further back than the last
	// irreversible move.
	for i := 2; i <= p.halfMoveClock && i < n; i += 2 {
		if p.keyHistory[n-1-i] == p.zobrist {
			return true
		}
	}
	return false
}

// IsFiftyMoveDraw reports whether the fifty-move rule has been reached.
func (p *Position) IsFiftyMoveDraw() bool {
	return p.halfMoveClock >= 100
}

// Clone returns an independent deep copy of p, for Lazy-SMP workers that
// each need their own position to make/unmake moves into without
// disturbing the position any other thread is searching.
func (p *Position) Clone() *Position {
	c := *p
	c.history = append([]undoInfo(nil), p.history...)
	c.keyHistory = append([]uint64(nil), p.keyHistory...)
	return &c
}
