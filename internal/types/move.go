package types

import "strings"

// Move is a 32-bit packed move word. Unlike a naive encoding, every field
// needed to unmake the move without consulting the board again is packed
// in directly; the move-ordering score is tracked alongside a Move, never
// inside it, so that two moves compare equal regardless of how they were
// last scored.
//
//	bit range  field
//	 0.. 5     to square
//	 6..11     from square
//	12..15     promotion piece type (0 = none)
//	16..19     captured piece type (0 = none)
//	20..25     en passant capture-target square
//	   26      en passant flag
//	   27      gives-check hint
//	28..31     moving piece type
type Move uint32

const (
	MoveNone Move = 0

	toShift       = 0
	fromShift     = 6
	promShift     = 12
	capturedShift = 16
	epSqShift     = 20
	epFlagShift   = 26
	checkShift    = 27
	pieceShift    = 28

	sixBitMask  Move = 0x3F
	fourBitMask Move = 0xF
)

// NewMove builds a quiet, non-check, non-ep, non-promotion move.
func NewMove(from, to Square, moving PieceType) Move {
	return Move(to)<<toShift | Move(from)<<fromShift | Move(moving)<<pieceShift
}

// NewCapture builds a capturing move.
func NewCapture(from, to Square, moving, captured PieceType) Move {
	return NewMove(from, to, moving) | Move(captured)<<capturedShift
}

// NewPromotion builds a (possibly capturing) promotion move.
func NewPromotion(from, to Square, moving, captured, promoted PieceType) Move {
	return NewMove(from, to, moving) | Move(captured)<<capturedShift | Move(promoted)<<promShift
}

// NewEnPassant builds an en passant capture; capTarget is the square of the
// captured pawn (one rank behind the destination).
func NewEnPassant(from, to Square, moving PieceType, capTarget Square) Move {
	return NewMove(from, to, moving) |
		Move(Pawn)<<capturedShift |
		Move(capTarget)<<epSqShift |
		1<<epFlagShift
}

// WithCheckHint returns m with the gives-check hint bit set to the given value.
func (m Move) WithCheckHint(v bool) Move {
	m &^= 1 << checkShift
	if v {
		m |= 1 << checkShift
	}
	return m
}

func (m Move) To() Square             { return Square((m >> toShift) & sixBitMask) }
func (m Move) From() Square           { return Square((m >> fromShift) & sixBitMask) }
func (m Move) PromotionType() PieceType { return PieceType((m >> promShift) & fourBitMask) }
func (m Move) CapturedType() PieceType  { return PieceType((m >> capturedShift) & fourBitMask) }
func (m Move) MovingType() PieceType    { return PieceType((m >> pieceShift) & fourBitMask) }
func (m Move) EpTarget() Square       { return Square((m >> epSqShift) & sixBitMask) }
func (m Move) IsEnPassant() bool      { return (m>>epFlagShift)&1 == 1 }
func (m Move) GivesCheckHint() bool   { return (m>>checkShift)&1 == 1 }
func (m Move) IsPromotion() bool      { return m.PromotionType() != PtNone }
func (m Move) IsCapture() bool        { return m.CapturedType() != PtNone || m.IsEnPassant() }

// IsCastling infers castling the way the position layer does: a king move
// of two files. There is no dedicated tag bit.
func (m Move) IsCastling() bool {
	if m.MovingType() != King {
		return false
	}
	from, to := int(m.From().FileOf()), int(m.To().FileOf())
	d := from - to
	return d >= 2 || d <= -2
}

// IsValid reports whether m looks like a structurally sound move. MoveNone
// is never valid in this sense.
func (m Move) IsValid() bool {
	return m != MoveNone && m.From().IsValid() && m.To().IsValid() && m.From() != m.To()
}

func (m Move) String() string {
	if m == MoveNone {
		return "(none)"
	}
	return m.StringUci()
}

// StringUci renders the move in pure coordinate notation as accepted by
// the text protocol: from-square, to-square, optional promotion letter.
func (m Move) StringUci() string {
	if m == MoveNone {
		return "0000"
	}
	var b strings.Builder
	b.WriteString(m.From().String())
	b.WriteString(m.To().String())
	if m.IsPromotion() {
		b.WriteString(strings.ToLower(m.PromotionType().Char()))
	}
	return b.String()
}
