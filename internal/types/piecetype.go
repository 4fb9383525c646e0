package types

// PieceType is the kind of a piece, independent of color. Values are chosen
// so that pt >= Bishop identifies a sliding piece.
type PieceType uint8

const (
	PtNone PieceType = iota
	King
	Pawn
	Knight
	Bishop
	Rook
	Queen
	PtLength
)

// IsValid reports whether pt is one of the six piece kinds.
func (pt PieceType) IsValid() bool {
	return pt > PtNone && pt < PtLength
}

// IsSlider reports whether pt attacks along rays (bishop/rook/queen).
func (pt PieceType) IsSlider() bool {
	return pt == Bishop || pt == Rook || pt == Queen
}

var gamePhaseValue = [PtLength]int{0, 0, 0, 1, 1, 2, 4}

// GamePhaseValue is the weight contributed by one piece of this kind
// towards the non-pawn-material game phase counter.
func (pt PieceType) GamePhaseValue() int {
	return gamePhaseValue[pt]
}

var pieceTypeValue = [PtLength]Value{0, 2000, 100, 320, 330, 500, 900}

// ValueOf returns the static material value of one piece of this kind.
func (pt PieceType) ValueOf() Value {
	return pieceTypeValue[pt]
}

var pieceTypeNames = [PtLength]string{"NoPieceType", "King", "Pawn", "Knight", "Bishop", "Rook", "Queen"}

func (pt PieceType) String() string {
	return pieceTypeNames[pt]
}

const pieceTypeChars = "-KPNBRQ"

// Char returns the single upper case FEN-style letter for pt.
func (pt PieceType) Char() string {
	return string(pieceTypeChars[pt])
}
