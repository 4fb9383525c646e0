package types

import "fmt"

// Square identifies exactly one square on the board, SqA1..SqH8, plus the
// SqNone sentinel.
type Square uint8

const (
	SqA1 Square = iota
	SqB1
	SqC1
	SqD1
	SqE1
	SqF1
	SqG1
	SqH1
	SqA2
	SqB2
	SqC2
	SqD2
	SqE2
	SqF2
	SqG2
	SqH2
	SqA3
	SqB3
	SqC3
	SqD3
	SqE3
	SqF3
	SqG3
	SqH3
	SqA4
	SqB4
	SqC4
	SqD4
	SqE4
	SqF4
	SqG4
	SqH4
	SqA5
	SqB5
	SqC5
	SqD5
	SqE5
	SqF5
	SqG5
	SqH5
	SqA6
	SqB6
	SqC6
	SqD6
	SqE6
	SqF6
	SqG6
	SqH6
	SqA7
	SqB7
	SqC7
	SqD7
	SqE7
	SqF7
	SqG7
	SqH7
	SqA8
	SqB8
	SqC8
	SqD8
	SqE8
	SqF8
	SqG8
	SqH8
	SqNone
)

const SqLength int = 64

// IsValid reports whether sq addresses a real board square.
func (sq Square) IsValid() bool {
	return sq < SqNone
}

// FileOf returns the file the square sits on.
func (sq Square) FileOf() File {
	return File(sq & 7)
}

// RankOf returns the rank the square sits on.
func (sq Square) RankOf() Rank {
	return Rank(sq >> 3)
}

// SquareOf builds a square from a file and rank, returning SqNone if either
// is out of range.
func SquareOf(f File, r Rank) Square {
	if !f.IsValid() || !r.IsValid() {
		return SqNone
	}
	return Square(int(r)<<3 + int(f))
}

// MakeSquare parses a two character algebraic square name (e.g. "e4").
// Returns SqNone on any malformed input rather than panicking - this is a
// protocol/FEN boundary function.
func MakeSquare(s string) Square {
	if len(s) != 2 {
		return SqNone
	}
	file := File(s[0] - 'a')
	rank := Rank(s[1] - '1')
	return SquareOf(file, rank)
}

// To returns the square reached by moving one step in direction d from sq,
// or SqNone if that would leave the board.
func (sq Square) To(d Direction) Square {
	switch d {
	case North, South, East, West, Northeast, Southeast, Southwest, Northwest:
		return sqTo[sq][directionIndex(d)]
	default:
		panic(fmt.Sprintf("invalid direction %d", d))
	}
}

func directionIndex(d Direction) int {
	for i, dd := range Directions {
		if dd == d {
			return i
		}
	}
	panic(fmt.Sprintf("invalid direction %d", d))
}

func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return sq.FileOf().String() + sq.RankOf().String()
}

var sqTo [SqLength][8]Square

func init() {
	for sq := SqA1; sq < SqNone; sq++ {
		for i, dir := range Directions {
			sqTo[sq][i] = sq.rawTo(dir)
		}
	}
}

// rawTo computes To without relying on the (not yet built) sqTo table.
func (sq Square) rawTo(d Direction) Square {
	file := sq.FileOf()
	switch d {
	case East, Northeast, Southeast:
		if file >= FileH {
			return SqNone
		}
	case West, Northwest, Southwest:
		if file <= FileA {
			return SqNone
		}
	}
	si := int(sq) + int(d)
	if si < 0 || si >= SqLength {
		return SqNone
	}
	return Square(si)
}
