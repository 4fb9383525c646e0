package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitboardPopCountAndLsb(t *testing.T) {
	bb := SqA1.Bb() | SqH1.Bb() | SqD4.Bb()
	assert.Equal(t, 3, bb.PopCount())
	assert.Equal(t, SqA1, bb.Lsb())
}

func TestBitboardPopLsbDrainsAllBits(t *testing.T) {
	bb := SqA1.Bb() | SqB2.Bb() | SqC3.Bb()
	var seen []Square
	for bb != 0 {
		seen = append(seen, bb.PopLsb())
	}
	assert.ElementsMatch(t, []Square{SqA1, SqB2, SqC3}, seen)
}

func TestShiftBitboardClipsAtEdges(t *testing.T) {
	hFile := FileH.Bb()
	shifted := ShiftBitboard(hFile, East)
	assert.Equal(t, BbZero, shifted, "shifting the h-file east must fall off the board, not wrap to the a-file")
}

func TestSquareDistance(t *testing.T) {
	assert.Equal(t, 0, SquareDistance(SqA1, SqA1))
	assert.Equal(t, 7, SquareDistance(SqA1, SqH8))
	assert.Equal(t, 1, SquareDistance(SqE4, SqE5))
}

func TestPassedPawnMaskCoversSquaresAheadOnly(t *testing.T) {
	mask := PassedPawnMask(White, SqE4)
	assert.True(t, mask.Has(SqD5))
	assert.True(t, mask.Has(SqE5))
	assert.True(t, mask.Has(SqF5))
	assert.False(t, mask.Has(SqE4))
}
