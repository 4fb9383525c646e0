package position

import (
	"math/rand"

	. "github.com/arbiterchess/arbiter/internal/types"
)

// zobrist keys are generated once at init time from a fixed seed so every
// run of the engine (and every test) hashes positions identically.
var (
	zobristPiece    [PieceLength][SqLength]uint64
	zobristCastling [CastlingAny + 1]uint64
	zobristEnPassant [FileLength + 1]uint64
	zobristSideToMove uint64

	zobristPawnPiece [PieceLength][SqLength]uint64

	zobristMaterial [PieceLength][16]uint64
)

func init() {
	rng := rand.New(rand.NewSource(0x5DEECE66D))
	for p := PieceNone; p < PieceLength; p++ {
		for sq := SqA1; sq < SqNone; sq++ {
			zobristPiece[p][sq] = rng.Uint64()
			zobristPawnPiece[p][sq] = rng.Uint64()
		}
		for c := 0; c < 16; c++ {
			zobristMaterial[p][c] = rng.Uint64()
		}
	}
	for cr := CastlingNone; cr <= CastlingAny; cr++ {
		zobristCastling[cr] = rng.Uint64()
	}
	for f := FileA; f <= FileNone; f++ {
		zobristEnPassant[f] = rng.Uint64()
	}
	zobristSideToMove = rng.Uint64()
}

// epFile maps the en passant square to its hash index: SqNone must hash
// differently from a real target on the a-file, so it maps to FileNone.
func epFile(sq Square) File {
	if !sq.IsValid() {
		return FileNone
	}
	return sq.FileOf()
}
