package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/arbiterchess/arbiter/internal/types"
)

func TestNewStartPositionMatchesFen(t *testing.T) {
	p := NewStartPosition()
	assert.Equal(t, White, p.SideToMove())
	assert.Equal(t, SqE1, p.KingSquare(White))
	assert.Equal(t, SqE8, p.KingSquare(Black))
	assert.Equal(t, CastlingAny, p.Castling())
	assert.False(t, p.InCheck())
}

func TestFenRoundTrips(t *testing.T) {
	cases := []string{
		StartFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/ppppp2p/5p2/6pQ/8/8/PPPPPPPP/RNB1KBNR w KQkq g6 0 3",
	}
	for _, fen := range cases {
		p, err := NewPosition(fen)
		require.NoError(t, err)
		assert.Equal(t, fen, p.Fen())
		assert.NotEqual(t, uint64(0), p.ZobristKey())
	}
}

func TestIncrementalHashesMatchRecompute(t *testing.T) {
	p, err := NewPosition("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	// a line touching every incremental-update path: capture, castling,
	// en passant state, and a king move.
	moves := []Move{
		NewCapture(SqE5, SqG6, Knight, Pawn),
		NewCapture(SqB4, SqC3, Pawn, Knight),
		NewMove(SqE1, SqG1, King), // castles kingside
		NewCapture(SqH3, SqG2, Pawn, Pawn),
	}
	for _, m := range moves {
		p.DoMove(m)
		assert.Equal(t, p.computeZobrist(), p.ZobristKey(), "after %s", m)
		assert.Equal(t, p.computePawnZobrist(), p.PawnKey(), "after %s", m)
		assert.Equal(t, p.computeMaterialZobrist(), p.MaterialKey(), "after %s", m)
	}
}

func TestEnPassantCaptureUpdatesAllHashes(t *testing.T) {
	p, err := NewPosition("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2")
	require.NoError(t, err)
	zobristBefore := p.ZobristKey()
	materialBefore := p.MaterialKey()

	m := NewEnPassant(SqD4, SqE3, Pawn, SqE4)
	p.DoMove(m)
	assert.Equal(t, p.computeZobrist(), p.ZobristKey())
	assert.Equal(t, p.computePawnZobrist(), p.PawnKey())
	assert.Equal(t, p.computeMaterialZobrist(), p.MaterialKey())
	assert.NotEqual(t, materialBefore, p.MaterialKey(), "a pawn left the board")

	p.UndoMove()
	assert.Equal(t, zobristBefore, p.ZobristKey())
	assert.Equal(t, materialBefore, p.MaterialKey())
}

func TestDoUndoMoveRestoresZobristAndBoard(t *testing.T) {
	p := NewStartPosition()
	before := p.ZobristKey()
	beforeBoard := p.board

	m := NewMove(SqE2, SqE4, Pawn)
	p.DoMove(m)
	assert.NotEqual(t, before, p.ZobristKey())
	assert.Equal(t, Black, p.SideToMove())

	p.UndoMove()
	assert.Equal(t, before, p.ZobristKey())
	assert.Equal(t, beforeBoard, p.board)
	assert.Equal(t, White, p.SideToMove())
}

func TestDoUndoCaptureRestoresCapturedPiece(t *testing.T) {
	p, err := NewPosition("rnbqkbnr/pppp1ppp/8/4p3/3P4/8/PPP1PPPP/RNBQKBNR w KQkq - 0 2")
	require.NoError(t, err)

	captured := p.PieceOn(SqE5)
	m := NewCapture(SqD4, SqE5, Pawn, Pawn)
	p.DoMove(m)
	assert.Equal(t, MakePiece(White, Pawn), p.PieceOn(SqE5))
	p.UndoMove()
	assert.Equal(t, captured, p.PieceOn(SqE5))
}

func TestDoNullMoveTogglesSideToMoveOnly(t *testing.T) {
	p := NewStartPosition()
	before := p.board
	p.DoNullMove()
	assert.Equal(t, Black, p.SideToMove())
	assert.Equal(t, before, p.board)
	p.UndoNullMove()
	assert.Equal(t, White, p.SideToMove())
}

func TestFiftyMoveDraw(t *testing.T) {
	p, err := NewPosition("8/8/8/4k3/8/4K3/8/8 w - - 99 80")
	require.NoError(t, err)
	assert.False(t, p.IsFiftyMoveDraw())
	p2, err := NewPosition("8/8/8/4k3/8/4K3/8/8 w - - 100 80")
	require.NoError(t, err)
	assert.True(t, p2.IsFiftyMoveDraw())
}

func TestRepetitionDetectedAfterKnightShuffle(t *testing.T) {
	p := NewStartPosition()
	seq := []Move{
		NewMove(SqG1, SqF3, Knight),
		NewMove(SqG8, SqF6, Knight),
		NewMove(SqF3, SqG1, Knight),
		NewMove(SqF6, SqG8, Knight),
	}
	for _, m := range seq {
		assert.False(t, p.IsRepetition())
		p.DoMove(m)
	}
	assert.True(t, p.IsRepetition(), "back to the start position")
}

func TestInsufficientMaterialKingsOnly(t *testing.T) {
	p, err := NewPosition("8/8/8/4k3/8/4K3/8/8 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, p.IsInsufficientMaterial())
}

func TestInsufficientMaterialWithPawnIsFalse(t *testing.T) {
	p, err := NewPosition("8/8/8/4k3/8/4K3/4P3/8 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, p.IsInsufficientMaterial())
}
