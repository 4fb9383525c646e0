package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterchess/arbiter/internal/position"
)

func TestStartPositionIsRoughlyBalanced(t *testing.T) {
	pos := position.NewStartPosition()
	v := Evaluate(pos)
	assert.InDelta(t, 0, int(v), 40, "start position should be close to equal, got %d", v)
}

func TestExtraQueenIsDecisiveAdvantage(t *testing.T) {
	pos, err := position.NewPosition("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	v := Evaluate(pos)
	assert.Greater(t, int(v), 500)
}

func TestEvaluateIsSymmetricUnderColorFlip(t *testing.T) {
	white, err := position.NewPosition("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	black, err := position.NewPosition("3qk3/8/8/8/8/8/8/4K3 b - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, Evaluate(white), Evaluate(black))
}

func TestContextCachesPawnStructureAcrossCalls(t *testing.T) {
	ctx := NewContext()
	pos := position.NewStartPosition()
	a := ctx.Evaluate(pos)
	b := ctx.Evaluate(pos)
	assert.Equal(t, a, b)
}

func TestBishopPairBonusAppliesToSideWithBothBishops(t *testing.T) {
	withPair, err := position.NewPosition("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	require.NoError(t, err)
	onlyOne, err := position.NewPosition("4k3/8/8/8/8/8/8/4KB2 w - - 0 1")
	require.NoError(t, err)
	assert.Greater(t, int(Evaluate(withPair)), int(Evaluate(onlyOne)))
}
