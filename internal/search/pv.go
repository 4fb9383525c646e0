package search

import (
	"strings"

	. "github.com/arbiterchess/arbiter/internal/types"
)

// pvLine is a fixed-capacity principal variation buffer for one ply. PVS
// builds it bottom-up: a node copies its best child's line behind its own
// move, so the root's pvLine ends up holding the full variation.
type pvLine struct {
	moves [MaxDepth]Move
	len   int
}

func (pv *pvLine) clear() { pv.len = 0 }

// set records m as this node's move followed by child's continuation.
func (pv *pvLine) set(m Move, child *pvLine) {
	pv.moves[0] = m
	n := copy(pv.moves[1:], child.moves[:child.len])
	pv.len = n + 1
}

func (pv *pvLine) first() Move {
	if pv.len == 0 {
		return MoveNone
	}
	return pv.moves[0]
}

func (pv *pvLine) String() string {
	var b strings.Builder
	for i := 0; i < pv.len; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(pv.moves[i].StringUci())
	}
	return b.String()
}

func (pv *pvLine) Moves() []Move {
	out := make([]Move, pv.len)
	copy(out, pv.moves[:pv.len])
	return out
}
