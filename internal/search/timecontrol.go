package search

import (
	"sync"
	"time"

	. "github.com/arbiterchess/arbiter/internal/types"
)

// timeControl turns a "go" command's clock limits into a soft deadline
// (don't begin another iterative-deepening iteration past this point) and
// a hard deadline (abort mid-search immediately, no matter what).
// Node/depth-only searches get deadlines far in the future and rely
// entirely on the node/depth cutoff instead. While pondering, both
// deadlines are suspended; PonderHit restarts the clock against them.
// The mutex keeps deadline reads by the polling workers coherent with a
// concurrent PonderHit from the protocol thread.
type timeControl struct {
	mu        sync.Mutex
	start     time.Time
	soft      time.Duration
	hard      time.Duration
	infinite  bool
	pondering bool

	lastBestMove   Move
	stableIterations int
}

const noDeadline = 1<<62 - 1

func newTimeControl(us Color, lim Limits) *timeControl {
	tc := &timeControl{start: timeNow(), pondering: lim.Ponder}

	if lim.Infinite {
		tc.infinite = true
		tc.soft, tc.hard = noDeadline, noDeadline
		return tc
	}
	if lim.MoveTime > 0 {
		tc.soft = lim.MoveTime
		tc.hard = lim.MoveTime
		return tc
	}
	if !lim.hasClock(us) {
		// depth/nodes-only search: no wall clock at all.
		tc.soft, tc.hard = noDeadline, noDeadline
		return tc
	}

	remaining := lim.WhiteTime
	inc := lim.WhiteInc
	if us == Black {
		remaining = lim.BlackTime
		inc = lim.BlackInc
	}
	remaining -= lim.MoveOverhead
	if remaining < 10*time.Millisecond {
		remaining = 10 * time.Millisecond
	}

	movesToGo := lim.MovesToGo
	if movesToGo <= 0 {
		movesToGo = 40
	}

	budget := remaining/time.Duration(movesToGo) + inc
	tc.soft = budget
	tc.hard = budget * 4
	if tc.hard > remaining {
		tc.hard = remaining
	}
	return tc
}

// timeNow is the engine's single source of wall-clock time, isolated here
// so time-pressure behavior stays easy to exercise from tests that fake it.
func timeNow() time.Time { return time.Now() }

// PonderHit restarts the clock: the expected opponent move was played, so
// the deadlines computed at "go ponder" time begin counting from now.
func (tc *timeControl) PonderHit() {
	tc.mu.Lock()
	tc.pondering = false
	tc.start = timeNow()
	tc.mu.Unlock()
}

// Pondering reports whether the search is still in ponder mode, i.e.
// PonderHit has not yet restarted the clock.
func (tc *timeControl) Pondering() bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.pondering
}

// NoteIterationResult lets the time manager shorten the soft deadline once
// the best move has stopped changing across iterations - further searching
// is unlikely to change the decision, so the engine can move on early.
func (tc *timeControl) NoteIterationResult(best Move) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if best == tc.lastBestMove {
		tc.stableIterations++
	} else {
		tc.stableIterations = 0
		tc.lastBestMove = best
	}
	if tc.stableIterations >= 3 && !tc.infinite {
		tc.soft = tc.soft * 6 / 10
	}
}

// ShouldStartNewIteration reports whether there is time budget left to
// begin another iterative-deepening pass.
func (tc *timeControl) ShouldStartNewIteration() bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.infinite || tc.pondering {
		return true
	}
	return timeNow().Sub(tc.start) < tc.soft
}

// Expired reports whether the hard deadline has passed - search must
// unwind immediately regardless of what it's doing.
func (tc *timeControl) Expired() bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.infinite || tc.pondering {
		return false
	}
	return timeNow().Sub(tc.start) >= tc.hard
}

func (tc *timeControl) Elapsed() time.Duration {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return timeNow().Sub(tc.start)
}
