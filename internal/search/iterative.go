package search

import (
	"sync/atomic"

	"github.com/chessplay/core/internal/board"
	"github.com/chessplay/core/internal/tt"
)

// aspirationWindow is the half-width of the score window tried around the
// previous iteration's score, before a single re-search that widens only the
// failing bound to infinity.
const aspirationWindow = 50

// Iteration is the result after one completed depth of iterative
// deepening. Nodes is cumulative across every depth searched so far, not
// just the depth that just completed, matching the UCI "info nodes"
// convention of reporting a running total for the search.
type Iteration struct {
	Depth int
	Score int
	Move  board.Move
	PV    []board.Move
	Nodes uint64
}

// IterativeDeepen runs depth startDepth, startDepth+1, ... against table
// until maxDepth or stopFlag fires, calling onIteration after each depth
// that completed without being interrupted. A depth that is interrupted
// mid-search is discarded entirely: its partial alpha-beta result is not a
// trustworthy bound and must never overwrite the previous iteration's move
// or score.
//
// startDepth lets a lazy-SMP worker begin a little deeper than depth 1 so
// that sibling workers searching the same shared table diverge sooner
// instead of retracing each other's first few plies in lockstep.
//
// nodeLimit bounds the total nodes visited across every depth of this
// call, 0 meaning unbounded; it is the per-worker enforcement of the UCI
// "go nodes N" limit.
func IterativeDeepen(pos *board.Position, table *tt.Table, stopFlag *atomic.Bool, startDepth, maxDepth int, nodeLimit uint64, onIteration func(Iteration)) Iteration {
	if startDepth < 1 {
		startDepth = 1
	}
	s := NewSearcher(table, stopFlag)
	table.NewSearch()

	var best Iteration
	var totalNodes uint64

	for depth := startDepth; depth <= maxDepth; depth++ {
		if stopFlag.Load() {
			break
		}
		if nodeLimit != 0 && totalNodes >= nodeLimit {
			break
		}

		s.Reset()
		if nodeLimit != 0 {
			s.SetNodeLimit(nodeLimit - totalNodes)
		}

		var move board.Move
		var score int
		var completed bool

		if depth <= 1 || best.Score == 0 {
			move, score, completed = s.SearchDepth(pos, depth, -Infinity, Infinity)
		} else {
			alpha := best.Score - aspirationWindow
			beta := best.Score + aspirationWindow

			move, score, completed = s.SearchDepth(pos, depth, alpha, beta)

			if completed && score <= alpha {
				move, score, completed = s.SearchDepth(pos, depth, -Infinity, beta)
			} else if completed && score >= beta {
				move, score, completed = s.SearchDepth(pos, depth, alpha, Infinity)
			}
		}

		if !completed {
			break
		}
		totalNodes += s.Nodes()

		best = Iteration{
			Depth: depth,
			Score: score,
			Move:  move,
			PV:    s.PV(),
			Nodes: totalNodes,
		}

		if onIteration != nil {
			onIteration(best)
		}

		if score >= MateScore-MaxPly || score <= -MateScore+MaxPly {
			break
		}
	}

	return best
}
