package search

import (
	"sync/atomic"
	"testing"

	"github.com/chessplay/core/internal/board"
	"github.com/chessplay/core/internal/tt"
)

func TestIterativeDeepenReportsCumulativeNodes(t *testing.T) {
	pos := board.NewPosition()
	var stop atomic.Bool

	var iterations []Iteration
	IterativeDeepen(pos, tt.New(1), &stop, 1, 4, 0, func(it Iteration) {
		iterations = append(iterations, it)
	})

	if len(iterations) < 2 {
		t.Fatalf("expected at least 2 completed iterations, got %d", len(iterations))
	}
	for i := 1; i < len(iterations); i++ {
		if iterations[i].Nodes < iterations[i-1].Nodes {
			t.Errorf("Nodes should be cumulative and non-decreasing across depths, depth %d had %d then depth %d had %d",
				iterations[i-1].Depth, iterations[i-1].Nodes, iterations[i].Depth, iterations[i].Nodes)
		}
	}
}

func TestIterativeDeepenStopsAtNodeLimit(t *testing.T) {
	pos := board.NewPosition()
	var stop atomic.Bool

	const limit = 3000
	best := IterativeDeepen(pos, tt.New(1), &stop, 1, MaxPly-1, limit, nil)

	if best.Depth == 0 {
		t.Fatal("expected at least depth 1 to complete before the node limit was reached")
	}
	if best.Depth >= MaxPly-1 {
		t.Error("a 3000-node budget should not let the search reach the maximum depth from the starting position")
	}
	if !stop.Load() {
		t.Error("reaching the node limit should have set the shared stop flag")
	}
}

func TestIterativeDeepenZeroNodeLimitIsUnbounded(t *testing.T) {
	pos := board.NewPosition()
	var stop atomic.Bool

	best := IterativeDeepen(pos, tt.New(1), &stop, 1, 3, 0, nil)
	if best.Depth != 3 {
		t.Errorf("expected the search to reach maxDepth 3 with no node limit, got depth %d", best.Depth)
	}
}
