package manager

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/chessplay/core/internal/board"
	"github.com/chessplay/core/internal/search"
	"github.com/chessplay/core/internal/timeman"
)

func TestSearchSingleWorkerReturnsCompletedResult(t *testing.T) {
	m := New(1, 1, logr.Discard())
	pos := board.NewPosition()

	result := m.Search(context.Background(), pos, timeman.Limits{Depth: 4}, nil)

	if result.Move == board.NoMove {
		t.Fatal("expected a best move from a depth-bounded search")
	}
	if result.Depth < 1 {
		t.Errorf("expected at least one completed iteration, got depth %d", result.Depth)
	}
}

func TestSearchRespectsNodeLimit(t *testing.T) {
	m := New(1, 1, logr.Discard())
	pos := board.NewPosition()

	result := m.Search(context.Background(), pos, timeman.Limits{Nodes: 2000}, nil)

	if result.Move == board.NoMove {
		t.Fatal("expected a best move even when the node limit cuts the search short")
	}
	if result.Depth >= search.MaxPly-1 {
		t.Error("a 2000-node limit should not let the search reach the maximum depth")
	}
}

func TestSearchMultipleWorkersAgreeOnReasonableMove(t *testing.T) {
	m := New(1, 4, logr.Discard())
	pos := board.NewPosition()

	result := m.Search(context.Background(), pos, timeman.Limits{Depth: 4}, nil)

	if result.Move == board.NoMove {
		t.Fatal("expected a best move from a 4-worker lazy-SMP search")
	}
	if result.Score < -150 || result.Score > 150 {
		t.Errorf("starting position should score roughly balanced even with multiple workers, got %d", result.Score)
	}
}

func TestSearchReportsIterationsFromWorkerZeroOnly(t *testing.T) {
	m := New(1, 4, logr.Discard())
	pos := board.NewPosition()

	var depths []int
	m.Search(context.Background(), pos, timeman.Limits{Depth: 3}, func(it search.Iteration) {
		depths = append(depths, it.Depth)
	})

	if len(depths) == 0 {
		t.Error("expected at least one onIteration callback")
	}
	for i := 1; i < len(depths); i++ {
		if depths[i] <= depths[i-1] {
			t.Errorf("expected one strictly deepening stream from worker 0, got depths %v", depths)
			break
		}
	}
}

func TestStartAsyncStopAndCollectCyclesWithoutLeakingWorkers(t *testing.T) {
	m := New(1, 2, logr.Discard())
	pos := board.NewPosition()

	for i := 0; i < 50; i++ {
		m.StartAsync(pos, nil)
		time.Sleep(time.Millisecond)
		result := m.StopAndCollect()
		if result.Move == board.NoMove {
			t.Fatalf("cycle %d: expected a move from StopAndCollect", i)
		}
	}
}

func TestStartAsyncWhileRunningPanics(t *testing.T) {
	m := New(1, 1, logr.Discard())
	pos := board.NewPosition()

	m.StartAsync(pos, nil)
	defer m.StopAndCollect()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected StartAsync to panic when a job is already running")
		}
	}()
	m.StartAsync(pos, nil)
}

func TestStopAndCollectWithoutStartReturnsZeroValue(t *testing.T) {
	m := New(1, 1, logr.Discard())
	result := m.StopAndCollect()
	if result.Move != board.NoMove {
		t.Errorf("expected the zero Result when no job was started, got %+v", result)
	}
}

func TestShutdownStopsRunningJob(t *testing.T) {
	m := New(1, 2, logr.Discard())
	pos := board.NewPosition()

	m.StartAsync(pos, nil)
	time.Sleep(time.Millisecond)
	m.Shutdown()

	// Shutdown must be idempotent.
	m.Shutdown()
}

func TestHashFullAndClear(t *testing.T) {
	m := New(1, 1, logr.Discard())
	pos := board.NewPosition()

	m.Search(context.Background(), pos, timeman.Limits{Depth: 4}, nil)
	if m.HashFull() == 0 {
		t.Error("expected the transposition table to be non-empty after a search")
	}

	m.Clear()
	if m.HashFull() != 0 {
		t.Errorf("expected HashFull to be 0 after Clear, got %d", m.HashFull())
	}
}
