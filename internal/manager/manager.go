// Package manager implements a lazy-SMP search manager: a fixed pool of
// worker goroutines that all search the same position against one shared
// transposition table, diverging naturally from TT timing rather than from
// any explicit tree split.
package manager

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/chessplay/core/internal/board"
	"github.com/chessplay/core/internal/search"
	"github.com/chessplay/core/internal/timeman"
	"github.com/chessplay/core/internal/tt"
)

// resultTimeout bounds how long Search waits for at least one worker to
// report a result before giving up and returning a draw score. It guards
// against a wedged worker (e.g. a position with no time control and a huge
// max depth) hanging the whole engine.
const resultTimeout = 10 * time.Minute

// Result is the best move found by the worker pool for one search.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	Nodes uint64
	PV    []board.Move
}

// Manager owns the shared transposition table and the stop flag every
// worker polls. shutdown is distinct from the per-job stop flag: shutdown
// permanently retires the manager (used when the engine is quitting),
// while a job's own stop flag only ends the current search so the manager
// can accept the next "go" command.
type Manager struct {
	table      *tt.Table
	numWorkers int
	log        logr.Logger

	shutdown atomic.Bool

	mu      sync.Mutex
	jobStop *atomic.Bool
	jobWG   sync.WaitGroup
	results []Result
}

// New creates a Manager with a ttSizeMB-sized shared transposition table
// and numWorkers lazy-SMP workers.
func New(ttSizeMB, numWorkers int, log logr.Logger) *Manager {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Manager{
		table:      tt.New(ttSizeMB),
		numWorkers: numWorkers,
		log:        log,
	}
}

// Resize replaces the transposition table with one of the given size.
// Must not be called while a search is running.
func (m *Manager) Resize(ttSizeMB int) {
	m.table = tt.New(ttSizeMB)
}

// SetWorkers changes the worker count used by future searches.
func (m *Manager) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	m.numWorkers = n
}

// Clear empties the shared transposition table (UCI "ucinewgame").
func (m *Manager) Clear() {
	m.table.Clear()
}

// HashFull reports transposition table occupancy in permille.
func (m *Manager) HashFull() int {
	return m.table.HashFull()
}

// Search runs a synchronous lazy-SMP search bounded by limits and returns
// the best result across all workers. onIteration is invoked from worker 0
// only, so callers get one coherent depth-by-depth info stream rather than
// numWorkers interleaved ones.
func (m *Manager) Search(ctx context.Context, pos *board.Position, tc timeman.Limits, onIteration func(search.Iteration)) Result {
	us := pos.SideToMove
	tm := timeman.New()
	tm.Start(tc, us, int(pos.FullMoveNumber)*2)

	maxDepth := tc.Depth
	if maxDepth == 0 || maxDepth > search.MaxPly-1 {
		maxDepth = search.MaxPly - 1
	}

	searchCtx, cancel := context.WithTimeout(ctx, resultTimeout)
	defer cancel()

	// The wall-clock backstop always arms except for "go infinite": it also
	// covers fixed movetime (tm.Maximum() equals it exactly) and a node
	// limit with no clock given (tm.Start leaves a generous hour-long
	// backstop in that case), so a node limit is never the only thing
	// standing between a search and the 10-minute resultTimeout fallback.
	if !tc.Infinite {
		go func() {
			timer := time.NewTimer(tm.Maximum())
			defer timer.Stop()
			select {
			case <-timer.C:
				cancel()
			case <-searchCtx.Done():
			}
		}()
	}

	var stopFlag atomic.Bool
	go func() {
		<-searchCtx.Done()
		stopFlag.Store(true)
	}()

	results := make([]Result, m.numWorkers)
	g, _ := errgroup.WithContext(ctx)

	for i := 0; i < m.numWorkers; i++ {
		workerID := i
		g.Go(func() error {
			startDepth := 1 + workerID%2
			report := onIteration
			if workerID != 0 {
				report = nil
			}
			local := pos.Copy()
			it := search.IterativeDeepen(local, m.table, &stopFlag, startDepth, maxDepth, tc.Nodes, report)
			results[workerID] = Result{Move: it.Move, Score: it.Score, Depth: it.Depth, Nodes: it.Nodes, PV: it.PV}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-searchCtx.Done():
		stopFlag.Store(true)
		<-done
	}

	return bestResult(results)
}

// bestResult picks the deepest completed result, breaking ties on score;
// a worker that never completed depth 1 (e.g. it was stopped immediately)
// contributes a zero-value Result that loses every comparison.
func bestResult(results []Result) Result {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Depth != results[j].Depth {
			return results[i].Depth > results[j].Depth
		}
		return results[i].Score > results[j].Score
	})
	if len(results) == 0 {
		return Result{}
	}
	return results[0]
}

// StartAsync begins an unbounded "go infinite" search and returns
// immediately; the caller retrieves the result via StopAndCollect. Calling
// StartAsync while a job is already running is a programming error and
// panics, mirroring the single-job invariant the UCI loop enforces.
func (m *Manager) StartAsync(pos *board.Position, onIteration func(search.Iteration)) {
	m.mu.Lock()
	if m.jobStop != nil {
		m.mu.Unlock()
		panic("manager: StartAsync called while a job is already running")
	}
	var stopFlag atomic.Bool
	m.jobStop = &stopFlag
	m.results = make([]Result, m.numWorkers)
	m.jobWG.Add(m.numWorkers)
	m.mu.Unlock()

	for i := 0; i < m.numWorkers; i++ {
		workerID := i
		go func() {
			defer m.jobWG.Done()
			startDepth := 1 + workerID%2
			report := onIteration
			if workerID != 0 {
				report = nil
			}
			local := pos.Copy()
			it := search.IterativeDeepen(local, m.table, &stopFlag, startDepth, search.MaxPly-1, 0, report)
			m.mu.Lock()
			m.results[workerID] = Result{Move: it.Move, Score: it.Score, Depth: it.Depth, Nodes: it.Nodes, PV: it.PV}
			m.mu.Unlock()
		}()
	}
}

// StopAndCollect signals the running async job to stop, waits for every
// worker to return, and reports the best result. It is safe to call only
// after a matching StartAsync.
func (m *Manager) StopAndCollect() Result {
	m.mu.Lock()
	stopFlag := m.jobStop
	m.mu.Unlock()
	if stopFlag == nil {
		return Result{}
	}
	stopFlag.Store(true)
	m.jobWG.Wait()

	m.mu.Lock()
	results := m.results
	m.jobStop = nil
	m.results = nil
	m.mu.Unlock()

	return bestResult(results)
}

// Shutdown permanently retires the manager. Any running job is stopped and
// waited on before returning.
func (m *Manager) Shutdown() {
	if m.shutdown.Swap(true) {
		return
	}
	m.mu.Lock()
	stopFlag := m.jobStop
	m.mu.Unlock()
	if stopFlag != nil {
		stopFlag.Store(true)
		m.jobWG.Wait()
	}
}
