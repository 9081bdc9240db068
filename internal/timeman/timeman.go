// Package timeman allocates a search time budget from UCI "go" parameters.
package timeman

import (
	"time"

	"github.com/chessplay/core/internal/board"
)

// Limits carries the UCI "go" command's time-control parameters.
type Limits struct {
	Time      [2]time.Duration // wtime, btime
	Inc       [2]time.Duration // winc, binc
	MovesToGo int              // moves until next time control, 0 = sudden death
	MoveTime  time.Duration    // fixed time per move, overrides the rest
	Depth     int              // maximum search depth, 0 = unbounded
	Nodes     uint64           // maximum node count, 0 = unbounded
	Infinite  bool             // search until "stop"
}

// Manager tracks the optimum and maximum time budget for one search and
// the wall-clock it started at.
type Manager struct {
	optimum   time.Duration
	maximum   time.Duration
	startedAt time.Time
}

// New returns an unstarted Manager.
func New() *Manager {
	return &Manager{}
}

// Start computes the time budget for a search by the side to move at the
// given game ply (half-move count since the start position).
func (m *Manager) Start(limits Limits, us board.Color, ply int) {
	m.startedAt = time.Now()

	if limits.MoveTime > 0 {
		m.optimum = limits.MoveTime
		m.maximum = limits.MoveTime
		return
	}

	if limits.Infinite || limits.Time[us] == 0 {
		m.optimum = time.Hour
		m.maximum = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	base := timeLeft/time.Duration(mtg) + inc*9/10
	m.optimum = base
	if ply < 8 {
		m.optimum = base * 85 / 100
	}

	maxFromOptimum := m.optimum * 5
	maxFromRemaining := timeLeft * 8 / 10
	if maxFromOptimum < maxFromRemaining {
		m.maximum = maxFromOptimum
	} else {
		m.maximum = maxFromRemaining
	}

	if safety := timeLeft * 95 / 100; m.maximum > safety {
		m.maximum = safety
	}

	if m.optimum < 10*time.Millisecond {
		m.optimum = 10 * time.Millisecond
	}
	if m.maximum < 50*time.Millisecond {
		m.maximum = 50 * time.Millisecond
	}
}

// Elapsed returns the time since Start.
func (m *Manager) Elapsed() time.Duration { return time.Since(m.startedAt) }

// Optimum returns the target time for this move.
func (m *Manager) Optimum() time.Duration { return m.optimum }

// Maximum returns the hard time limit for this move.
func (m *Manager) Maximum() time.Duration { return m.maximum }

// ShouldStop reports whether the maximum budget has been exceeded.
func (m *Manager) ShouldStop() bool { return m.Elapsed() >= m.maximum }

// PastOptimum reports whether the optimum budget has been exceeded; callers
// use this to decide whether to start another iterative-deepening depth.
func (m *Manager) PastOptimum() bool { return m.Elapsed() >= m.optimum }

// Stabilize shrinks the optimum budget when the best move has stayed the
// same for several consecutive depths, letting the search return early
// instead of spending its full budget confirming an unchanged decision.
func (m *Manager) Stabilize(stableDepths int) {
	switch {
	case stableDepths >= 6:
		m.optimum = m.optimum * 40 / 100
	case stableDepths >= 4:
		m.optimum = m.optimum * 60 / 100
	case stableDepths >= 2:
		m.optimum = m.optimum * 80 / 100
	}
}
