package timeman

import (
	"testing"
	"time"

	"github.com/chessplay/core/internal/board"
)

func TestFixedMoveTime(t *testing.T) {
	m := New()
	m.Start(Limits{MoveTime: 500 * time.Millisecond}, board.White, 10)

	if m.Optimum() != 500*time.Millisecond || m.Maximum() != 500*time.Millisecond {
		t.Errorf("fixed move time should set both budgets to the same value, got optimum=%v maximum=%v", m.Optimum(), m.Maximum())
	}
}

func TestInfiniteSearchUsesLargeBudget(t *testing.T) {
	m := New()
	m.Start(Limits{Infinite: true}, board.White, 0)

	if m.Optimum() < time.Hour || m.Maximum() < time.Hour {
		t.Errorf("infinite search should not impose a practical time budget, got optimum=%v maximum=%v", m.Optimum(), m.Maximum())
	}
}

func TestNoTimeGivenIsTreatedAsUnbounded(t *testing.T) {
	m := New()
	m.Start(Limits{}, board.White, 0)

	if m.Optimum() < time.Hour {
		t.Errorf("a limits struct with no clock should not impose a tight budget, got optimum=%v", m.Optimum())
	}
}

func TestSuddenDeathAllocatesAFractionOfRemaining(t *testing.T) {
	m := New()
	m.Start(Limits{Time: [2]time.Duration{60 * time.Second, 60 * time.Second}}, board.White, 20)

	if m.Optimum() <= 0 || m.Optimum() >= 60*time.Second {
		t.Errorf("optimum should be a modest slice of the 60s remaining, got %v", m.Optimum())
	}
	if m.Maximum() <= m.Optimum() {
		t.Errorf("maximum (%v) should exceed optimum (%v)", m.Maximum(), m.Optimum())
	}
	if m.Maximum() > 57*time.Second {
		t.Errorf("maximum must respect the 95%% safety cap on remaining time, got %v", m.Maximum())
	}
}

func TestMovesToGoOneStaysWithinRemainingClock(t *testing.T) {
	m := New()
	m.Start(Limits{Time: [2]time.Duration{10 * time.Second, 10 * time.Second}, MovesToGo: 1}, board.White, 40)

	if m.Optimum() <= 0 {
		t.Errorf("expected a positive optimum even with one move to go, got %v", m.Optimum())
	}
	if m.Maximum() > 10*time.Second {
		t.Errorf("maximum must never exceed the remaining clock, got %v", m.Maximum())
	}
}

func TestLowTimeStillYieldsAPositiveFloor(t *testing.T) {
	m := New()
	m.Start(Limits{Time: [2]time.Duration{50 * time.Millisecond, 50 * time.Millisecond}}, board.White, 80)

	if m.Optimum() < 10*time.Millisecond {
		t.Errorf("optimum should never fall below its floor, got %v", m.Optimum())
	}
	if m.Maximum() < 50*time.Millisecond {
		t.Errorf("maximum should never fall below its floor, got %v", m.Maximum())
	}
}

func TestStabilizeShrinksOptimumMonotonically(t *testing.T) {
	m := New()
	m.Start(Limits{Time: [2]time.Duration{60 * time.Second, 60 * time.Second}}, board.White, 0)
	base := m.Optimum()

	m.Stabilize(2)
	afterTwo := m.Optimum()
	m.Stabilize(6)
	afterSix := m.Optimum()

	if afterTwo >= base {
		t.Errorf("two stable depths should shrink the optimum below %v, got %v", base, afterTwo)
	}
	if afterSix >= afterTwo {
		t.Errorf("six stable depths should shrink further than two, %v vs %v", afterSix, afterTwo)
	}
}

func TestShouldStopAndPastOptimumRespectElapsed(t *testing.T) {
	m := New()
	m.Start(Limits{MoveTime: 10 * time.Millisecond}, board.White, 0)

	if m.ShouldStop() {
		t.Error("should not report stop immediately after Start")
	}
	time.Sleep(20 * time.Millisecond)
	if !m.ShouldStop() {
		t.Error("expected ShouldStop to report true once the maximum budget elapsed")
	}
	if !m.PastOptimum() {
		t.Error("expected PastOptimum to report true once the optimum budget elapsed")
	}
}
