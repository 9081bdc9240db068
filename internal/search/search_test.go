package search

import (
	"sync/atomic"
	"testing"

	"github.com/chessplay/core/internal/board"
	"github.com/chessplay/core/internal/tt"
)

func newSearcher() (*Searcher, *atomic.Bool) {
	var stop atomic.Bool
	return NewSearcher(tt.New(1), &stop), &stop
}

func TestSearchDepthFindsMateInOne(t *testing.T) {
	// White to move: Qd1-d8 is a back-rank mate, black's own pawns on
	// f7/g7/h7 block every escape square.
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/3Q2K1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	s, _ := newSearcher()

	move, score, completed := s.SearchDepth(pos, 3, -Infinity, Infinity)
	if !completed {
		t.Fatal("search should complete without a stop request")
	}
	if score < MateScore-10 {
		t.Errorf("expected a mate score, got %d (move %v)", score, move)
	}
}

func TestSearchDepthStopDiscardsPartialResult(t *testing.T) {
	pos := board.NewPosition()
	var stop atomic.Bool
	s := NewSearcher(tt.New(1), &stop)

	stop.Store(true)
	move, score, completed := s.SearchDepth(pos, 6, -Infinity, Infinity)
	if completed {
		t.Fatal("expected completed=false when stopFlag is already set")
	}
	if move != board.NoMove || score != 0 {
		t.Errorf("a non-completed result must be the zero value, got move=%v score=%d", move, score)
	}
}

func TestSearchSymmetric(t *testing.T) {
	pos, err := board.ParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/2N5/PPPP1PPP/R1BQKBNR w KQkq - 4 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	mirrored, err := board.ParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/2N5/PPPP1PPP/R1BQKBNR b KQkq - 4 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	s1, _ := newSearcher()
	_, score1, _ := s1.SearchDepth(pos, 3, -Infinity, Infinity)

	s2, _ := newSearcher()
	_, score2, _ := s2.SearchDepth(mirrored, 3, -Infinity, Infinity)

	if score1 != score2 {
		t.Errorf("symmetric position should score the same for either side to move: %d != %d", score1, score2)
	}
}

func TestSearchStartingPositionIsRoughlyEqual(t *testing.T) {
	pos := board.NewPosition()
	s, _ := newSearcher()

	_, score, completed := s.SearchDepth(pos, 4, -Infinity, Infinity)
	if !completed {
		t.Fatal("expected search to complete")
	}
	if score < -150 || score > 150 {
		t.Errorf("starting position score %d is implausibly unbalanced", score)
	}
}

func TestSearchDepthRespectsNodeLimit(t *testing.T) {
	pos := board.NewPosition()
	s, _ := newSearcher()
	s.SetNodeLimit(100)

	_, _, completed := s.SearchDepth(pos, 10, -Infinity, Infinity)
	if completed {
		t.Fatal("expected the node limit to force an incomplete result at depth 10 from the starting position")
	}
	if s.Nodes() < 100 {
		t.Errorf("expected the search to run at least up to the node limit before stopping, got %d nodes", s.Nodes())
	}
}

func TestQuiescenceDoesNotMissHangingQueen(t *testing.T) {
	// Black queen on e5 hangs to the white queen on e1; quiescence should
	// find that capture and return a decisively positive score for white.
	pos, err := board.ParseFEN("4k3/8/8/4q3/8/8/8/4QK2 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	s, _ := newSearcher()
	s.pos = pos
	score := s.quiescence(0, -Infinity, Infinity)
	if score < 800 {
		t.Errorf("expected quiescence to find the queen trade, got score %d", score)
	}
}
