package eval

import (
	"testing"

	"github.com/chessplay/core/internal/board"
)

func TestEvaluateStartingPositionIsTempoOnly(t *testing.T) {
	pos := board.NewPosition()
	score := Evaluate(pos)
	if score < 0 || score > tempoBonus {
		t.Errorf("starting position score = %d, want within [0, %d] (tempo only, material/PST symmetric)", score, tempoBonus)
	}
}

func TestEvaluateIsSideToMoveRelative(t *testing.T) {
	white, err := board.ParseFEN("4k3/8/8/8/8/8/8/4KQ2 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	black, err := board.ParseFEN("4k3/8/8/8/8/8/8/4KQ2 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	whiteScore := Evaluate(white)
	blackScore := Evaluate(black)

	if whiteScore <= 0 {
		t.Errorf("white to move with an extra queen should score positive, got %d", whiteScore)
	}
	if blackScore >= 0 {
		t.Errorf("black to move down a queen should score negative, got %d", blackScore)
	}
}

func TestBishopPairBonus(t *testing.T) {
	withPair, err := board.ParseFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	onlyOne, err := board.ParseFEN("4k3/8/8/8/8/8/8/3BK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	diff := Evaluate(withPair) - Evaluate(onlyOne)
	// One extra bishop (330) plus the bishop-pair bonus (30) over the
	// single-bishop position, give or take piece-square table noise.
	if diff < BishopValue {
		t.Errorf("expected the two-bishop position to score at least a bishop higher, diff=%d", diff)
	}
}
