package board

import "testing"

// play makes a UCI-notation move against pos, failing the test if it is
// unparseable or illegal (no legality check beyond what MakeMove assumes).
func play(t *testing.T, pos *Position, uci string) {
	t.Helper()
	m, err := ParseMove(uci, pos)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", uci, err)
	}
	pos.MakeMove(m)
}

// TestThreefoldRepetitionRequiresThreeOccurrences plays the knight
// shuffle g1f3 g8f6 f3g1 f6g8 twice from the start position: the first
// cycle returns to the starting position after 4 plies (2 occurrences
// total, not a draw yet), the second cycle returns to it again after 8
// plies (3 occurrences total, a draw).
func TestThreefoldRepetitionRequiresThreeOccurrences(t *testing.T) {
	pos := NewPosition()

	play(t, pos, "g1f3")
	play(t, pos, "g8f6")
	play(t, pos, "f3g1")
	play(t, pos, "f6g8")

	if pos.IsThreefoldRepetition() {
		t.Fatal("starting position has recurred only twice after 4 plies, not a draw yet")
	}

	play(t, pos, "g1f3")
	play(t, pos, "g8f6")
	play(t, pos, "f3g1")
	play(t, pos, "f6g8")

	if !pos.IsThreefoldRepetition() {
		t.Fatal("starting position has recurred 3 times after 8 plies, expected a draw")
	}
	if !pos.IsGameDrawn() {
		t.Error("IsGameDrawn should report the threefold repetition too")
	}
}

// TestNoRepetitionAfterIrreversibleMove makes sure an irreversible move
// (a pawn push) resets the repetition window, so positions before it never
// count toward a later repetition.
func TestNoRepetitionAfterIrreversibleMove(t *testing.T) {
	pos := NewPosition()

	play(t, pos, "g1f3")
	play(t, pos, "g8f6")
	play(t, pos, "e2e4") // irreversible: resets IrreversibleIndex
	play(t, pos, "f6g8")
	play(t, pos, "f3g1")
	play(t, pos, "g8f6")
	play(t, pos, "g1f3")
	play(t, pos, "f6g8")

	if pos.IsThreefoldRepetition() {
		t.Error("the pawn push should have reset the repetition window, so this position has not recurred 3 times since")
	}
}
