package board

import "testing"

func TestKnightAttacksCorner(t *testing.T) {
	got := KnightAttacks(A1)
	want := SquareBB(B3) | SquareBB(C2)
	if got != want {
		t.Errorf("KnightAttacks(A1) = %v, want %v", got, want)
	}
}

func TestKingAttacksCenter(t *testing.T) {
	got := KingAttacks(E4)
	if got.PopCount() != 8 {
		t.Errorf("KingAttacks(E4) has %d squares, want 8", got.PopCount())
	}
}

func TestBishopAttacksOpenBoard(t *testing.T) {
	got := BishopAttacks(D4, 0)
	if got.PopCount() != 13 {
		t.Errorf("BishopAttacks(D4, empty) has %d squares, want 13", got.PopCount())
	}
}

func TestRookAttacksOpenBoard(t *testing.T) {
	got := RookAttacks(D4, 0)
	if got.PopCount() != 14 {
		t.Errorf("RookAttacks(D4, empty) has %d squares, want 14", got.PopCount())
	}
}

func TestRookAttacksBlocked(t *testing.T) {
	occ := SquareBB(D6) | SquareBB(F4)
	got := RookAttacks(D4, occ)
	want := SquareBB(D5) | SquareBB(D6) |
		SquareBB(D3) | SquareBB(D2) | SquareBB(D1) |
		SquareBB(C4) | SquareBB(B4) | SquareBB(A4) |
		SquareBB(E4) | SquareBB(F4)
	if got != want {
		t.Errorf("RookAttacks(D4, blocked) = %v, want %v", got, want)
	}
}

func TestBetweenAndLine(t *testing.T) {
	if got, want := Between(A1, A4), SquareBB(A2)|SquareBB(A3); got != want {
		t.Errorf("Between(A1,A4) = %v, want %v", got, want)
	}
	if Between(A1, B3) != 0 {
		t.Error("A1 and B3 are not aligned, Between should be empty")
	}
	line := Line(A1, H8)
	for _, sq := range []Square{A1, B2, C3, D4, E5, F6, G7, H8} {
		if line&SquareBB(sq) == 0 {
			t.Errorf("Line(A1,H8) missing %v", sq)
		}
	}
}

func TestIsSquareAttacked(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/4r3/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.IsSquareAttacked(E1, Black) {
		t.Error("black rook on e5 should attack e1 along the e-file")
	}
	if pos.IsSquareAttacked(A1, Black) {
		t.Error("black rook on e5 should not attack a1")
	}
}
