// Package zobrist provides the process-wide random key tables used to
// incrementally hash a chess position. Keys are generated once, at
// package init, by hashing a monotonic counter through xxhash — a
// splittable, deterministic mixing function, so two runs of the engine
// always agree on the same keys.
package zobrist

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Seed fixes the table generation so that keys are reproducible across
// runs and across machines.
const Seed uint64 = 0x98F107A2BEEF1234

var (
	// Piece keys indexed [color][pieceType][square]. pieceType dimension
	// is sized 6 (Pawn..King); callers never index NoPieceType here.
	Piece      [2][6][64]uint64
	EnPassant  [8]uint64 // one key per file
	Castling   [16]uint64 // one key per castling-rights bitmask
	SideToMove uint64
)

func init() {
	var counter uint64
	next := func() uint64 {
		var buf [16]byte
		binary.LittleEndian.PutUint64(buf[0:8], Seed)
		binary.LittleEndian.PutUint64(buf[8:16], counter)
		counter++
		return xxhash.Sum64(buf[:])
	}

	for c := 0; c < 2; c++ {
		for pt := 0; pt < 6; pt++ {
			for sq := 0; sq < 64; sq++ {
				Piece[c][pt][sq] = next()
			}
		}
	}
	for file := 0; file < 8; file++ {
		EnPassant[file] = next()
	}
	for i := 0; i < 16; i++ {
		Castling[i] = next()
	}
	SideToMove = next()
}
