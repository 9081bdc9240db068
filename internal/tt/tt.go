// Package tt implements the engine's shared transposition table: a
// direct-mapped hash table of search results, safe for concurrent probe
// and store from multiple lazy-SMP workers without a mutex.
package tt

import (
	"sync/atomic"

	"github.com/chessplay/core/internal/board"
)

// MateScore and MaxPly bound the window within which a stored score is
// assumed to be a mate score and needs ply-distance normalization.
const (
	MateScore = 29000
	MaxPly    = 128
)

// Bound indicates which side of the search window a stored score bounds.
type Bound uint8

const (
	Exact      Bound = iota // Exact score
	LowerBound              // Failed high (beta cutoff)
	UpperBound              // Failed low
)

// Entry is the logical content of one transposition table slot.
type Entry struct {
	Key      uint64
	BestMove board.Move
	Score    int16
	Depth    int8
	Bound    Bound
	Age      uint8
}

// packedEntry is the on-the-wire encoding of Entry's non-key fields, kept
// to 64 bits so key and data can each be stored and loaded with a single
// atomic word.
type packedEntry uint64

// Bit layout of the 64-bit data word: move uses 29 bits (board.Move's
// highest defined bit is FlagCapture at bit 28), leaving room for score,
// depth, bound and a full 8-bit age without a third atomic word.
const (
	packMoveBits  = 29
	packMoveMask  = 1<<packMoveBits - 1
	packScoreShift = packMoveBits
	packDepthShift = packScoreShift + 16
	packBoundShift = packDepthShift + 7
	packAgeShift   = packBoundShift + 2
)

func pack(e Entry) packedEntry {
	return packedEntry(uint32(e.BestMove)&packMoveMask) |
		packedEntry(uint16(e.Score))<<packScoreShift |
		packedEntry(uint8(e.Depth)&0x7F)<<packDepthShift |
		packedEntry(e.Bound&0x3)<<packBoundShift |
		packedEntry(e.Age)<<packAgeShift
}

func unpack(data packedEntry, key uint64) Entry {
	return Entry{
		Key:      key,
		BestMove: board.Move(uint32(data) & packMoveMask),
		Score:    int16(uint16(data >> packScoreShift)),
		Depth:    int8(uint8(data>>packDepthShift) & 0x7F),
		Bound:    Bound((data >> packBoundShift) & 0x3),
		Age:      uint8(data >> packAgeShift),
	}
}

// slot holds one table entry using Hyatt's lockless-hashing trick: key is
// stored XORed with data, so a torn read (one goroutine's store landing
// between another's two word reads) is always detectable, because the
// recombined key will not match. No reader ever blocks on a writer.
type slot struct {
	keyXorData atomic.Uint64
	data       atomic.Uint64
}

// Table is a transposition table shared across search workers.
type Table struct {
	slots []slot
	mask  uint64
	age   atomic.Uint32
}

const approxEntrySize = 16 // bytes per slot (two uint64 words)

// New creates a transposition table sized to approximately sizeMB
// megabytes, rounded down to a power of two entry count.
func New(sizeMB int) *Table {
	numEntries := uint64(sizeMB) * 1024 * 1024 / approxEntrySize
	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1
	}
	return &Table{
		slots: make([]slot, numEntries),
		mask:  numEntries - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up hash in the table. The second return is false on a miss
// or on a detected torn read.
func (t *Table) Probe(hash uint64) (Entry, bool) {
	s := &t.slots[hash&t.mask]
	kx := s.keyXorData.Load()
	data := s.data.Load()
	key := kx ^ data
	if key != hash {
		return Entry{}, false
	}
	return unpack(packedEntry(data), hash), true
}

// Store writes an entry, applying the age-aware replacement policy:
// replace an empty slot, a sufficiently stale entry, an entry at equal
// depth being superseded by an exact score, or any shallower entry.
func (t *Table) Store(hash uint64, depth int, score int, bound Bound, bestMove board.Move) {
	s := &t.slots[hash&t.mask]
	curAge := uint8(t.age.Load())

	kx := s.keyXorData.Load()
	data := s.data.Load()
	existingKey := kx ^ data
	existing := unpack(packedEntry(data), existingKey)
	isEmpty := data == 0 && kx == 0

	replace := isEmpty ||
		(curAge != existing.Age && curAge-existing.Age >= 2) ||
		(depth >= int(existing.Depth) && bound == Exact) ||
		depth > int(existing.Depth)

	if !replace {
		return
	}

	entry := Entry{
		Key:      hash,
		BestMove: bestMove,
		Score:    int16(score),
		Depth:    int8(depth),
		Bound:    bound,
		Age:      curAge,
	}
	packed := uint64(pack(entry))
	s.data.Store(packed)
	s.keyXorData.Store(hash ^ packed)
}

// NewSearch advances the age counter. Call once per root search so stale
// entries from prior searches become eligible for replacement.
func (t *Table) NewSearch() {
	t.age.Add(1)
}

// Clear wipes every slot and resets age.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i].keyXorData.Store(0)
		t.slots[i].data.Store(0)
	}
	t.age.Store(0)
}

// Size returns the number of slots in the table.
func (t *Table) Size() uint64 { return uint64(len(t.slots)) }

// HashFull returns the permille of a sample of the table that is occupied
// by the current search generation.
func (t *Table) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > t.Size() {
		sampleSize = int(t.Size())
	}
	curAge := uint8(t.age.Load())
	used := 0
	for i := 0; i < sampleSize; i++ {
		data := t.slots[i].data.Load()
		if data == 0 {
			continue
		}
		e := unpack(packedEntry(data), 0)
		if e.Age == curAge {
			used++
		}
	}
	if sampleSize == 0 {
		return 0
	}
	return (used * 1000) / sampleSize
}

// AdjustScoreFromTT converts a stored mate score back to root-relative
// distance when reading a TT entry at ply plies from the root.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT converts a root-relative mate score into the
// ply-independent form stored in the table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
