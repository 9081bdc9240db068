package search

import "github.com/chessplay/core/internal/board"

// Move ordering priorities, highest first.
const (
	ttMoveScore    = 10000000
	goodCaptureBase = 1000000
	killerScore1   = 900000
	killerScore2   = 800000
)

// mvvLva gives MVV-LVA scores indexed [victim][attacker]; higher searches first.
var mvvLva = [6][6]int{
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// Orderer ranks moves for search: TT move first, then MVV-LVA captures,
// promotions, killer moves, and finally the history heuristic.
type Orderer struct {
	killers [MaxPly][2]board.Move
	history [64][64]int
}

// Clear resets killers and ages the history table for a new search.
func (o *Orderer) Clear() {
	for i := range o.killers {
		o.killers[i][0] = board.NoMove
		o.killers[i][1] = board.NoMove
	}
	for i := range o.history {
		for j := range o.history[i] {
			o.history[i][j] /= 2
		}
	}
}

// Score assigns an ordering score to every move in ml.
func (o *Orderer) Score(pos *board.Position, ml *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		scores[i] = o.scoreMove(ml.Get(i), ply, ttMove)
	}
	return scores
}

func (o *Orderer) scoreMove(m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return ttMoveScore
	}

	if m.IsCapture() {
		attacker := m.Piece()
		victim := m.Captured()
		if victim >= board.King || attacker > board.King {
			return goodCaptureBase
		}
		score := goodCaptureBase + mvvLva[victim][attacker]*1000
		if board.PieceValue[attacker] < board.PieceValue[victim] {
			score += 10000
		}
		return score
	}

	if m.IsPromotion() {
		return goodCaptureBase - 1000 + int(m.PromotionPiece())*100
	}

	if m == o.killers[ply][0] {
		return killerScore1
	}
	if m == o.killers[ply][1] {
		return killerScore2
	}

	return o.history[m.From()][m.To()]
}

// PickMove selects the best-scoring remaining move at index and swaps it
// into place, giving a lazy selection sort driven only as far as needed.
func PickMove(ml *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		ml.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a quiet beta-cutoff move at ply.
func (o *Orderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || o.killers[ply][0] == m {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = m
}

const historyCap = 400000

// UpdateHistory adjusts the history score for a quiet move by depth^2,
// rescaling the whole table if the bonus would overflow the cap.
func (o *Orderer) UpdateHistory(m board.Move, depth int, good bool) {
	from, to := m.From(), m.To()
	bonus := depth * depth
	if good {
		o.history[from][to] += bonus
		if o.history[from][to] > historyCap {
			for i := range o.history {
				for j := range o.history[i] {
					o.history[i][j] /= 2
				}
			}
		}
	} else {
		o.history[from][to] -= bonus
		if o.history[from][to] < -historyCap {
			o.history[from][to] = -historyCap
		}
	}
}
