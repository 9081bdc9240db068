// Package search implements iterative-deepening negamax search with
// alpha-beta pruning, quiescence search, and an externally shared
// transposition table.
package search

import (
	"sync/atomic"

	"github.com/chessplay/core/internal/board"
	"github.com/chessplay/core/internal/eval"
	"github.com/chessplay/core/internal/tt"
)

// Search constants.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

const maxQuiescencePly = 32

// pvTable stores the principal variation discovered at each ply.
type pvTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs a single-threaded alpha-beta search against a shared
// transposition table. One Searcher exists per lazy-SMP worker.
type Searcher struct {
	pos     *board.Position
	table   *tt.Table
	orderer Orderer

	nodes     uint64
	nodeLimit uint64
	stopFlag  *atomic.Bool

	pv pvTable

	undoStack [MaxPly]board.UndoInfo
}

// NewSearcher creates a Searcher against the given shared table. stopFlag
// is checked periodically during search and is typically shared across
// all workers in a lazy-SMP pool so a single stop request reaches all of
// them.
func NewSearcher(table *tt.Table, stopFlag *atomic.Bool) *Searcher {
	return &Searcher{table: table, stopFlag: stopFlag}
}

// Reset prepares the searcher for a new root search.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.orderer.Clear()
}

// Nodes returns the number of nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 { return s.nodes }

// SetNodeLimit bounds the nodes this Searcher will visit before it forces
// its own stopFlag, ending the search early just as an external stop
// request would; 0 means unbounded.
func (s *Searcher) SetNodeLimit(n uint64) { s.nodeLimit = n }

// searchResult carries the outcome of one depth of negamax from the root,
// plus whether the search was interrupted before completing.
type searchResult struct {
	move      board.Move
	score     int
	completed bool
}

// SearchDepth runs negamax to the given depth from the given window and
// returns the best move, its score, and whether the iteration ran to
// completion (false if stopped early — callers must discard a partial
// result rather than trust it).
func (s *Searcher) SearchDepth(pos *board.Position, depth, alpha, beta int) (board.Move, int, bool) {
	s.pos = pos
	score := s.negamax(depth, 0, alpha, beta)

	if s.stopFlag.Load() {
		return board.NoMove, 0, false
	}

	var bestMove board.Move
	if s.pv.length[0] > 0 {
		bestMove = s.pv.moves[0][0]
	}
	return bestMove, score, true
}

// PV returns the principal variation from the most recently completed search.
func (s *Searcher) PV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	if s.nodes&2047 == 0 {
		if s.stopFlag.Load() {
			return 0
		}
		if s.nodeLimit != 0 && s.nodes >= s.nodeLimit {
			s.stopFlag.Store(true)
			return 0
		}
	}
	s.nodes++
	s.pv.length[ply] = ply

	if ply > 0 && (s.pos.IsFiftyMoveRule() || s.pos.IsThreefoldRepetition() || s.pos.IsInsufficientMaterial()) {
		return 0
	}

	var ttMove board.Move
	if entry, found := s.table.Probe(s.pos.Hash); found {
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth {
			score := tt.AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Bound {
			case tt.Exact:
				return score
			case tt.LowerBound:
				if score > alpha {
					alpha = score
				}
			case tt.UpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.pos.InCheck()
	moves := s.pos.GenerateLegalMoves()

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.Score(s.pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	bound := tt.UpperBound

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		s.undoStack[ply] = s.pos.MakeMove(move)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.pos.UnmakeMove(move, s.undoStack[ply])

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				bound = tt.Exact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.table.Store(s.pos.Hash, depth, tt.AdjustScoreToTT(score, ply), tt.LowerBound, bestMove)
			if move.IsQuiet() {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
			}
			return score
		}
	}

	s.table.Store(s.pos.Hash, depth, tt.AdjustScoreToTT(bestScore, ply), bound, bestMove)
	return bestScore
}

func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	if ply >= MaxPly || ply > maxQuiescencePly {
		return eval.Evaluate(s.pos)
	}
	if s.stopFlag.Load() {
		return 0
	}
	if s.nodeLimit != 0 && s.nodes >= s.nodeLimit {
		s.stopFlag.Store(true)
		return 0
	}
	s.nodes++

	standPat := eval.Evaluate(s.pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if standPat+eval.QueenValue < alpha {
		return alpha
	}

	moves := s.pos.GenerateCaptures()
	scores := s.orderer.Score(s.pos, moves, ply, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !s.pos.InCheck() {
			captureValue := eval.PieceValues[move.Captured()]
			if move.IsPromotion() {
				captureValue += eval.QueenValue - eval.PawnValue
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
		}

		undo := s.pos.MakeMove(move)
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
