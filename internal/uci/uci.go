// Package uci implements a Universal Chess Interface protocol loop over
// stdin/stdout, driving a manager.Manager search against a board.Position.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/chessplay/core/internal/board"
	"github.com/chessplay/core/internal/manager"
	"github.com/chessplay/core/internal/search"
	"github.com/chessplay/core/internal/timeman"
)

const (
	defaultHashMB   = 64
	minHashMB       = 1
	maxHashMB       = 4096
	defaultWorkers  = 1
	maxWorkers      = 256
	defaultMoveOver = 50 * time.Millisecond
)

// Engine is the UCI protocol handler. It owns the current game position and
// forwards "go"/"stop" commands to a manager.Manager.
type Engine struct {
	out io.Writer
	log logr.Logger

	mgr *manager.Manager

	position       *board.Position
	positionHashes []uint64

	hashMB       int
	workers      int
	moveOverhead time.Duration
	ownBook      bool
	ponder       bool

	searching  bool
	stopSearch func()
	searchDone chan struct{}
}

// New creates an Engine writing UCI output to out.
func New(out io.Writer, log logr.Logger) *Engine {
	e := &Engine{
		out:          out,
		log:          log,
		hashMB:       defaultHashMB,
		workers:      defaultWorkers,
		moveOverhead: defaultMoveOver,
		position:     board.NewPosition(),
	}
	e.mgr = manager.New(e.hashMB, e.workers, log)
	return e
}

// Run reads UCI commands from in until EOF or "quit".
func (e *Engine) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			e.handleUCI()
		case "isready":
			fmt.Fprintln(e.out, "readyok")
		case "ucinewgame":
			e.handleNewGame()
		case "position":
			e.handlePosition(args)
		case "go":
			e.handleGo(args)
		case "stop":
			e.handleStop()
		case "quit":
			e.handleStop()
			return
		case "setoption":
			e.handleSetOption(args)
		case "d":
			fmt.Fprintln(e.out, e.position.String())
		}
	}
}

func (e *Engine) handleUCI() {
	fmt.Fprintln(e.out, "id name chessplay-core")
	fmt.Fprintln(e.out, "id author chessplay-core contributors")
	fmt.Fprintln(e.out)
	fmt.Fprintf(e.out, "option name Hash type spin default %d min %d max %d\n", defaultHashMB, minHashMB, maxHashMB)
	fmt.Fprintf(e.out, "option name Threads type spin default %d min 1 max %d\n", defaultWorkers, maxWorkers)
	fmt.Fprintln(e.out, "option name Move Overhead type spin default 50 min 0 max 5000")
	fmt.Fprintln(e.out, "option name OwnBook type check default false")
	fmt.Fprintln(e.out, "option name Ponder type check default false")
	fmt.Fprintln(e.out, "uciok")
}

func (e *Engine) handleNewGame() {
	e.mgr.Clear()
	e.position = board.NewPosition()
	e.positionHashes = []uint64{e.position.Hash}
}

// handlePosition parses "position startpos|fen <fen> [moves ...]".
func (e *Engine) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int
	switch args[0] {
	case "startpos":
		e.position = board.NewPosition()
		moveStart = findMoves(args, 1)
	case "fen":
		fenEnd := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				fenEnd = i
				break
			}
		}
		pos, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			fmt.Fprintf(e.out, "info string invalid fen: %v\n", err)
			return
		}
		e.position = pos
		moveStart = findMoves(args, fenEnd)
	default:
		return
	}

	e.positionHashes = []uint64{e.position.Hash}
	for _, moveStr := range args[moveStart:] {
		move := e.parseMove(moveStr)
		if move == board.NoMove {
			e.log.Info("ignoring unparseable move in position command", "move", moveStr)
			return
		}
		e.position.MakeMove(move)
		e.position.UpdateCheckers()
		e.positionHashes = append(e.positionHashes, e.position.Hash)
	}
}

func findMoves(args []string, from int) int {
	for i := from; i < len(args); i++ {
		if args[i] == "moves" {
			return i + 1
		}
	}
	return len(args)
}

func (e *Engine) parseMove(s string) board.Move {
	if len(s) < 4 {
		return board.NoMove
	}
	from, err1 := board.ParseSquare(s[0:2])
	to, err2 := board.ParseSquare(s[2:4])
	if err1 != nil || err2 != nil {
		return board.NoMove
	}

	var promo board.PieceType
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		}
	}

	moves := e.position.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if promo != 0 {
			if m.IsPromotion() && m.PromotionPiece() == promo {
				return m
			}
			continue
		}
		if !m.IsPromotion() {
			return m
		}
	}
	return board.NoMove
}

// goOptions holds the parsed "go" command arguments.
type goOptions struct {
	limits timeman.Limits
}

func (e *Engine) parseGo(args []string) goOptions {
	var o goOptions
	for i := 0; i < len(args); i++ {
		next := func() string {
			if i+1 < len(args) {
				i++
				return args[i]
			}
			return ""
		}
		switch args[i] {
		case "depth":
			o.limits.Depth, _ = strconv.Atoi(next())
		case "nodes":
			n, _ := strconv.ParseUint(next(), 10, 64)
			o.limits.Nodes = n
		case "movetime":
			ms, _ := strconv.Atoi(next())
			o.limits.MoveTime = time.Duration(ms) * time.Millisecond
		case "infinite":
			o.limits.Infinite = true
		case "wtime":
			ms, _ := strconv.Atoi(next())
			o.limits.Time[board.White] = time.Duration(ms) * time.Millisecond
		case "btime":
			ms, _ := strconv.Atoi(next())
			o.limits.Time[board.Black] = time.Duration(ms) * time.Millisecond
		case "winc":
			ms, _ := strconv.Atoi(next())
			o.limits.Inc[board.White] = time.Duration(ms) * time.Millisecond
		case "binc":
			ms, _ := strconv.Atoi(next())
			o.limits.Inc[board.Black] = time.Duration(ms) * time.Millisecond
		case "movestogo":
			o.limits.MovesToGo, _ = strconv.Atoi(next())
		}
	}
	return o
}

// handleGo starts a search in a goroutine and returns immediately; the
// result is printed as "bestmove" once the search completes or is stopped.
func (e *Engine) handleGo(args []string) {
	if e.searching {
		return
	}
	opts := e.parseGo(args)

	pos := e.position.Copy()
	ctx, cancel := context.WithCancel(context.Background())
	e.stopSearch = cancel
	e.searching = true
	e.searchDone = make(chan struct{})

	onIter := func(it search.Iteration) {
		e.sendInfo(it)
	}

	go func() {
		defer close(e.searchDone)
		result := e.mgr.Search(ctx, pos, opts.limits, onIter)
		e.searching = false

		move := result.Move
		if move == board.NoMove {
			legal := e.position.Copy().GenerateLegalMoves()
			if legal.Len() > 0 {
				move = legal.Get(0)
			}
		}
		if move == board.NoMove {
			fmt.Fprintln(e.out, "bestmove 0000")
			return
		}
		fmt.Fprintf(e.out, "bestmove %s\n", move.String())
	}()
}

func (e *Engine) handleStop() {
	if !e.searching || e.stopSearch == nil {
		return
	}
	e.stopSearch()
	<-e.searchDone
}

func (e *Engine) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false
	for _, a := range args {
		switch a {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				name = appendWord(name, a)
			} else if readingValue {
				value = appendWord(value, a)
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err == nil && mb >= minHashMB && mb <= maxHashMB {
			e.hashMB = mb
			e.mgr.Resize(mb)
		}
	case "threads":
		n, err := strconv.Atoi(value)
		if err == nil && n >= 1 && n <= maxWorkers {
			e.workers = n
			e.mgr.SetWorkers(n)
		}
	case "move overhead":
		ms, err := strconv.Atoi(value)
		if err == nil && ms >= 0 {
			e.moveOverhead = time.Duration(ms) * time.Millisecond
		}
	case "ownbook":
		e.ownBook = strings.EqualFold(value, "true")
	case "ponder":
		e.ponder = strings.EqualFold(value, "true")
	}
}

func appendWord(s, word string) string {
	if s == "" {
		return word
	}
	return s + " " + word
}

// sendInfo writes one UCI "info" line for a completed iteration. The PV is
// re-validated against the root position before printing: a corrupted or
// stale PV must never reach the GUI as a legal-looking move sequence.
func (e *Engine) sendInfo(it search.Iteration) {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d", it.Depth))

	switch {
	case it.Score > search.MateScore-search.MaxPly:
		mateIn := (search.MateScore - it.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	case it.Score < -search.MateScore+search.MaxPly:
		mateIn := -(search.MateScore + it.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", it.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", it.Nodes))
	parts = append(parts, fmt.Sprintf("hashfull %d", e.mgr.HashFull()))

	if len(it.PV) > 0 {
		pv := make([]string, 0, len(it.PV))
		test := e.position.Copy()
		for _, move := range it.PV {
			legal := test.GenerateLegalMoves()
			found := false
			for i := 0; i < legal.Len(); i++ {
				if legal.Get(i) == move {
					found = true
					break
				}
			}
			if !found {
				break
			}
			pv = append(pv, move.String())
			test.MakeMove(move)
		}
		if len(pv) > 0 {
			parts = append(parts, "pv "+strings.Join(pv, " "))
		}
	}

	fmt.Fprintf(e.out, "info %s\n", strings.Join(parts, " "))
	fmt.Fprintf(e.out, "info string nodes searched: %s\n", humanize.Comma(int64(it.Nodes)))
}
