// Package elog provides the engine's structured logger. It is called at
// process boundaries only — CPU-profiling setup in main and unparseable
// moves in the UCI "position" command — and never from the search hot path.
// The search manager holds a logger but logs nothing, and the transposition
// table does not log torn reads; it reports them to the caller as misses.
package elog

import (
	"io"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// Verbosity levels, lowest first. logr treats higher V(n) as more verbose;
// a sink configured at VInfo drops VDebug calls.
const (
	VInfo = iota
	VDebug
)

// New returns a stdr-backed logger writing to w, named name.
func New(w io.Writer, name string) logr.Logger {
	stdr.SetVerbosity(VDebug)
	std := log.New(w, "", log.LstdFlags|log.Lmicroseconds)
	return stdr.NewWithOptions(std, stdr.Options{LogCaller: stdr.Error}).WithName(name)
}

// Default returns a logger writing to stderr, which is always safe for a
// UCI engine since stdout is reserved for the protocol stream.
func Default(name string) logr.Logger {
	return New(os.Stderr, name)
}
