package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/chessplay/core/internal/elog"
	"github.com/chessplay/core/internal/uci"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()

	log := elog.Default("chessplay-core")

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Error(err, "could not create CPU profile")
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Error(err, "could not start CPU profile")
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
		log.Info("CPU profiling enabled", "path", profilePath)
	}

	engine := uci.New(os.Stdout, log)
	engine.Run(os.Stdin)
}
