// Command scopebench measures the cost of installing and reading slots.
package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/term"
)

func main() {
	var opts options

	flag.IntVar(&opts.Iterations, "n", 1_000_000, "iterations per workload")
	flag.IntVar(&opts.Depth, "depth", 4, "nesting depth of the nested workload")
	flag.IntVar(&opts.Goroutines, "goroutines", runtime.GOMAXPROCS(0), "goroutines running each workload in parallel")
	flag.StringVar(&opts.Profile, "profile", "none", "profile to record: none, cpu, mem, block or mutex")
	flag.Parse()

	pretty := term.IsTerminal(int(os.Stdout.Fd()))

	if err := run(opts, os.Stdout, pretty); err != nil {
		slog.Error("Benchmark failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
