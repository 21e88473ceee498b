// Command router runs the employee transportation optimiser: construct
// an initial solution with the Solomon I1 heuristic, then improve it
// with ALNS, and write the result document.
//
// Usage: router <input.json> [<output.json>] [--debug] [--config=path] [--seed=n]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shuttlefleet/routeopt/internal/alns"
	"github.com/shuttlefleet/routeopt/internal/config"
	"github.com/shuttlefleet/routeopt/internal/construct"
	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/ingest"
	"github.com/shuttlefleet/routeopt/internal/logging"
	"github.com/shuttlefleet/routeopt/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run contains the CLI's entire logic so main stays a thin os.Exit
// wrapper testable without process-level side effects.
func run(args []string) int {
	// Captured once at process start, never inside the solver, so a
	// run's randomness is reproducible end to end unless overridden.
	startSeed := time.Now().UnixNano()

	fs := flag.NewFlagSet("router", flag.ContinueOnError)
	debug := fs.Bool("debug", false, "enable debug logging and JSON log output")
	configPath := fs.String("config", "", "optional solver configuration file")
	seed := fs.Int64("seed", startSeed, "random seed (default: current time)")
	// The flag package stops at the first non-flag argument, so parsing
	// resumes after each positional one: flags may come before or after.
	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return 1
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	if len(positional) < 1 || len(positional) > 2 {
		fmt.Fprintln(os.Stderr, "usage: router <input.json> [<output.json>] [--debug] [--config=path] [--seed=n]")
		return 1
	}
	inputPath := positional[0]
	outputPath := ""
	if len(positional) == 2 {
		outputPath = positional[1]
	}

	logCfg := logging.DefaultConfig()
	if *debug {
		logCfg = logging.DebugConfig()
	}
	logger := logging.New(logCfg)

	inFile, err := os.Open(inputPath)
	if err != nil {
		logger.Error("cannot open input", "path", inputPath, "error", err)
		return 1
	}
	defer inFile.Close()

	doc, err := ingest.Parse(inFile)
	if err != nil {
		logger.Error("cannot parse input", "path", inputPath, "error", err)
		return 1
	}

	sol, err := doc.ToSolution()
	if err != nil {
		logger.Error("cannot convert input to solution", "path", inputPath, "error", err)
		return 1
	}

	solverCfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("cannot load solver configuration", "error", err)
		return 1
	}

	// CLI flag beats config file/env, which beats the time-based
	// default; an explicit "--seed" always wins.
	seedExplicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedExplicit = true
		}
	})
	switch {
	case seedExplicit:
		solverCfg.Seed = *seed
	case solverCfg.Seed == 0:
		solverCfg.Seed = *seed
	}

	g := geo.NewService()

	logger.Info("constructing initial solution", "employees", len(sol.Employees), "vehicles", len(sol.Vehicles))
	construct.Build(sol, g, solverCfg.InsertionParams())
	logger.Debug("construction complete", "routed", len(sol.RoutedEmployeeIDs()), "unrouted", sol.UnroutedCount())

	logger.Info("improving with ALNS", "iterations", solverCfg.Iterations)
	result := alns.Run(sol, g, solverCfg.ALNSConfig(), solverCfg.Seed)
	logger.Info("ALNS finished", "state", result.State, "iterations", result.Iterations, "score", result.BestScore)

	out := report.BuildOutput(result.Best, doc.Raw())

	outWriter := os.Stdout
	var outFile *os.File
	if outputPath != "" {
		outFile, err = os.Create(outputPath)
		if err != nil {
			logger.Error("cannot create output", "path", outputPath, "error", err)
			return 1
		}
		defer outFile.Close()
		outWriter = outFile
	}

	if err := report.WriteJSON(outWriter, out); err != nil {
		logger.Error("cannot write output", "path", outputPath, "error", err)
		return 1
	}
	if *debug {
		_ = report.WriteText(os.Stderr, out)
	}

	return 0
}
