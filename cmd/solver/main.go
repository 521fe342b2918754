package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/lintang-b-s/Deliverx/pkg/instance"
	"github.com/lintang-b-s/Deliverx/pkg/logger"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"go.uber.org/zap"
)

var (
	problemFile = flag.String("problem", "", "problem file (.yaml, .yml or .json)")
	fixture     = flag.String("fixture", "", "built-in problem: triangle, ogg or circle")
	randomN     = flag.Int("n", 0, "cars of a random problem (used when no problem file or fixture is given)")
	randomK     = flag.Int("k", 3, "packages of a random problem")
	randomM     = flag.Int("m", 10, "vertices of a random problem")
	seed        = flag.Uint64("seed", 0, "seed of a random problem")

	strategy      = flag.String("strategy", "", "astar, bounded-astar or local-beam (default SEARCH_STRATEGY)")
	heuristicName = flag.String("heuristic", "", "zero, undelivered-count, sum-distance or scaled-progress (default SEARCH_HEURISTIC)")
	bound         = flag.Float64("bound", -1, "bounded A* bound, fraction in (0,1) or child count >= 1 (default SEARCH_BOUND)")
	kLimit        = flag.Int("k_limit", -1, "local beam width minus one (default SEARCH_K_LIMIT)")
	maxExpansions = flag.Int("max_expansions", -1, "abort after this many expansions, 0 for no limit")
	timeout       = flag.Duration("timeout", -1, "abort after this much time, 0 for no limit")
	workers       = flag.Int("workers", 0, "goroutines scoring children")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	problem, err := loadProblem()
	if err != nil {
		logger.Fatal("load problem", zap.Error(err))
	}

	params := solver.ParamsFromConfig(util.LoadSearchConfig())
	if *strategy != "" {
		params.Strategy = *strategy
	}
	if *heuristicName != "" {
		params.Heuristic = *heuristicName
	}
	if *bound >= 0 {
		params.Bound = *bound
	}
	if *kLimit >= 0 {
		params.KLimit = *kLimit
	}
	if *maxExpansions >= 0 {
		params.MaxExpansions = *maxExpansions
	}
	if *timeout >= 0 {
		params.Timeout = *timeout
	}
	if *workers > 0 {
		params.Workers = *workers
	}

	res, err := solver.New(logger).RunProblem(context.Background(), problem, params)
	if err != nil {
		logger.Fatal("solve", zap.String("problem", problem.Name), zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Fatal("write result", zap.Error(err))
	}
}

func loadProblem() (*instance.Problem, error) {
	switch {
	case *problemFile != "":
		return instance.LoadFile(*problemFile)
	case *fixture != "":
		return instance.Fixture(*fixture)
	case *randomN > 0:
		return instance.Random(*randomN, *randomK, *randomM, *seed)
	default:
		return nil, fmt.Errorf("one of -problem, -fixture or -n is required")
	}
}
