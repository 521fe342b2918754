package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"

	"github.com/lintang-b-s/Deliverx/pkg/logger"
	"github.com/lintang-b-s/Deliverx/pkg/simulation"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"go.uber.org/zap"
)

var (
	n        = flag.Int("n", 2, "number of cars")
	k        = flag.Int("k", 4, "number of packages")
	m        = flag.Int("m", 12, "number of vertices")
	numSims  = flag.Int("num_sims", 100, "number of random problems, seeded 0..num_sims-1")
	parallel = flag.Int("parallel", runtime.NumCPU(), "problems solved at the same time")
	output   = flag.String("output", "", "report file (default <strategy>_<heuristic>_n<n>_k<k>_m<m>.json)")

	strategy      = flag.String("strategy", "", "astar, bounded-astar or local-beam (default SEARCH_STRATEGY)")
	heuristicName = flag.String("heuristic", "", "zero, undelivered-count, sum-distance or scaled-progress (default SEARCH_HEURISTIC)")
	bound         = flag.Float64("bound", -1, "bounded A* bound (default SEARCH_BOUND)")
	kLimit        = flag.Int("k_limit", -1, "local beam width minus one (default SEARCH_K_LIMIT)")
	maxExpansions = flag.Int("max_expansions", -1, "per problem expansion budget, 0 for no limit")
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
	// problems already run in parallel
	params.Workers = 1

	report, err := simulation.Run(context.Background(), simulation.Config{
		N:        *n,
		K:        *k,
		M:        *m,
		NumSims:  *numSims,
		Parallel: *parallel,
		Params:   params,
	}, logger)
	if err != nil {
		logger.Fatal("simulation", zap.Error(err))
	}

	path := *output
	if path == "" {
		path = fmt.Sprintf("%s_%s_n%d_k%d_m%d.json", report.Algorithm, report.Heuristic, *n, *k, *m)
	}
	if err := report.WriteJSON(path); err != nil {
		logger.Fatal("write report", zap.Error(err))
	}
	logger.Info("report written",
		zap.String("path", path),
		zap.Int("solved", report.Solved()),
		zap.Float64("mean_cost", report.MeanCost()))
}
