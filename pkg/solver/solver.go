// Package solver is the entry point used by the CLI, the simulator and the HTTP API:
// it turns a problem and search parameters into per-vehicle routes.
package solver

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/Deliverx/pkg"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/engine"
	"github.com/lintang-b-s/Deliverx/pkg/heuristic"
	"github.com/lintang-b-s/Deliverx/pkg/instance"
	"github.com/lintang-b-s/Deliverx/pkg/metrics"
	"github.com/lintang-b-s/Deliverx/pkg/state"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"github.com/lintang-b-s/Deliverx/pkg/world"
	"go.uber.org/zap"
)

// Params selects and tunes the search.
type Params struct {
	Heuristic     string        `json:"heuristic" yaml:"heuristic"`
	Strategy      string        `json:"strategy" yaml:"strategy"`
	Bound         float64       `json:"bound" yaml:"bound"`
	KLimit        int           `json:"k_limit" yaml:"k_limit"`
	MaxExpansions int           `json:"max_expansions" yaml:"max_expansions"`
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`
	Workers       int           `json:"workers" yaml:"workers"`
}

func ParamsFromConfig(cfg util.SearchConfig) Params {
	return Params{
		Heuristic:     cfg.Heuristic,
		Strategy:      cfg.Strategy,
		Bound:         cfg.Bound,
		KLimit:        cfg.KLimit,
		MaxExpansions: cfg.MaxExpansions,
		Timeout:       cfg.Timeout,
		Workers:       cfg.Workers,
	}
}

type Request struct {
	N, K, M int
	Graph   *da.Graph
	Pairs   []world.Pair
	Garage  da.Index
	Params
}

type Response struct {
	SolutionPaths        [][]da.Index  `json:"solution_paths"`
	TotalCost            float64       `json:"total_cost"`
	NodesExpanded        int           `json:"nodes_expanded"`
	NodesGenerated       int           `json:"nodes_generated"`
	Elapsed              time.Duration `json:"elapsed"`
	PreprocessingTime    time.Duration `json:"preprocessing_time"`
	Strategy             string        `json:"strategy"`
	Heuristic            string        `json:"heuristic"`
	Bound                float64       `json:"bound"`
	KLimit               int           `json:"k_limit"`
	OptimalityGuaranteed bool          `json:"optimality_guaranteed"`
}

type Solver struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{logger: logger}
}

// Run solves req once with a throwaway Solver. A nil logger discards output.
func Run(ctx context.Context, req Request, logger *zap.Logger) (*Response, error) {
	return New(logger).Run(ctx, req)
}

// Run builds the world for req, runs the requested search and reconstructs the routes.
// Errors carry util.ErrInvalidProblem, util.ErrBadParamInput, util.ErrNoSolution or
// util.ErrSearchAborted.
func (s *Solver) Run(ctx context.Context, req Request) (*Response, error) {
	responses, err := s.Solutions(ctx, req, 1)
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

// Solutions runs the search count times on one preprocessed world. The search is
// deterministic, so every response describes the same routes; repeated runs are used
// for timing.
func (s *Solver) Solutions(ctx context.Context, req Request, count int) ([]*Response, error) {
	if count < 1 {
		return nil, util.WrapErrorf(nil, util.ErrInvalidProblem, "number of solutions must be at least 1, got %d", count)
	}

	h, strategy, err := parseParams(req.Params)
	if err != nil {
		return nil, err
	}

	w, err := world.NewWorld(req.N, req.K, req.M, req.Graph, req.Pairs,
		world.WithGarage(req.Garage),
		world.WithWorkers(max(1, req.Workers)),
		world.WithLogger(s.logger))
	if err != nil {
		metrics.ObserveSearch(strategy.Kind().String(), metrics.OUTCOME_INVALID, 0, 0)
		return nil, err
	}

	start := time.Now()
	w.Process()
	preprocessing := time.Since(start)

	e := engine.NewEngine(w, h, strategy, s.logger,
		engine.WithMaxExpansions(req.MaxExpansions),
		engine.WithTimeout(req.Timeout),
		engine.WithWorkers(max(1, req.Workers)))

	responses := make([]*Response, 0, count)
	for i := 0; i < count; i++ {
		res, err := e.Search(ctx, state.New(w))
		observe(strategy.Kind(), res, err)
		if err != nil {
			return nil, err
		}

		responses = append(responses, &Response{
			SolutionPaths:        engine.ReconstructPaths(w, res.Solution),
			TotalCost:            res.Solution.G(),
			NodesExpanded:        res.NodesExpanded,
			NodesGenerated:       res.NodesGenerated,
			Elapsed:              res.Elapsed,
			PreprocessingTime:    preprocessing,
			Strategy:             res.Strategy.String(),
			Heuristic:            res.Heuristic,
			Bound:                res.Bound,
			KLimit:               res.KLimit,
			OptimalityGuaranteed: res.OptimalityGuaranteed,
		})
	}
	return responses, nil
}

// RunProblem solves a problem loaded from a file, a fixture or the API.
func (s *Solver) RunProblem(ctx context.Context, p *instance.Problem, params Params) (*Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g, err := p.Graph()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInvalidProblem, "problem %q", p.Name)
	}
	return s.Run(ctx, Request{
		N:      p.N,
		K:      p.K,
		M:      p.M,
		Graph:  g,
		Pairs:  p.WorldPairs(),
		Garage: da.Index(p.Garage),
		Params: params,
	})
}

func parseParams(params Params) (heuristic.Heuristic, engine.Strategy, error) {
	name := params.Heuristic
	if name == "" {
		name = heuristic.SUM_DISTANCE
	}
	h, err := heuristic.Parse(name)
	if err != nil {
		return nil, nil, err
	}

	kind := pkg.ASTAR
	if params.Strategy != "" {
		var ok bool
		kind, ok = pkg.GetStrategyKind(params.Strategy)
		if !ok {
			return nil, nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown strategy %q", params.Strategy)
		}
	}
	if params.KLimit < 0 {
		return nil, nil, util.WrapErrorf(nil, util.ErrBadParamInput, "k_limit must be >= 0, got %d", params.KLimit)
	}
	if params.MaxExpansions < 0 || params.Timeout < 0 {
		return nil, nil, util.WrapErrorf(nil, util.ErrBadParamInput, "search budget must not be negative")
	}
	return h, engine.NewStrategy(kind, params.Bound, params.KLimit), nil
}

func observe(kind pkg.StrategyKind, res *engine.Result, err error) {
	outcome := metrics.OUTCOME_SOLVED
	switch {
	case err == nil:
	case errors.Is(err, util.ErrNoSolution):
		outcome = metrics.OUTCOME_NO_SOLUTION
	case errors.Is(err, util.ErrSearchAborted):
		outcome = metrics.OUTCOME_ABORTED
	default:
		outcome = metrics.OUTCOME_ERROR
	}
	expanded, elapsed := 0, time.Duration(0)
	if res != nil {
		expanded, elapsed = res.NodesExpanded, res.Elapsed
	}
	metrics.ObserveSearch(kind.String(), outcome, expanded, elapsed)
}
