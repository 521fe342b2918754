package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/Deliverx/pkg"
	"github.com/lintang-b-s/Deliverx/pkg/instance"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"go.uber.org/zap"
)

// SolveService answers solve requests. Searches are deterministic, so successful
// responses are cached by problem and parameters.
type SolveService struct {
	log      *zap.Logger
	solver   Solver
	cache    *lru.Cache[string, *solver.Response]
	defaults solver.Params
}

func NewSolveService(log *zap.Logger, s Solver, cacheSize int, defaults solver.Params) (*SolveService, error) {
	if cacheSize <= 0 {
		cacheSize = pkg.DEFAULT_SOLVE_CACHE_LEN
	}
	cache, err := lru.New[string, *solver.Response](cacheSize)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "solve cache")
	}
	return &SolveService{
		log:      log,
		solver:   s,
		cache:    cache,
		defaults: defaults,
	}, nil
}

// Solve returns the routes for p and whether they came from the cache. Unset fields
// of params take the configured defaults, and the configured search budget caps the
// requested one.
func (ss *SolveService) Solve(ctx context.Context, p *instance.Problem, params solver.Params) (*solver.Response, bool, error) {
	params = ss.withDefaults(params)

	key, err := cacheKey(p, params)
	if err != nil {
		return nil, false, err
	}
	if res, ok := ss.cache.Get(key); ok {
		ss.log.Debug("solve cache hit", zap.String("problem", p.Name))
		return res, true, nil
	}

	res, err := ss.solver.RunProblem(ctx, p, params)
	if err != nil {
		return nil, false, err
	}
	ss.cache.Add(key, res)
	return res, false, nil
}

func (ss *SolveService) withDefaults(params solver.Params) solver.Params {
	d := ss.defaults
	if params.Strategy == "" {
		params.Strategy = d.Strategy
	}
	if params.Heuristic == "" {
		params.Heuristic = d.Heuristic
	}
	if params.Workers == 0 {
		params.Workers = d.Workers
	}
	if params.KLimit == 0 {
		params.KLimit = d.KLimit
	}
	if params.Bound == 0 {
		if kind, ok := pkg.GetStrategyKind(params.Strategy); ok && kind == pkg.BOUNDED_ASTAR {
			params.Bound = d.Bound
		}
	}
	if d.MaxExpansions > 0 && (params.MaxExpansions == 0 || params.MaxExpansions > d.MaxExpansions) {
		params.MaxExpansions = d.MaxExpansions
	}
	if d.Timeout > 0 && (params.Timeout == 0 || params.Timeout > d.Timeout) {
		params.Timeout = d.Timeout
	}
	return params
}

func (ss *SolveService) Fixture(name string) (*instance.Problem, error) {
	return instance.Fixture(name)
}

func (ss *SolveService) FixtureNames() []string {
	return instance.FixtureNames()
}

func cacheKey(p *instance.Problem, params solver.Params) (string, error) {
	// problem names do not change the answer
	named := *p
	named.Name = ""
	data, err := json.Marshal(struct {
		Problem instance.Problem `json:"problem"`
		Params  solver.Params    `json:"params"`
	}{named, params})
	if err != nil {
		return "", util.WrapErrorf(err, util.ErrInternalServerError, "solve cache key")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
