package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lintang-b-s/Deliverx/pkg"
	"github.com/lintang-b-s/Deliverx/pkg/instance"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	N, K, M  int
	NumSims  int
	Parallel int // problems solved at the same time
	Params   solver.Params
}

type Record struct {
	RunID             string  `json:"run_id"`
	Seed              uint64  `json:"seed"`
	NodeCount         int     `json:"node_count"`
	CostSum           float64 `json:"cost_sum"`
	PreProcessingTime float64 `json:"preprocessing_time"`
	SimulationTime    float64 `json:"simulation_time"`
	Error             string  `json:"error,omitempty"`
}

type Report struct {
	Algorithm string   `json:"algorithm"`
	N         int      `json:"n"`
	K         int      `json:"k"`
	M         int      `json:"m"`
	NumSims   int      `json:"num_sims"`
	Heuristic string   `json:"heuristic"`
	Bound     float64  `json:"bound,omitempty"`
	KLimit    int      `json:"k_limit,omitempty"`
	Data      []Record `json:"data"`
}

// Run solves NumSims random problems seeded 0..NumSims-1. A problem without a solution
// or with an exhausted budget is reported in its record; any other failure stops the run.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NumSims < 1 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "number of simulations must be at least 1, got %d", cfg.NumSims)
	}
	kind := pkg.ASTAR
	if cfg.Params.Strategy != "" {
		var ok bool
		if kind, ok = pkg.GetStrategyKind(cfg.Params.Strategy); !ok {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown strategy %q", cfg.Params.Strategy)
		}
	}

	report := &Report{
		Algorithm: kind.String(),
		N:         cfg.N,
		K:         cfg.K,
		M:         cfg.M,
		NumSims:   cfg.NumSims,
		Heuristic: cfg.Params.Heuristic,
		Data:      make([]Record, cfg.NumSims),
	}
	switch kind {
	case pkg.BOUNDED_ASTAR:
		report.Bound = cfg.Params.Bound
	case pkg.LOCAL_BEAM:
		report.KLimit = cfg.Params.KLimit
	}

	s := solver.New(logger.Named("solver"))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Parallel))

	var mu sync.Mutex
	done := 0
	for i := 0; i < cfg.NumSims; i++ {
		seed := uint64(i)
		g.Go(func() error {
			record, err := runOne(gctx, s, cfg, seed)
			if err != nil {
				return err
			}
			report.Data[seed] = record

			mu.Lock()
			done++
			logger.Debug("simulation finished", zap.Uint64("seed", seed), zap.Int("done", done), zap.String("error", record.Error))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("simulations finished",
		zap.String("algorithm", report.Algorithm),
		zap.Int("num_sims", report.NumSims),
		zap.Int("solved", report.Solved()))
	return report, nil
}

func runOne(ctx context.Context, s *solver.Solver, cfg Config, seed uint64) (Record, error) {
	record := Record{RunID: uuid.NewString(), Seed: seed}

	p, err := instance.Random(cfg.N, cfg.K, cfg.M, seed)
	if err != nil {
		return record, err
	}

	start := time.Now()
	res, err := s.RunProblem(ctx, p, cfg.Params)
	switch {
	case err == nil:
	case errors.Is(err, util.ErrNoSolution), errors.Is(err, util.ErrSearchAborted):
		record.SimulationTime = time.Since(start).Seconds()
		record.Error = err.Error()
		return record, nil
	default:
		return record, err
	}

	record.NodeCount = res.NodesExpanded
	record.CostSum = res.TotalCost
	record.PreProcessingTime = res.PreprocessingTime.Seconds()
	record.SimulationTime = res.Elapsed.Seconds()
	return record, nil
}

// Solved counts the records that reached a goal.
func (r *Report) Solved() int {
	solved := 0
	for _, rec := range r.Data {
		if rec.Error == "" {
			solved++
		}
	}
	return solved
}

// MeanCost is the mean solution cost over solved records, 0 if none were solved.
func (r *Report) MeanCost() float64 {
	sum, solved := 0.0, 0
	for _, rec := range r.Data {
		if rec.Error == "" {
			sum += rec.CostSum
			solved++
		}
	}
	if solved == 0 {
		return 0
	}
	return sum / float64(solved)
}

func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "encode report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "write report %s", path)
	}
	return nil
}
