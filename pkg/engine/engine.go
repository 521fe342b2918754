package engine

import (
	"context"
	"time"

	"github.com/lintang-b-s/Deliverx/pkg"
	"github.com/lintang-b-s/Deliverx/pkg/heuristic"
	"github.com/lintang-b-s/Deliverx/pkg/state"
	"github.com/lintang-b-s/Deliverx/pkg/world"
	"go.uber.org/zap"
)

type Engine struct {
	world     *world.World
	heuristic heuristic.Heuristic
	strategy  Strategy
	logger    *zap.Logger

	maxExpansions int
	timeout       time.Duration
	workers       int
	progressEvery int
}

type Option func(*Engine)

// WithMaxExpansions aborts the search after n expansions. n <= 0 means no limit.
func WithMaxExpansions(n int) Option {
	return func(e *Engine) { e.maxExpansions = n }
}

// WithTimeout aborts the search once d of wall clock time has passed. d <= 0 means no limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithWorkers scores the children of one expansion on n goroutines.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithProgressEvery logs search progress at debug level every n expansions.
func WithProgressEvery(n int) Option {
	return func(e *Engine) { e.progressEvery = n }
}

func NewEngine(w *world.World, h heuristic.Heuristic, strategy Strategy, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		world:         w,
		heuristic:     h,
		strategy:      strategy,
		logger:        logger,
		workers:       1,
		progressEvery: pkg.DEFAULT_PROGRESS_EVERY,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result of one search. Strategy, Bound and KLimit tell the caller which guarantees apply.
type Result struct {
	Solution             *state.State
	NodesExpanded        int
	NodesGenerated       int
	Strategy             pkg.StrategyKind
	Bound                float64
	KLimit               int
	Heuristic            string
	OptimalityGuaranteed bool
	Elapsed              time.Duration
}

// Search runs the configured strategy from initial. On util.ErrNoSolution or
// util.ErrSearchAborted the returned Result still carries the search counters.
func (e *Engine) Search(ctx context.Context, initial *state.State) (*Result, error) {
	start := time.Now()
	if !initial.HasH() {
		initial.SetH(e.heuristic.Score(e.world, initial))
	}

	e.logger.Info("search started",
		zap.String("strategy", e.strategy.Kind().String()),
		zap.String("heuristic", e.heuristic.Name()),
		zap.Int("cars", e.world.NumCars()),
		zap.Int("packages", e.world.NumPackages()),
		zap.Float64("h0", initial.H()))

	sr := newSearcher(ctx, e, start)
	solution, err := e.strategy.search(sr, initial)

	res := &Result{
		Solution:             solution,
		NodesExpanded:        sr.nodesExpanded,
		NodesGenerated:       sr.nodesGenerated,
		Strategy:             e.strategy.Kind(),
		Bound:                e.strategy.Bound(),
		KLimit:               e.strategy.KLimit(),
		Heuristic:            e.heuristic.Name(),
		OptimalityGuaranteed: e.strategy.exhaustive() && e.heuristic.Admissible(),
		Elapsed:              time.Since(start),
	}
	if err != nil {
		e.logger.Info("search stopped without solution",
			zap.Error(err),
			zap.Int("expanded", res.NodesExpanded),
			zap.Duration("elapsed", res.Elapsed))
		return res, err
	}

	e.logger.Info("search finished",
		zap.Float64("cost", solution.G()),
		zap.Int("expanded", res.NodesExpanded),
		zap.Int("generated", res.NodesGenerated),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}
