package engine

import (
	"context"
	"time"

	"github.com/lintang-b-s/Deliverx/pkg/concurrent"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/state"
	"github.com/lintang-b-s/Deliverx/pkg/successor"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"go.uber.org/zap"
)

// searcher is the bookkeeping shared by every strategy: the seen set, the budget and the
// counters. It is only touched by the goroutine running the strategy.
type searcher struct {
	ctx      context.Context
	e        *Engine
	deadline time.Time

	seen map[state.Key]float64 // best g known for a configuration

	nodesExpanded  int
	nodesGenerated int
}

func newSearcher(ctx context.Context, e *Engine, start time.Time) *searcher {
	sr := &searcher{
		ctx:  ctx,
		e:    e,
		seen: make(map[state.Key]float64),
	}
	if e.timeout > 0 {
		sr.deadline = start.Add(e.timeout)
	}
	return sr
}

// checkBudget is consulted once per pop/expand cycle.
func (sr *searcher) checkBudget() error {
	if util.StopConcurrentOperation(sr.ctx) {
		return util.WrapErrorf(sr.ctx.Err(), util.ErrSearchAborted, "search cancelled after %d expansions", sr.nodesExpanded)
	}
	if sr.e.maxExpansions > 0 && sr.nodesExpanded >= sr.e.maxExpansions {
		return util.WrapErrorf(nil, util.ErrSearchAborted, "expansion budget of %d exhausted", sr.e.maxExpansions)
	}
	if !sr.deadline.IsZero() && time.Now().After(sr.deadline) {
		return util.WrapErrorf(nil, util.ErrSearchAborted, "time budget of %v exhausted after %d expansions", sr.e.timeout, sr.nodesExpanded)
	}
	return nil
}

// dominated reports whether a configuration equal to s is already known with g <= s.g.
func (sr *searcher) dominated(s *state.State) bool {
	best, ok := sr.seen[s.Key()]
	return ok && da.Ge(s.G(), best)
}

// admit records s as the best known path to its configuration, false if it is dominated.
func (sr *searcher) admit(s *state.State) bool {
	if sr.dominated(s) {
		return false
	}
	sr.seen[s.Key()] = s.G()
	return true
}

// stale reports whether a cheaper path to the configuration of s was found after s was queued.
func (sr *searcher) stale(s *state.State) bool {
	best, ok := sr.seen[s.Key()]
	return ok && da.Lt(best, s.G())
}

// expand generates and scores every child of s.
func (sr *searcher) expand(s *state.State) []*state.State {
	children := successor.Expand(sr.e.world, s)
	sr.score(children)

	sr.nodesExpanded++
	sr.nodesGenerated += len(children)
	if sr.e.progressEvery > 0 && sr.nodesExpanded%sr.e.progressEvery == 0 {
		sr.e.logger.Debug("search progress",
			zap.Int("expanded", sr.nodesExpanded),
			zap.Int("generated", sr.nodesGenerated),
			zap.Int("seen", len(sr.seen)),
			zap.Float64("f", s.F()))
	}
	return children
}

// score sets h on every child. With more than one worker each child is scored by exactly one
// goroutine and the caller resumes only after all of them are done.
func (sr *searcher) score(children []*state.State) {
	w, h := sr.e.world, sr.e.heuristic
	if sr.e.workers <= 1 || len(children) < 2 {
		for _, c := range children {
			c.SetH(h.Score(w, c))
		}
		return
	}

	concurrent.RunAll[*state.State, struct{}](util.MinInt(sr.e.workers, len(children)), children, func(c *state.State) struct{} {
		c.SetH(h.Score(w, c))
		return struct{}{}
	})
}
