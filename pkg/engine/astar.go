package engine

import (
	"github.com/lintang-b-s/Deliverx/pkg"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/state"
	"github.com/lintang-b-s/Deliverx/pkg/util"
)

// AStar is best first search on f = g + h. With a bound it only queues the best
// fraction (or count) of the children of every expansion.
type AStar struct {
	kind  pkg.StrategyKind
	bound float64
}

func NewAStar() *AStar {
	return &AStar{kind: pkg.ASTAR}
}

func NewBoundedAStar(bound float64) *AStar {
	return &AStar{kind: pkg.BOUNDED_ASTAR, bound: bound}
}

func (a *AStar) Kind() pkg.StrategyKind { return a.kind }
func (a *AStar) Bound() float64         { return a.bound }
func (a *AStar) KLimit() int            { return 0 }

func (a *AStar) exhaustive() bool {
	return a.kind == pkg.ASTAR || a.bound <= 0
}

func (a *AStar) search(sr *searcher, initial *state.State) (*state.State, error) {
	pq := da.NewFourAryHeap[*state.State]()
	sr.admit(initial)
	pq.Insert(da.NewPriorityQueueNodeWithTieBreak(initial.F(), initial.G(), initial))

	for !pq.IsEmpty() {
		if err := sr.checkBudget(); err != nil {
			return nil, err
		}

		node, err := pq.ExtractMin()
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrInternalServerError, "frontier")
		}
		s := node.GetItem()
		if sr.stale(s) {
			continue
		}
		if s.IsGoal() {
			return s, nil
		}

		children := sr.expand(s)
		candidates := children[:0]
		for _, c := range children {
			if !sr.dominated(c) {
				candidates = append(candidates, c)
			}
		}
		if a.kind == pkg.BOUNDED_ASTAR {
			candidates = best(candidates, keepCount(a.bound, len(candidates)))
		}

		for _, c := range candidates {
			if sr.admit(c) {
				pq.Insert(da.NewPriorityQueueNodeWithTieBreak(c.F(), c.G(), c))
			}
		}
	}

	return nil, util.WrapErrorf(nil, util.ErrNoSolution, "frontier exhausted after %d expansions", sr.nodesExpanded)
}
